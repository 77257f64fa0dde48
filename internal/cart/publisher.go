package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fjod/moment_cart/internal/domain"
	"github.com/segmentio/kafka-go"
)

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// CheckoutPublisher emits a message per completed checkout for downstream
// consumers (reporting, creative scheduling). A nil publisher is a no-op, so
// the core runs fine without a broker.
type CheckoutPublisher struct {
	writer kafkaWriter
}

func NewCheckoutPublisher(brokers ...string) *CheckoutPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "cart-checkout-completed",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &CheckoutPublisher{writer: w}
}

func (p *CheckoutPublisher) Publish(ctx context.Context, receipt CheckoutReceipt, items []domain.CartItem) error {
	if p == nil {
		return nil
	}

	eventIDs := make([]string, len(items))
	for i, it := range items {
		eventIDs[i] = it.Event.ID
	}

	payload, err := json.Marshal(map[string]interface{}{
		"transaction_id": receipt.TransactionID,
		"amount":         receipt.Amount,
		"item_count":     receipt.ItemCount,
		"completed_at":   receipt.CompletedAt,
		"event_ids":      eventIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to encode checkout event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(receipt.TransactionID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish checkout event: %w", err)
	}
	return nil
}

func (p *CheckoutPublisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
