package cart

import (
	"context"
	"log"
	"time"

	"github.com/fjod/moment_cart/internal/domain"
	"github.com/fjod/moment_cart/internal/rules"
)

// CheckoutReceipt is what a successful checkout resolves with. Settlement
// itself is external; the receipt records what this core committed.
type CheckoutReceipt struct {
	TransactionID string    `json:"transaction_id"`
	Amount        int64     `json:"amount"`
	ItemCount     int       `json:"item_count"`
	CompletedAt   time.Time `json:"completed_at"`
}

// ValidateCheckout runs the checkout gate against the current wallet balance
// without committing anything.
func (s *Service) ValidateCheckout(ctx context.Context) (domain.ValidationResult, error) {
	balance, err := s.wallet.Balance(ctx)
	if err != nil {
		return domain.ValidationResult{}, s.fail(Translate(err))
	}
	return rules.ValidateCheckout(s.snapshot(), balance, s.now()), nil
}

// ProcessCheckout re-validates, charges the simulated processor and, on
// success, clears the cart and publishes a checkout event. The payment
// latency is synchronous and not cancellable.
func (s *Service) ProcessCheckout(ctx context.Context) (CheckoutReceipt, error) {
	s.begin()

	snap := s.snapshot()
	balance, err := s.wallet.Balance(ctx)
	if err != nil {
		return CheckoutReceipt{}, s.fail(Translate(err))
	}

	result := rules.ValidateCheckout(snap, balance, s.now())
	if !result.IsValid {
		if balance < snap.TotalPrice {
			return CheckoutReceipt{}, s.fail(insufficientFunds(snap.TotalPrice - balance))
		}
		return CheckoutReceipt{}, s.fail(validationError(result))
	}
	logWarnings("checkout", result.Warnings)

	charge, err := s.payments.Charge(ctx, snap.TotalPrice)
	if err != nil {
		return CheckoutReceipt{}, s.fail(Translate(err))
	}
	if !charge.OK {
		return CheckoutReceipt{}, s.fail(&domain.CartError{
			Kind:         domain.ErrKindNetwork,
			Message:      "payment failed: " + charge.Reason,
			Recoverable:  true,
			RecoveryHint: "try again or save the cart as a draft",
		})
	}

	receipt := CheckoutReceipt{
		TransactionID: charge.TransactionID,
		Amount:        snap.TotalPrice,
		ItemCount:     len(snap.Items),
		CompletedAt:   s.now(),
	}

	s.dispatch(domain.ClearCart{})
	if err := s.store.ClearCart(ctx); err != nil {
		// The charge already went through; surface the storage error but
		// keep the receipt. Memory and storage re-converge on next write.
		s.dispatch(domain.SetError{Err: Translate(err)})
		log.Printf("failed to clear persisted cart after checkout: %v", err)
	}
	s.invalidateAnalytics()

	if err := s.publisher.Publish(ctx, receipt, snap.Items); err != nil {
		log.Printf("failed to publish checkout event: %v", err)
	}

	s.clearCheckoutStep(ctx)
	s.finish()
	return receipt, nil
}

func (s *Service) clearCheckoutStep(ctx context.Context) {
	state := s.Session(ctx)
	if state.CheckoutStep == "" {
		return
	}
	state.CheckoutStep = ""
	if err := s.session.Save(ctx, state); err != nil {
		log.Printf("session save failed: %v", err)
	}
}
