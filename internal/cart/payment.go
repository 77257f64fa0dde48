package cart

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ChargeResult is the simulated processor's answer. A refused charge carries
// the refusal reason; transport-level failures come back as errors instead.
type ChargeResult struct {
	OK            bool
	Reason        string
	TransactionID string
}

type PaymentProcessor interface {
	Charge(ctx context.Context, amount int64) (ChargeResult, error)
}

// OutcomeSource decides how a simulated charge ends.
type OutcomeSource interface {
	Outcome() (ok bool, reason string)
}

// RandomOutcome approves 95 of 101 draws, matching a processor that mostly
// succeeds but occasionally refuses.
type RandomOutcome struct{}

func (RandomOutcome) Outcome() (bool, string) {
	n := rand.Intn(101)
	if n < 95 {
		return true, ""
	}
	reasons := []string{
		"insufficient processor float",
		"card network timeout",
		"issuer refused",
		"risk check failed",
		"unknown reason",
		"unknown reason",
	}
	return false, reasons[n-95]
}

// FixedOutcome always answers the same way; tests use it.
type FixedOutcome struct {
	OK     bool
	Reason string
}

func (o FixedOutcome) Outcome() (bool, string) {
	return o.OK, o.Reason
}

// SimulatedProcessor stands in for the real payment collaborator: a fixed
// settlement delay, then an outcome. The delay is plain sleep; checkout has
// no cancellation in this core.
type SimulatedProcessor struct {
	delay   time.Duration
	outcome OutcomeSource
}

func NewSimulatedProcessor(delay time.Duration, outcome OutcomeSource) *SimulatedProcessor {
	return &SimulatedProcessor{delay: delay, outcome: outcome}
}

func (p *SimulatedProcessor) Charge(_ context.Context, _ int64) (ChargeResult, error) {
	time.Sleep(p.delay)
	ok, reason := p.outcome.Outcome()
	return ChargeResult{
		OK:            ok,
		Reason:        reason,
		TransactionID: fmt.Sprintf("TXN-%s", uuid.NewString()),
	}, nil
}
