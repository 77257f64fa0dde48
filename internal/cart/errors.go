package cart

import (
	"errors"
	"strconv"
	"strings"

	"github.com/fjod/moment_cart/internal/catalog"
	"github.com/fjod/moment_cart/internal/domain"
	"github.com/fjod/moment_cart/internal/storage"
	"github.com/sony/gobreaker/v2"
)

// Translate maps a raw error onto the CartError taxonomy by inspecting
// sentinels first, then message substrings.
func Translate(err error) *domain.CartError {
	var cartErr *domain.CartError
	if errors.As(err, &cartErr) {
		return cartErr
	}

	switch {
	case errors.Is(err, catalog.ErrEventNotFound):
		return &domain.CartError{
			Kind:         domain.ErrKindEventUnavailable,
			Message:      err.Error(),
			Recoverable:  false,
			RecoveryHint: "the event may have been removed from the catalog; refresh the listing",
		}
	case errors.Is(err, ErrItemNotInCart):
		return &domain.CartError{
			Kind:         domain.ErrKindConfiguration,
			Message:      err.Error(),
			Recoverable:  false,
			RecoveryHint: "refresh the cart; the item may already have been removed",
		}
	case errors.Is(err, storage.ErrDraftNotFound):
		return &domain.CartError{
			Kind:         domain.ErrKindConfiguration,
			Message:      err.Error(),
			Recoverable:  false,
			RecoveryHint: "the draft may already have been deleted",
		}
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &domain.CartError{
			Kind:         domain.ErrKindNetwork,
			Message:      "wallet service is unavailable",
			Recoverable:  true,
			RecoveryHint: "wait a moment and try again",
		}
	}

	msg := err.Error()
	switch {
	case containsAny(msg, "cart record", "redis", "mongo", "file "):
		return &domain.CartError{
			Kind:         domain.ErrKindStorage,
			Message:      msg,
			Recoverable:  true,
			RecoveryHint: "the change is kept in memory; retry to persist it",
		}
	case containsAny(msg, "connection refused", "timeout", "network", "unreachable"):
		return &domain.CartError{
			Kind:         domain.ErrKindNetwork,
			Message:      msg,
			Recoverable:  true,
			RecoveryHint: "check the connection and try again",
		}
	}

	return &domain.CartError{
		Kind:         domain.ErrKindNetwork,
		Message:      msg,
		Recoverable:  true,
		RecoveryHint: "try again",
	}
}

func validationError(result domain.ValidationResult) *domain.CartError {
	return &domain.CartError{
		Kind:         domain.ErrKindValidation,
		Message:      strings.Join(result.Errors, "; "),
		Recoverable:  true,
		RecoveryHint: "fix the reported issues and retry",
	}
}

func insufficientFunds(shortfall int64) *domain.CartError {
	return &domain.CartError{
		Kind:         domain.ErrKindInsufficientFunds,
		Message:      insufficientMessage(shortfall),
		Recoverable:  true,
		RecoveryHint: "recharge the wallet or save the cart as a draft",
	}
}

func insufficientMessage(shortfall int64) string {
	return "insufficient funds: short by " + strconv.FormatInt(shortfall, 10)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
