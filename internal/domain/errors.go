package domain

// ErrorKind classifies failures surfaced to the UI layer.
type ErrorKind string

const (
	ErrKindNetwork           ErrorKind = "NETWORK_ERROR"
	ErrKindValidation        ErrorKind = "VALIDATION_ERROR"
	ErrKindInsufficientFunds ErrorKind = "INSUFFICIENT_FUNDS"
	ErrKindEventUnavailable  ErrorKind = "EVENT_UNAVAILABLE"
	ErrKindConfiguration     ErrorKind = "CONFIGURATION_ERROR"
	ErrKindStorage           ErrorKind = "STORAGE_ERROR"
)

// CartError is the typed error every operation rejects with. Recoverable
// errors carry a hint the UI can render next to a retry action.
type CartError struct {
	Kind         ErrorKind `json:"kind"`
	Message      string    `json:"message"`
	Recoverable  bool      `json:"recoverable"`
	RecoveryHint string    `json:"recovery_hint,omitempty"`
}

func (e *CartError) Error() string {
	return string(e.Kind) + ": " + e.Message
}
