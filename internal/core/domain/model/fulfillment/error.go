package fulfillment

import "fmt"

// ErrorKind classifies fulfillment failures so callers can react without
// parsing messages. The vocabulary is shared by every backend.
type ErrorKind string

const (
	ErrorKindInvalidItem           ErrorKind = "INVALID_ITEM"
	ErrorKindAPIError              ErrorKind = "API_ERROR"
	ErrorKindInsufficientInventory ErrorKind = "INSUFFICIENT_INVENTORY"
	ErrorKindInvalidAddress        ErrorKind = "INVALID_ADDRESS"
	ErrorKindPaymentRequired       ErrorKind = "PAYMENT_REQUIRED"
	ErrorKindFileNotFound          ErrorKind = "FILE_NOT_FOUND"
	ErrorKindGenerationFailed      ErrorKind = "GENERATION_FAILED"
	ErrorKindNetworkError          ErrorKind = "NETWORK_ERROR"
	ErrorKindUnknown               ErrorKind = "UNKNOWN"
)

// Error is a classified fulfillment failure carried inside a Result.
// It never propagates past a backend boundary as a raw error: the router
// only ever sees failed Results.
type Error struct {
	Kind    ErrorKind
	Message string

	// Details carries optional structured context (item ids, provider
	// responses). It is jsonized into tracking rows, never parsed back.
	Details map[string]any
}

// NewError creates a classified fulfillment error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewErrorWithDetails creates a classified fulfillment error with structured context.
func NewErrorWithDetails(kind ErrorKind, message string, details map[string]any) *Error {
	return &Error{Kind: kind, Message: message, Details: details}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
