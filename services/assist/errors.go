package assist

import "fmt"

// Engine error kinds. These never reach the customer; they surface in the
// staff debug payload and drive fallback phrasing.
const (
	ErrInputInvalid         = "INPUT_INVALID"
	ErrModelUnavailable     = "MODEL_UNAVAILABLE"
	ErrFunctionValidation   = "FUNCTION_VALIDATION_FAILED"
	ErrExecutorFailure      = "EXECUTOR_FAILURE"
	ErrChainLimitExceeded   = "CHAIN_LIMIT_EXCEEDED"
)

// Executor failure kinds for the discriminated FunctionResult.
const (
	FailValidation    = "VALIDATION"
	FailNotFound      = "NOT_FOUND"
	FailConflict      = "CONFLICT"
	FailUpstreamError = "UPSTREAM_ERROR"
)

// EngineError carries a taxonomy kind alongside the message.
type EngineError struct {
	Kind    string
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewEngineError(kind, msg string) error {
	return &EngineError{Kind: kind, Message: msg}
}
