package shared

import "fmt"

// Validation error codes surfaced to the presentation layer.
const (
	CodeNoLeague        = "no_league"
	CodeInvalidID       = "invalid_id"
	CodeInvalidPhase    = "invalid_phase"
	CodeInsufficientCap = "insufficient_cap"
	CodeNotYourPick     = "not_your_pick"
	CodeUnknownCommand  = "unknown_command"
	CodeBadPayload      = "bad_payload"
	CodeInternal        = "internal"
)

// ValidationError is a user-correctable failure. It crosses the command
// boundary as a structured error response, never as a dropped message.
type ValidationError struct {
	Code string
	Msg  string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError with a formatted message.
func Validationf(code, format string, args ...any) error {
	return &ValidationError{Code: code, Msg: fmt.Sprintf(format, args...)}
}
