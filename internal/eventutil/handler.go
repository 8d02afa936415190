package eventutil

import (
	"encoding/json"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/gridiron-gm/engine/app/events"
	"github.com/gridiron-gm/engine/app/shared"
)

// Decode unmarshals a command payload into req, converting malformed input
// into a bad-payload validation error instead of an internal failure.
func Decode(msg *message.Message, req any) error {
	if len(msg.Payload) == 0 {
		return shared.Validationf(shared.CodeBadPayload, "command payload is required")
	}
	if err := json.Unmarshal(msg.Payload, req); err != nil {
		return shared.Validationf(shared.CodeBadPayload, "malformed command payload: %v", err)
	}
	return nil
}

// ErrorReply builds the structured error response for a failed command.
// Validation errors keep their code; anything else is reported as internal.
func ErrorReply(inbound *message.Message, err error) (*message.Message, error) {
	payload := events.ErrorPayload{Code: shared.CodeInternal, Message: err.Error()}
	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		payload.Code = verr.Code
		payload.Message = verr.Msg
	}
	return ReplyTo(inbound, events.EventError, payload)
}
