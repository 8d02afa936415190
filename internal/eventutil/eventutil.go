// Package eventutil builds outbox messages with the metadata the protocol
// requires: the event type and, for replies, the inbound correlation id.
package eventutil

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/gridiron-gm/engine/app/events"
)

// Event builds an unsolicited broadcast message.
func Event(eventType string, payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(events.MetadataEventKey, eventType)
	return msg, nil
}

// ReplyTo builds a response message carrying the inbound command's
// correlation id.
func ReplyTo(inbound *message.Message, eventType string, payload any) (*message.Message, error) {
	msg, err := Event(eventType, payload)
	if err != nil {
		return nil, err
	}
	if id := middleware.MessageCorrelationID(inbound); id != "" {
		middleware.SetCorrelationID(id, msg)
	}
	return msg, nil
}

// EventType reads the event type off an outbox message.
func EventType(msg *message.Message) string {
	return msg.Metadata.Get(events.MetadataEventKey)
}
