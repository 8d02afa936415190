package shared

import "github.com/ThreeDotsLabs/watermill/message"

// Registration binds one command type to its handler. Mutating commands are
// executed inline by the dispatcher under the exclusive write gate; queries
// are republished to their own topic and run under the shared read gate.
type Registration struct {
	Type     string
	Mutating bool
	Handle   message.NoPublishHandlerFunc
}

// Module is one feature module's contribution to the command router.
type Module interface {
	Name() string
	Registrations() []Registration
}
