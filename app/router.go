package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/gridiron-gm/engine/app/eventbus"
	"github.com/gridiron-gm/engine/app/events"
	"github.com/gridiron-gm/engine/app/shared"
	"github.com/gridiron-gm/engine/internal/eventutil"
)

// CommandGate serializes mutating commands against each other while letting
// read-only queries interleave freely.
type CommandGate struct {
	mu sync.RWMutex
}

// RunMutating executes fn with exclusive access to league state.
func (g *CommandGate) RunMutating(fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn()
}

// RunQuery executes fn with shared access to league state.
func (g *CommandGate) RunQuery(fn func() error) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return fn()
}

// Dispatcher owns the command inbox. Every envelope is decoded here; mutating
// commands run inline so their execution order is exactly their arrival
// order, while queries are republished to per-command topics and processed
// concurrently under the read gate.
type Dispatcher struct {
	bus      eventbus.EventBus
	gate     *CommandGate
	logger   *slog.Logger
	registry map[string]shared.Registration
}

// NewDispatcher indexes every module's registrations. Duplicate command
// types are a wiring bug and fail fast.
func NewDispatcher(bus eventbus.EventBus, gate *CommandGate, logger *slog.Logger, modules ...shared.Module) (*Dispatcher, error) {
	registry := map[string]shared.Registration{}
	for _, m := range modules {
		for _, reg := range m.Registrations() {
			if _, dup := registry[reg.Type]; dup {
				return nil, fmt.Errorf("command %s registered twice", reg.Type)
			}
			registry[reg.Type] = reg
			logger.Debug("command registered",
				slog.String("module", m.Name()),
				slog.String("type", reg.Type),
				slog.Bool("mutating", reg.Mutating))
		}
	}
	return &Dispatcher{bus: bus, gate: gate, logger: logger, registry: registry}, nil
}

// AddHandlers binds the dispatcher and the query workers to the router.
func (d *Dispatcher) AddHandlers(router *message.Router) {
	router.AddNoPublisherHandler(
		"engine.dispatch",
		events.CommandInbox,
		d.bus.Subscriber(),
		d.dispatch,
	)
	for cmdType, reg := range d.registry {
		if reg.Mutating {
			continue
		}
		handle := reg.Handle
		router.AddNoPublisherHandler(
			"query."+cmdType,
			cmdType,
			d.bus.Subscriber(),
			func(msg *message.Message) error {
				return d.gate.RunQuery(func() error { return handle(msg) })
			},
		)
	}
}

// dispatch decodes one command envelope and routes it. Unknown command types
// are answered with a structured error rather than dropped.
func (d *Dispatcher) dispatch(msg *message.Message) error {
	var cmd events.Command
	if err := json.Unmarshal(msg.Payload, &cmd); err != nil {
		return d.publishError(msg, shared.Validationf(shared.CodeBadPayload, "malformed command envelope: %v", err))
	}
	reg, ok := d.registry[cmd.Type]
	if !ok {
		return d.publishError(msg, shared.Validationf(shared.CodeUnknownCommand, "unknown command %q", cmd.Type))
	}

	inner := message.NewMessage(msg.UUID, message.Payload(cmd.Payload))
	inner.Metadata = msg.Metadata
	inner.SetContext(msg.Context())

	if reg.Mutating {
		return d.gate.RunMutating(func() error { return reg.Handle(inner) })
	}
	return d.bus.Publish(cmd.Type, inner)
}

func (d *Dispatcher) publishError(inbound *message.Message, cause error) error {
	d.logger.Warn("command rejected", slog.Any("error", cause))
	out, err := eventutil.ErrorReply(inbound, cause)
	if err != nil {
		return err
	}
	return d.bus.Publish(events.EventOutbox, out)
}
