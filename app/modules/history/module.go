// Package history bundles the read-only league history module.
package history

import (
	"log/slog"

	"github.com/gridiron-gm/engine/app/eventbus"
	historyapplication "github.com/gridiron-gm/engine/app/modules/history/application"
	historyhandlers "github.com/gridiron-gm/engine/app/modules/history/handlers"
	"github.com/gridiron-gm/engine/app/shared"
)

// Module is the history module.
type Module struct {
	Service  *historyapplication.Service
	handlers *historyhandlers.Handlers
}

// NewModule wires the history module.
func NewModule(state *shared.State, bus eventbus.EventBus, logger *slog.Logger) *Module {
	service := historyapplication.NewService(state, logger)
	return &Module{
		Service:  service,
		handlers: historyhandlers.NewHandlers(service, bus, logger),
	}
}

// Name identifies the module in logs and metrics.
func (m *Module) Name() string { return "history" }

// Registrations lists the module's command bindings.
func (m *Module) Registrations() []shared.Registration { return m.handlers.Registrations() }
