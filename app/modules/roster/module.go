// Package roster bundles the roster management module: roster views, free
// agency, releases and trades.
package roster

import (
	"log/slog"

	"github.com/gridiron-gm/engine/app/eventbus"
	rosterapplication "github.com/gridiron-gm/engine/app/modules/roster/application"
	rosterhandlers "github.com/gridiron-gm/engine/app/modules/roster/handlers"
	"github.com/gridiron-gm/engine/app/shared"
)

// Module is the roster module.
type Module struct {
	Service  *rosterapplication.Service
	handlers *rosterhandlers.Handlers
}

// NewModule wires the roster module.
func NewModule(state *shared.State, bus eventbus.EventBus, logger *slog.Logger) *Module {
	service := rosterapplication.NewService(state, logger)
	return &Module{
		Service:  service,
		handlers: rosterhandlers.NewHandlers(service, bus, logger),
	}
}

// Name identifies the module in logs and metrics.
func (m *Module) Name() string { return "roster" }

// Registrations lists the module's command bindings.
func (m *Module) Registrations() []shared.Registration { return m.handlers.Registrations() }
