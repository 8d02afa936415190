// Package draft bundles the rookie draft module.
package draft

import (
	"log/slog"

	"github.com/gridiron-gm/engine/app/eventbus"
	"github.com/gridiron-gm/engine/app/gen"
	draftapplication "github.com/gridiron-gm/engine/app/modules/draft/application"
	drafthandlers "github.com/gridiron-gm/engine/app/modules/draft/handlers"
	"github.com/gridiron-gm/engine/app/shared"
)

// Module is the draft module.
type Module struct {
	Service  *draftapplication.Service
	handlers *drafthandlers.Handlers
}

// NewModule wires the draft module.
func NewModule(state *shared.State, bus eventbus.EventBus, g *gen.Generator, logger *slog.Logger) *Module {
	service := draftapplication.NewService(state, bus, g, logger)
	return &Module{
		Service:  service,
		handlers: drafthandlers.NewHandlers(service, bus, logger),
	}
}

// Name identifies the module in logs and metrics.
func (m *Module) Name() string { return "draft" }

// Registrations lists the module's command bindings.
func (m *Module) Registrations() []shared.Registration { return m.handlers.Registrations() }
