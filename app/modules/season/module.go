// Package season bundles the season lifecycle module: week advancement,
// playoffs, the offseason stages and the rollover into a new year.
package season

import (
	"log/slog"
	"math/rand"

	"github.com/gridiron-gm/engine/app/eventbus"
	"github.com/gridiron-gm/engine/app/gen"
	seasonapplication "github.com/gridiron-gm/engine/app/modules/season/application"
	seasonhandlers "github.com/gridiron-gm/engine/app/modules/season/handlers"
	"github.com/gridiron-gm/engine/app/shared"
	"github.com/gridiron-gm/engine/app/sim"
)

// Module is the season module.
type Module struct {
	Service  *seasonapplication.Service
	handlers *seasonhandlers.Handlers
}

// NewModule wires the season module.
func NewModule(state *shared.State, bus eventbus.EventBus, simulator sim.GameSimulator, g *gen.Generator, rng *rand.Rand, logger *slog.Logger) *Module {
	service := seasonapplication.NewService(state, bus, simulator, g, rng, logger)
	return &Module{
		Service:  service,
		handlers: seasonhandlers.NewHandlers(service, bus, logger),
	}
}

// Name identifies the module in logs and metrics.
func (m *Module) Name() string { return "season" }

// Registrations lists the module's command bindings.
func (m *Module) Registrations() []shared.Registration { return m.handlers.Registrations() }
