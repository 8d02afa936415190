// Package league bundles the league lifecycle module: save management,
// league creation and league-level settings.
package league

import (
	"log/slog"

	"github.com/gridiron-gm/engine/app/eventbus"
	leagueapplication "github.com/gridiron-gm/engine/app/modules/league/application"
	leaguehandlers "github.com/gridiron-gm/engine/app/modules/league/handlers"
	"github.com/gridiron-gm/engine/app/shared"
	"github.com/gridiron-gm/engine/config"
)

// Module is the league module.
type Module struct {
	Service  *leagueapplication.Service
	handlers *leaguehandlers.Handlers
}

// NewModule wires the league module.
func NewModule(state *shared.State, bus eventbus.EventBus, cfg *config.Config, logger *slog.Logger) *Module {
	service := leagueapplication.NewService(state, cfg, logger)
	return &Module{
		Service:  service,
		handlers: leaguehandlers.NewHandlers(service, bus, logger),
	}
}

// Name identifies the module in logs and metrics.
func (m *Module) Name() string { return "league" }

// Registrations lists the module's command bindings.
func (m *Module) Registrations() []shared.Registration { return m.handlers.Registrations() }
