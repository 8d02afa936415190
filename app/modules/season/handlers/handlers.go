// Package seasonhandlers adapts season commands to the season service.
package seasonhandlers

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/gridiron-gm/engine/app/eventbus"
	"github.com/gridiron-gm/engine/app/events"
	leagueevents "github.com/gridiron-gm/engine/app/modules/league/events"
	seasonapplication "github.com/gridiron-gm/engine/app/modules/season/application"
	seasonevents "github.com/gridiron-gm/engine/app/modules/season/events"
	"github.com/gridiron-gm/engine/app/shared"
	"github.com/gridiron-gm/engine/internal/eventutil"
)

// Handlers routes season commands.
type Handlers struct {
	service *seasonapplication.Service
	bus     eventbus.EventBus
	logger  *slog.Logger
}

// NewHandlers wires the season handlers.
func NewHandlers(service *seasonapplication.Service, bus eventbus.EventBus, logger *slog.Logger) *Handlers {
	return &Handlers{service: service, bus: bus, logger: logger}
}

// Registrations lists the season module's command bindings. Everything here
// mutates league state.
func (h *Handlers) Registrations() []shared.Registration {
	return []shared.Registration{
		{Type: seasonevents.CmdAdvanceWeek, Mutating: true, Handle: h.HandleAdvanceWeek},
		{Type: seasonevents.CmdSimulateToWeek, Mutating: true, Handle: h.HandleSimulateToWeek},
		{Type: seasonevents.CmdAdvanceOffseason, Mutating: true, Handle: h.HandleAdvanceOffseason},
		{Type: seasonevents.CmdAdvanceFreeAgencyDay, Mutating: true, Handle: h.HandleAdvanceFreeAgencyDay},
		{Type: seasonevents.CmdStartNewSeason, Mutating: true, Handle: h.HandleStartNewSeason},
	}
}

// HandleAdvanceWeek plays the current week.
func (h *Handlers) HandleAdvanceWeek(msg *message.Message) error {
	wc, err := h.service.AdvanceWeek(msg.Context())
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.replyWithUpdate(msg, seasonevents.EventWeekComplete, wc)
}

// HandleSimulateToWeek fast-forwards to the target week. Per-week results go
// out as broadcasts; the reply carries the final week reached.
func (h *Handlers) HandleSimulateToWeek(msg *message.Message) error {
	var req seasonevents.SimulateToWeekRequest
	if err := eventutil.Decode(msg, &req); err != nil {
		return h.replyError(msg, err)
	}
	last, err := h.service.SimulateToWeek(msg.Context(), req.TargetWeek)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, seasonevents.EventWeekComplete, last)
}

// HandleAdvanceOffseason moves the league to its next offseason stage.
func (h *Handlers) HandleAdvanceOffseason(msg *message.Message) error {
	phase, err := h.service.AdvanceOffseason(msg.Context())
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.replyWithUpdate(msg, seasonevents.EventOffseasonPhase, phase)
}

// HandleAdvanceFreeAgencyDay resolves one free-agency day.
func (h *Handlers) HandleAdvanceFreeAgencyDay(msg *message.Message) error {
	phase, err := h.service.AdvanceFreeAgencyDay(msg.Context())
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.replyWithUpdate(msg, seasonevents.EventOffseasonPhase, phase)
}

// HandleStartNewSeason rolls the league into the next year.
func (h *Handlers) HandleStartNewSeason(msg *message.Message) error {
	state, err := h.service.StartNewSeason(msg.Context())
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, leagueevents.EventLeagueState, state)
}

// replyWithUpdate sends the primary reply and trails it with the refreshed
// league standings so the front end never has to ask.
func (h *Handlers) replyWithUpdate(inbound *message.Message, eventType string, payload any) error {
	if err := h.reply(inbound, eventType, payload); err != nil {
		return err
	}
	return h.reply(inbound, leagueevents.EventLeagueUpdate, h.service.LeagueUpdate())
}

func (h *Handlers) reply(inbound *message.Message, eventType string, payload any) error {
	out, err := eventutil.ReplyTo(inbound, eventType, payload)
	if err != nil {
		return err
	}
	return h.bus.Publish(events.EventOutbox, out)
}

func (h *Handlers) replyError(inbound *message.Message, cause error) error {
	h.logger.Warn("season command failed", slog.Any("error", cause))
	out, err := eventutil.ErrorReply(inbound, cause)
	if err != nil {
		return err
	}
	return h.bus.Publish(events.EventOutbox, out)
}
