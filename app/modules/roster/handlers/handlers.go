// Package rosterhandlers adapts roster commands to the roster service.
package rosterhandlers

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/gridiron-gm/engine/app/eventbus"
	"github.com/gridiron-gm/engine/app/events"
	leagueevents "github.com/gridiron-gm/engine/app/modules/league/events"
	rosterapplication "github.com/gridiron-gm/engine/app/modules/roster/application"
	rosterevents "github.com/gridiron-gm/engine/app/modules/roster/events"
	"github.com/gridiron-gm/engine/app/shared"
	"github.com/gridiron-gm/engine/internal/eventutil"
)

// Handlers routes roster commands.
type Handlers struct {
	service *rosterapplication.Service
	bus     eventbus.EventBus
	logger  *slog.Logger
}

// NewHandlers wires the roster handlers.
func NewHandlers(service *rosterapplication.Service, bus eventbus.EventBus, logger *slog.Logger) *Handlers {
	return &Handlers{service: service, bus: bus, logger: logger}
}

// Registrations lists the roster module's command bindings.
func (h *Handlers) Registrations() []shared.Registration {
	return []shared.Registration{
		{Type: rosterevents.CmdGetRoster, Mutating: false, Handle: h.HandleGetRoster},
		{Type: rosterevents.CmdGetFreeAgents, Mutating: false, Handle: h.HandleGetFreeAgents},
		{Type: rosterevents.CmdSignPlayer, Mutating: true, Handle: h.HandleSignPlayer},
		{Type: rosterevents.CmdSubmitOffer, Mutating: true, Handle: h.HandleSubmitOffer},
		{Type: rosterevents.CmdReleasePlayer, Mutating: true, Handle: h.HandleReleasePlayer},
		{Type: rosterevents.CmdTradeOffer, Mutating: true, Handle: h.HandleTradeOffer},
	}
}

// HandleGetRoster returns a team's roster.
func (h *Handlers) HandleGetRoster(msg *message.Message) error {
	var req rosterevents.GetRosterRequest
	if len(msg.Payload) > 0 {
		if err := eventutil.Decode(msg, &req); err != nil {
			return h.replyError(msg, err)
		}
	}
	view, err := h.service.Roster(msg.Context(), req.TeamID)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, rosterevents.EventRoster, view)
}

// HandleGetFreeAgents returns the free-agent pool.
func (h *Handlers) HandleGetFreeAgents(msg *message.Message) error {
	view, err := h.service.FreeAgents(msg.Context())
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, rosterevents.EventFreeAgents, view)
}

// HandleSignPlayer signs a free agent at his asking price.
func (h *Handlers) HandleSignPlayer(msg *message.Message) error {
	var req rosterevents.SignPlayerRequest
	if err := eventutil.Decode(msg, &req); err != nil {
		return h.replyError(msg, err)
	}
	update, err := h.service.SignPlayer(msg.Context(), req.PlayerID)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, leagueevents.EventLeagueUpdate, update)
}

// HandleSubmitOffer places a free-agency offer.
func (h *Handlers) HandleSubmitOffer(msg *message.Message) error {
	var req rosterevents.SubmitOfferRequest
	if err := eventutil.Decode(msg, &req); err != nil {
		return h.replyError(msg, err)
	}
	pv, err := h.service.SubmitOffer(msg.Context(), req)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, events.EventNotice, events.NoticePayload{
		Message: "offer submitted for " + pv.Name,
	})
}

// HandleReleasePlayer cuts a player from the user's team.
func (h *Handlers) HandleReleasePlayer(msg *message.Message) error {
	var req rosterevents.ReleasePlayerRequest
	if err := eventutil.Decode(msg, &req); err != nil {
		return h.replyError(msg, err)
	}
	update, err := h.service.ReleasePlayer(msg.Context(), req.PlayerID)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, leagueevents.EventLeagueUpdate, update)
}

// HandleTradeOffer proposes a trade to an AI team.
func (h *Handlers) HandleTradeOffer(msg *message.Message) error {
	var req rosterevents.TradeOfferRequest
	if err := eventutil.Decode(msg, &req); err != nil {
		return h.replyError(msg, err)
	}
	resp, err := h.service.TradeOffer(msg.Context(), req)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, rosterevents.EventTradeResponse, resp)
}

func (h *Handlers) reply(inbound *message.Message, eventType string, payload any) error {
	out, err := eventutil.ReplyTo(inbound, eventType, payload)
	if err != nil {
		return err
	}
	return h.bus.Publish(events.EventOutbox, out)
}

func (h *Handlers) replyError(inbound *message.Message, cause error) error {
	h.logger.Warn("roster command failed", slog.Any("error", cause))
	out, err := eventutil.ErrorReply(inbound, cause)
	if err != nil {
		return err
	}
	return h.bus.Publish(events.EventOutbox, out)
}
