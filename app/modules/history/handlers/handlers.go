// Package historyhandlers adapts history queries to the history service.
package historyhandlers

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/gridiron-gm/engine/app/eventbus"
	"github.com/gridiron-gm/engine/app/events"
	historyapplication "github.com/gridiron-gm/engine/app/modules/history/application"
	historyevents "github.com/gridiron-gm/engine/app/modules/history/events"
	"github.com/gridiron-gm/engine/app/shared"
	"github.com/gridiron-gm/engine/internal/eventutil"
)

// Handlers routes history queries. Everything here is read-only.
type Handlers struct {
	service *historyapplication.Service
	bus     eventbus.EventBus
	logger  *slog.Logger
}

// NewHandlers wires the history handlers.
func NewHandlers(service *historyapplication.Service, bus eventbus.EventBus, logger *slog.Logger) *Handlers {
	return &Handlers{service: service, bus: bus, logger: logger}
}

// Registrations lists the history module's command bindings.
func (h *Handlers) Registrations() []shared.Registration {
	return []shared.Registration{
		{Type: historyevents.CmdSeasons, Mutating: false, Handle: h.HandleSeasons},
		{Type: historyevents.CmdSeason, Mutating: false, Handle: h.HandleSeason},
		{Type: historyevents.CmdCareer, Mutating: false, Handle: h.HandleCareer},
		{Type: historyevents.CmdBoxScore, Mutating: false, Handle: h.HandleBoxScore},
		{Type: historyevents.CmdLeaders, Mutating: false, Handle: h.HandleLeaders},
		{Type: historyevents.CmdTransactions, Mutating: false, Handle: h.HandleTransactions},
	}
}

// HandleSeasons lists archived seasons.
func (h *Handlers) HandleSeasons(msg *message.Message) error {
	view, err := h.service.Seasons(msg.Context())
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, historyevents.EventSeasons, view)
}

// HandleSeason returns one season's summary and game log.
func (h *Handlers) HandleSeason(msg *message.Message) error {
	var req historyevents.SeasonRequest
	if len(msg.Payload) > 0 {
		if err := eventutil.Decode(msg, &req); err != nil {
			return h.replyError(msg, err)
		}
	}
	view, err := h.service.Season(msg.Context(), req.SeasonID)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, historyevents.EventSeason, view)
}

// HandleCareer returns a player's career stat rows.
func (h *Handlers) HandleCareer(msg *message.Message) error {
	var req historyevents.CareerRequest
	if err := eventutil.Decode(msg, &req); err != nil {
		return h.replyError(msg, err)
	}
	view, err := h.service.Career(msg.Context(), req.PlayerID)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, historyevents.EventCareer, view)
}

// HandleBoxScore returns one game's full box score.
func (h *Handlers) HandleBoxScore(msg *message.Message) error {
	var req historyevents.BoxScoreRequest
	if err := eventutil.Decode(msg, &req); err != nil {
		return h.replyError(msg, err)
	}
	view, err := h.service.BoxScore(msg.Context(), req.GameID)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, historyevents.EventBoxScore, view)
}

// HandleLeaders returns a season's statistical leaderboards.
func (h *Handlers) HandleLeaders(msg *message.Message) error {
	var req historyevents.LeadersRequest
	if len(msg.Payload) > 0 {
		if err := eventutil.Decode(msg, &req); err != nil {
			return h.replyError(msg, err)
		}
	}
	view, err := h.service.Leaders(msg.Context(), req.SeasonID)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, historyevents.EventLeaders, view)
}

// HandleTransactions returns the recent roster-move log.
func (h *Handlers) HandleTransactions(msg *message.Message) error {
	var req historyevents.TransactionsRequest
	if len(msg.Payload) > 0 {
		if err := eventutil.Decode(msg, &req); err != nil {
			return h.replyError(msg, err)
		}
	}
	view, err := h.service.Transactions(msg.Context(), req.Limit)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, historyevents.EventTransactions, view)
}

func (h *Handlers) reply(inbound *message.Message, eventType string, payload any) error {
	out, err := eventutil.ReplyTo(inbound, eventType, payload)
	if err != nil {
		return err
	}
	return h.bus.Publish(events.EventOutbox, out)
}

func (h *Handlers) replyError(inbound *message.Message, cause error) error {
	h.logger.Warn("history query failed", slog.Any("error", cause))
	out, err := eventutil.ErrorReply(inbound, cause)
	if err != nil {
		return err
	}
	return h.bus.Publish(events.EventOutbox, out)
}
