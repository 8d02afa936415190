// Package drafthandlers adapts draft commands to the draft service.
package drafthandlers

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/gridiron-gm/engine/app/eventbus"
	"github.com/gridiron-gm/engine/app/events"
	draftapplication "github.com/gridiron-gm/engine/app/modules/draft/application"
	draftevents "github.com/gridiron-gm/engine/app/modules/draft/events"
	"github.com/gridiron-gm/engine/app/shared"
	"github.com/gridiron-gm/engine/internal/eventutil"
)

// Handlers routes draft commands.
type Handlers struct {
	service *draftapplication.Service
	bus     eventbus.EventBus
	logger  *slog.Logger
}

// NewHandlers wires the draft handlers.
func NewHandlers(service *draftapplication.Service, bus eventbus.EventBus, logger *slog.Logger) *Handlers {
	return &Handlers{service: service, bus: bus, logger: logger}
}

// Registrations lists the draft module's command bindings.
func (h *Handlers) Registrations() []shared.Registration {
	return []shared.Registration{
		{Type: draftevents.CmdGetDraft, Mutating: false, Handle: h.HandleGetDraft},
		{Type: draftevents.CmdStartDraft, Mutating: true, Handle: h.HandleStartDraft},
		{Type: draftevents.CmdMakePick, Mutating: true, Handle: h.HandleMakePick},
		{Type: draftevents.CmdSimulatePicks, Mutating: true, Handle: h.HandleSimulatePicks},
	}
}

// HandleGetDraft returns the draft board.
func (h *Handlers) HandleGetDraft(msg *message.Message) error {
	view, err := h.service.State(msg.Context())
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, draftevents.EventDraftState, view)
}

// HandleStartDraft opens the draft.
func (h *Handlers) HandleStartDraft(msg *message.Message) error {
	view, err := h.service.StartDraft(msg.Context())
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, draftevents.EventDraftState, view)
}

// HandleMakePick executes the user's selection.
func (h *Handlers) HandleMakePick(msg *message.Message) error {
	var req draftevents.MakePickRequest
	if err := eventutil.Decode(msg, &req); err != nil {
		return h.replyError(msg, err)
	}
	made, err := h.service.MakePick(msg.Context(), req.PlayerID)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, draftevents.EventDraftPick, made)
}

// HandleSimulatePicks advances AI picks.
func (h *Handlers) HandleSimulatePicks(msg *message.Message) error {
	req := draftevents.SimulatePicksRequest{}
	if len(msg.Payload) > 0 {
		if err := eventutil.Decode(msg, &req); err != nil {
			return h.replyError(msg, err)
		}
	}
	view, err := h.service.SimulatePicks(msg.Context(), req.Picks)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, draftevents.EventDraftState, view)
}

func (h *Handlers) reply(inbound *message.Message, eventType string, payload any) error {
	out, err := eventutil.ReplyTo(inbound, eventType, payload)
	if err != nil {
		return err
	}
	return h.bus.Publish(events.EventOutbox, out)
}

func (h *Handlers) replyError(inbound *message.Message, cause error) error {
	h.logger.Warn("draft command failed", slog.Any("error", cause))
	out, err := eventutil.ErrorReply(inbound, cause)
	if err != nil {
		return err
	}
	return h.bus.Publish(events.EventOutbox, out)
}
