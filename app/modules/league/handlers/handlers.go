// Package leaguehandlers adapts league commands to the league service.
package leaguehandlers

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/gridiron-gm/engine/app/eventbus"
	"github.com/gridiron-gm/engine/app/events"
	leagueapplication "github.com/gridiron-gm/engine/app/modules/league/application"
	leagueevents "github.com/gridiron-gm/engine/app/modules/league/events"
	"github.com/gridiron-gm/engine/app/shared"
	"github.com/gridiron-gm/engine/internal/eventutil"
)

// Handlers routes league commands.
type Handlers struct {
	service *leagueapplication.Service
	bus     eventbus.EventBus
	logger  *slog.Logger
}

// NewHandlers wires the league handlers.
func NewHandlers(service *leagueapplication.Service, bus eventbus.EventBus, logger *slog.Logger) *Handlers {
	return &Handlers{service: service, bus: bus, logger: logger}
}

// Registrations lists the league module's command bindings.
func (h *Handlers) Registrations() []shared.Registration {
	return []shared.Registration{
		{Type: leagueevents.CmdInit, Mutating: false, Handle: h.HandleInit},
		{Type: leagueevents.CmdListSaves, Mutating: false, Handle: h.HandleListSaves},
		{Type: leagueevents.CmdLoadSave, Mutating: true, Handle: h.HandleLoadSave},
		{Type: leagueevents.CmdDeleteSave, Mutating: true, Handle: h.HandleDeleteSave},
		{Type: leagueevents.CmdCreateLeague, Mutating: true, Handle: h.HandleCreateLeague},
		{Type: leagueevents.CmdSaveNow, Mutating: true, Handle: h.HandleSaveNow},
		{Type: leagueevents.CmdResetLeague, Mutating: true, Handle: h.HandleResetLeague},
		{Type: leagueevents.CmdSetUserTeam, Mutating: true, Handle: h.HandleSetUserTeam},
		{Type: leagueevents.CmdUpdateSettings, Mutating: true, Handle: h.HandleUpdateSettings},
	}
}

// HandleInit answers the engine handshake with the save index.
func (h *Handlers) HandleInit(msg *message.Message) error {
	saves, err := h.service.ListSaves(msg.Context())
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, events.EventReady, saves)
}

// HandleListSaves returns the save index.
func (h *Handlers) HandleListSaves(msg *message.Message) error {
	saves, err := h.service.ListSaves(msg.Context())
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, leagueevents.EventSaveList, saves)
}

// HandleLoadSave opens a stored league.
func (h *Handlers) HandleLoadSave(msg *message.Message) error {
	var req leagueevents.LoadSaveRequest
	if err := eventutil.Decode(msg, &req); err != nil {
		return h.replyError(msg, err)
	}
	state, err := h.service.LoadSave(msg.Context(), req.SaveID)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, leagueevents.EventLeagueState, state)
}

// HandleDeleteSave destroys a stored league.
func (h *Handlers) HandleDeleteSave(msg *message.Message) error {
	var req leagueevents.DeleteSaveRequest
	if err := eventutil.Decode(msg, &req); err != nil {
		return h.replyError(msg, err)
	}
	saves, err := h.service.DeleteSave(msg.Context(), req.SaveID)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, leagueevents.EventSaveList, saves)
}

// HandleCreateLeague generates and opens a fresh league.
func (h *Handlers) HandleCreateLeague(msg *message.Message) error {
	var req leagueevents.CreateLeagueRequest
	if err := eventutil.Decode(msg, &req); err != nil {
		return h.replyError(msg, err)
	}
	state, err := h.service.CreateLeague(msg.Context(), req)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, leagueevents.EventLeagueState, state)
}

// HandleSaveNow forces a durable flush.
func (h *Handlers) HandleSaveNow(msg *message.Message) error {
	if err := h.service.SaveNow(msg.Context()); err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, events.EventNotice, events.NoticePayload{Message: "league saved"})
}

// HandleResetLeague closes the open league.
func (h *Handlers) HandleResetLeague(msg *message.Message) error {
	saves, err := h.service.ResetLeague(msg.Context())
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, leagueevents.EventSaveList, saves)
}

// HandleSetUserTeam switches the controlled franchise.
func (h *Handlers) HandleSetUserTeam(msg *message.Message) error {
	var req leagueevents.SetUserTeamRequest
	if err := eventutil.Decode(msg, &req); err != nil {
		return h.replyError(msg, err)
	}
	update, err := h.service.SetUserTeam(msg.Context(), req.TeamID)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, leagueevents.EventLeagueUpdate, update)
}

// HandleUpdateSettings adjusts league settings.
func (h *Handlers) HandleUpdateSettings(msg *message.Message) error {
	var req leagueevents.UpdateSettingsRequest
	if err := eventutil.Decode(msg, &req); err != nil {
		return h.replyError(msg, err)
	}
	update, err := h.service.UpdateSettings(msg.Context(), req.Settings)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, leagueevents.EventLeagueUpdate, update)
}

func (h *Handlers) reply(inbound *message.Message, eventType string, payload any) error {
	out, err := eventutil.ReplyTo(inbound, eventType, payload)
	if err != nil {
		return err
	}
	return h.bus.Publish(events.EventOutbox, out)
}

func (h *Handlers) replyError(inbound *message.Message, cause error) error {
	h.logger.Warn("league command failed", slog.Any("error", cause))
	out, err := eventutil.ErrorReply(inbound, cause)
	if err != nil {
		return err
	}
	return h.bus.Publish(events.EventOutbox, out)
}
