// Package draftevents defines the draft module's command types and payloads.
package draftevents

import "github.com/gridiron-gm/engine/app/domain"

// Command types handled by the draft module.
const (
	CmdGetDraft      = "cmd.draft.get"
	CmdStartDraft    = "cmd.draft.start"
	CmdMakePick      = "cmd.draft.pick"
	CmdSimulatePicks = "cmd.draft.sim"
)

// Event types the draft module emits.
const (
	EventDraftState = "draft.state"
	EventDraftPick  = "draft.pick"
)

// PickView is one draft slot on the wire.
type PickView struct {
	ID          string             `json:"id"`
	Overall     int                `json:"overall"`
	Round       int                `json:"round"`
	PickInRound int                `json:"pickInRound"`
	TeamID      string             `json:"teamId"`
	TeamAbbr    string             `json:"teamAbbr"`
	Player      *domain.PickPlayer `json:"player,omitempty"`
}

// ProspectView is one draft-eligible player.
type ProspectView struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Pos       domain.Position `json:"pos"`
	Age       int             `json:"age"`
	Overall   int             `json:"overall"`
	Potential int             `json:"potential"`
}

// DraftStateView is the full draft board.
type DraftStateView struct {
	Active        bool           `json:"active"`
	Complete      bool           `json:"complete"`
	Year          int            `json:"year"`
	PickIndex     int            `json:"pickIndex"`
	TotalPicks    int            `json:"totalPicks"`
	OnClockTeamID string         `json:"onClockTeamId,omitempty"`
	OnClockAbbr   string         `json:"onClockAbbr,omitempty"`
	UserOnClock   bool           `json:"userOnClock"`
	Picks         []PickView     `json:"picks"`
	Pool          []ProspectView `json:"pool"`
}

// MakePickRequest selects a prospect with the user's pick.
type MakePickRequest struct {
	PlayerID string `json:"playerId"`
}

// SimulatePicksRequest advances AI picks. Zero picks means run until the
// user is on the clock or the draft completes.
type SimulatePicksRequest struct {
	Picks int `json:"picks"`
}

// PickMade is the per-pick broadcast during AI simulation and the reply to a
// user selection.
type PickMade struct {
	Pick PickView `json:"pick"`
}
