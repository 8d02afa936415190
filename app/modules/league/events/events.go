// Package leagueevents defines the league module's command types, payloads
// and the league view models shared with other modules' responses.
package leagueevents

import (
	"sort"

	"github.com/gridiron-gm/engine/app/cache"
	"github.com/gridiron-gm/engine/app/domain"
)

// Command types handled by the league module.
const (
	CmdInit           = "cmd.engine.init"
	CmdListSaves      = "cmd.save.list"
	CmdLoadSave       = "cmd.save.load"
	CmdDeleteSave     = "cmd.save.delete"
	CmdCreateLeague   = "cmd.league.create"
	CmdSaveNow        = "cmd.league.save"
	CmdResetLeague    = "cmd.league.reset"
	CmdSetUserTeam    = "cmd.league.setteam"
	CmdUpdateSettings = "cmd.league.settings"
)

// Event types the league module emits.
const (
	EventSaveList     = "save.list"
	EventLeagueState  = "league.state"
	EventLeagueUpdate = "league.update"
)

// SaveListPayload answers the init and save-list commands.
type SaveListPayload struct {
	Saves []domain.SaveSummary `json:"saves"`
}

// LoadSaveRequest selects a save to open.
type LoadSaveRequest struct {
	SaveID string `json:"saveId"`
}

// DeleteSaveRequest names a save to destroy.
type DeleteSaveRequest struct {
	SaveID string `json:"saveId"`
}

// CreateLeagueRequest starts a fresh league. Settings overrides are optional;
// zero values fall back to the configured defaults.
type CreateLeagueRequest struct {
	Name         string           `json:"name"`
	UserTeamAbbr string           `json:"userTeamAbbr"`
	Settings     *domain.Settings `json:"settings,omitempty"`
}

// SetUserTeamRequest switches which franchise the user controls.
type SetUserTeamRequest struct {
	TeamID string `json:"teamId"`
}

// UpdateSettingsRequest adjusts league knobs that are safe to change
// mid-save.
type UpdateSettingsRequest struct {
	Settings domain.Settings `json:"settings"`
}

// TeamView is the franchise row the presentation layer renders.
type TeamView struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Abbr          string  `json:"abbr"`
	Conference    string  `json:"conference"`
	Division      string  `json:"division"`
	CoachName     string  `json:"coachName"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	PointsFor     int     `json:"pointsFor"`
	PointsAgainst int     `json:"pointsAgainst"`
	CapTotal      float64 `json:"capTotal"`
	CapUsed       float64 `json:"capUsed"`
	CapRoom       float64 `json:"capRoom"`
}

// MetaView is the league header state.
type MetaView struct {
	SaveID         string                `json:"saveId"`
	Name           string                `json:"name"`
	SeasonID       string                `json:"seasonId"`
	Year           int                   `json:"year"`
	Week           int                   `json:"week"`
	Phase          domain.Phase          `json:"phase"`
	OffseasonStage domain.OffseasonStage `json:"offseasonStage,omitempty"`
	UserTeamID     string                `json:"userTeamId"`
	ChampionTeamID string                `json:"championTeamId,omitempty"`
	FreeAgencyDay  int                   `json:"freeAgencyDay,omitempty"`
	DraftActive    bool                  `json:"draftActive"`
	Settings       domain.Settings       `json:"settings"`
}

// LeagueState is the full snapshot sent after load, create and season
// rollover.
type LeagueState struct {
	Meta     MetaView              `json:"meta"`
	Teams    []TeamView            `json:"teams"`
	Schedule []domain.ScheduleWeek `json:"schedule"`
	Playoffs *domain.PlayoffState  `json:"playoffs,omitempty"`
}

// LeagueUpdate is the incremental refresh sent after smaller mutations.
type LeagueUpdate struct {
	Meta  MetaView   `json:"meta"`
	Teams []TeamView `json:"teams"`
}

// NewTeamView flattens a team for the wire.
func NewTeamView(t *domain.Team) TeamView {
	return TeamView{
		ID:            t.ID,
		Name:          t.Name,
		Abbr:          t.Abbr,
		Conference:    t.Conference,
		Division:      t.Division,
		CoachName:     t.Coach.Name,
		Wins:          t.Wins,
		Losses:        t.Losses,
		Ties:          t.Ties,
		PointsFor:     t.PointsFor,
		PointsAgainst: t.PointsAgainst,
		CapTotal:      t.CapTotal,
		CapUsed:       t.CapUsed,
		CapRoom:       t.CapRoom,
	}
}

// NewMetaView flattens the meta record for the wire.
func NewMetaView(m *domain.Meta) MetaView {
	mv := MetaView{
		SaveID:         m.SaveID,
		Name:           m.Name,
		SeasonID:       m.SeasonID,
		Year:           m.Year,
		Week:           m.Week,
		Phase:          m.Phase,
		OffseasonStage: m.OffseasonStage,
		UserTeamID:     m.UserTeamID,
		ChampionTeamID: m.ChampionTeamID,
		Settings:       m.Settings,
	}
	if m.FreeAgency != nil && !m.FreeAgency.Complete {
		mv.FreeAgencyDay = m.FreeAgency.Day
	}
	if m.Draft != nil && !m.Draft.Complete {
		mv.DraftActive = true
	}
	return mv
}

// BuildLeagueState assembles the full snapshot from the live cache. Teams are
// ordered by conference, division, then record for stable standings output.
func BuildLeagueState(c *cache.Cache) *LeagueState {
	m := c.Meta()
	if m == nil {
		return nil
	}
	state := &LeagueState{
		Meta:     NewMetaView(m),
		Teams:    teamViews(c),
		Schedule: m.Schedule,
		Playoffs: m.Playoffs,
	}
	return state
}

// BuildLeagueUpdate assembles the incremental refresh.
func BuildLeagueUpdate(c *cache.Cache) *LeagueUpdate {
	m := c.Meta()
	if m == nil {
		return nil
	}
	return &LeagueUpdate{Meta: NewMetaView(m), Teams: teamViews(c)}
}

func teamViews(c *cache.Cache) []TeamView {
	teams := c.Teams()
	sort.Slice(teams, func(i, j int) bool {
		a, b := teams[i], teams[j]
		if a.Conference != b.Conference {
			return a.Conference < b.Conference
		}
		if a.Division != b.Division {
			return a.Division < b.Division
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.PointDiff() != b.PointDiff() {
			return a.PointDiff() > b.PointDiff()
		}
		return a.ID < b.ID
	})
	out := make([]TeamView, 0, len(teams))
	for _, t := range teams {
		out = append(out, NewTeamView(t))
	}
	return out
}
