package domain

// Matchup is one scheduled game, referencing teams by id only. Full team
// objects are expanded strictly at the simulation boundary.
type Matchup struct {
	HomeID string `json:"homeId"`
	AwayID string `json:"awayId"`
}

// ScheduleWeek is one slim-schedule week.
type ScheduleWeek struct {
	Week     int       `json:"week"`
	Played   bool      `json:"played"`
	Matchups []Matchup `json:"matchups"`
}

// Settings are the per-league knobs stored on the meta record.
type Settings struct {
	Weeks          int     `json:"weeks"`
	FreeAgencyDays int     `json:"freeAgencyDays"`
	DraftRounds    int     `json:"draftRounds"`
	SalaryCap      float64 `json:"salaryCap"`
}

// PlayoffSeed is one seeded team within a conference.
type PlayoffSeed struct {
	Seed   int    `json:"seed"`
	TeamID string `json:"teamId"`
}

// PlayoffMatch is one bracket game. WinnerID fills in once the game is played.
type PlayoffMatch struct {
	Round      PlayoffRound `json:"round"`
	Conference string       `json:"conference,omitempty"`
	HomeID     string       `json:"homeId"`
	AwayID     string       `json:"awayId"`
	WinnerID   string       `json:"winnerId,omitempty"`
	GameID     string       `json:"gameId,omitempty"`
}

// PlayoffState holds the seeding and every bracket game generated so far.
type PlayoffState struct {
	Round   PlayoffRound             `json:"round"`
	Seeds   map[string][]PlayoffSeed `json:"seeds"`
	Matches []PlayoffMatch           `json:"matches"`
}

// RoundMatches returns the bracket games belonging to one round.
func (ps *PlayoffState) RoundMatches(round PlayoffRound) []PlayoffMatch {
	var out []PlayoffMatch
	for _, m := range ps.Matches {
		if m.Round == round {
			out = append(out, m)
		}
	}
	return out
}

// SeedOf returns the playoff seed a team earned, or 0 if it missed the cut.
func (ps *PlayoffState) SeedOf(teamID string) int {
	for _, seeds := range ps.Seeds {
		for _, s := range seeds {
			if s.TeamID == teamID {
				return s.Seed
			}
		}
	}
	return 0
}

// FreeAgencyState tracks the offseason free-agency window.
type FreeAgencyState struct {
	Day      int  `json:"day"`
	Complete bool `json:"complete"`
}

// DraftState tracks an in-progress or completed draft. The pick order is
// generated once at draft start; only selections fill in afterwards.
type DraftState struct {
	Year      int      `json:"year"`
	PickIDs   []string `json:"pickIds"`
	PickIndex int      `json:"pickIndex"`
	PoolIDs   []string `json:"poolIds"`
	Complete  bool     `json:"complete"`
}

// Meta is the singleton league record. Every phase transition writes it; it
// must never be flushed without a phase value.
type Meta struct {
	SaveID         string           `json:"saveId"`
	Name           string           `json:"name"`
	SeasonID       string           `json:"seasonId"`
	Year           int              `json:"year"`
	Week           int              `json:"week"`
	Phase          Phase            `json:"phase"`
	OffseasonStage OffseasonStage   `json:"offseasonStage,omitempty"`
	Schedule       []ScheduleWeek   `json:"schedule"`
	Draft          *DraftState      `json:"draft,omitempty"`
	FreeAgency     *FreeAgencyState `json:"freeAgency,omitempty"`
	Playoffs       *PlayoffState    `json:"playoffs,omitempty"`
	ChampionTeamID string           `json:"championTeamId,omitempty"`
	UserTeamID     string           `json:"userTeamId"`
	Settings       Settings         `json:"settings"`
}
