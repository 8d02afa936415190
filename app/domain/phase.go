package domain

// Phase is the current season-lifecycle stage.
type Phase string

const (
	PhaseRegular   Phase = "regular"
	PhasePlayoffs  Phase = "playoffs"
	PhaseOffseason Phase = "offseason"
)

// IsValid reports whether the phase is one of the known stages.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseRegular, PhasePlayoffs, PhaseOffseason:
		return true
	}
	return false
}

// PlayoffRound identifies the active round within the playoffs phase.
type PlayoffRound string

const (
	RoundWildcard   PlayoffRound = "wildcard"
	RoundDivisional PlayoffRound = "divisional"
	RoundConference PlayoffRound = "conference"
	RoundSuperBowl  PlayoffRound = "superbowl"
)

// Next returns the round following r, and false once the Super Bowl is reached.
func (r PlayoffRound) Next() (PlayoffRound, bool) {
	switch r {
	case RoundWildcard:
		return RoundDivisional, true
	case RoundDivisional:
		return RoundConference, true
	case RoundConference:
		return RoundSuperBowl, true
	}
	return "", false
}

// OffseasonStage identifies the sub-phase within the offseason.
type OffseasonStage string

const (
	StageProgressionPending OffseasonStage = "progression-pending"
	StageProgressionDone    OffseasonStage = "progression-done"
	StageFreeAgency         OffseasonStage = "free-agency"
	StageDraftPending       OffseasonStage = "draft-pending"
	StageDraftInProgress    OffseasonStage = "draft-in-progress"
	StageDraftComplete      OffseasonStage = "draft-complete"
	StageReadyForNewSeason  OffseasonStage = "ready-for-new-season"
)
