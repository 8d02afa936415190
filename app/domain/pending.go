package domain

// Snapshot is the full persisted state of one league, used to hydrate the
// entity cache at league open and to seed a brand-new league.
type Snapshot struct {
	Meta    *Meta
	Teams   []*Team
	Players []*Player
	Games   []*Game
	Picks   []*DraftPick
	Stats   []*SeasonStat
}

// Pending is one flush worth of work: everything mutated since the last
// successful flush, drained atomically from the cache.
type Pending struct {
	Meta           *Meta
	Teams          []*Team
	Players        []*Player
	Games          []*Game
	Picks          []*DraftPick
	Stats          []*SeasonStat
	Transactions   []*Transaction
	Archives       []*SeasonArchive
	DeletedPlayers []string
}

// Empty reports whether a flush would perform zero writes.
func (p *Pending) Empty() bool {
	if p == nil {
		return true
	}
	return p.Meta == nil &&
		len(p.Teams) == 0 &&
		len(p.Players) == 0 &&
		len(p.Games) == 0 &&
		len(p.Picks) == 0 &&
		len(p.Stats) == 0 &&
		len(p.Transactions) == 0 &&
		len(p.Archives) == 0 &&
		len(p.DeletedPlayers) == 0
}
