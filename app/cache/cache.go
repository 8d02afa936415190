// Package cache holds the in-memory source of truth for one open league and
// tracks which entities have unflushed mutations. It is not safe for
// concurrent mutation; the command router's single-flight gate is the guard.
package cache

import (
	"sort"

	"github.com/gridiron-gm/engine/app/domain"
)

// Cache is the entity cache for the currently open league.
type Cache struct {
	meta    *domain.Meta
	teams   map[string]*domain.Team
	players map[string]*domain.Player
	games   map[string]*domain.Game
	picks   map[string]*domain.DraftPick
	stats   map[string]*domain.SeasonStat

	dirtyMeta    bool
	dirtyTeams   map[string]bool
	dirtyPlayers map[string]bool
	dirtyGames   map[string]bool
	dirtyPicks   map[string]bool
	dirtyStats   map[string]bool

	deletedPlayers map[string]bool

	pendingTx       []*domain.Transaction
	pendingArchives []*domain.SeasonArchive
}

// New returns an empty cache with no league loaded.
func New() *Cache {
	c := &Cache{}
	c.Reset()
	return c
}

// Reset wipes all state, including dirty sets, for a new or closed league.
func (c *Cache) Reset() {
	c.meta = nil
	c.teams = make(map[string]*domain.Team)
	c.players = make(map[string]*domain.Player)
	c.games = make(map[string]*domain.Game)
	c.picks = make(map[string]*domain.DraftPick)
	c.stats = make(map[string]*domain.SeasonStat)
	c.clearDirty()
}

func (c *Cache) clearDirty() {
	c.dirtyMeta = false
	c.dirtyTeams = make(map[string]bool)
	c.dirtyPlayers = make(map[string]bool)
	c.dirtyGames = make(map[string]bool)
	c.dirtyPicks = make(map[string]bool)
	c.dirtyStats = make(map[string]bool)
	c.deletedPlayers = make(map[string]bool)
	c.pendingTx = nil
	c.pendingArchives = nil
}

// Loaded reports whether a league is currently open.
func (c *Cache) Loaded() bool { return c.meta != nil }

// Hydrate bulk-loads a persisted snapshot. The cache comes up clean: nothing
// is dirty until a command mutates it.
func (c *Cache) Hydrate(snap *domain.Snapshot) {
	c.Reset()
	c.meta = snap.Meta
	for _, t := range snap.Teams {
		c.teams[t.ID] = t
	}
	for _, p := range snap.Players {
		c.players[p.ID] = p
	}
	for _, g := range snap.Games {
		c.games[g.ID] = g
	}
	for _, pk := range snap.Picks {
		c.picks[pk.ID] = pk
	}
	for _, s := range snap.Stats {
		c.stats[s.ID] = s
	}
}

// Meta returns the singleton meta record, or nil when no league is open.
func (c *Cache) Meta() *domain.Meta { return c.meta }

// SetMeta replaces the meta record and marks it dirty.
func (c *Cache) SetMeta(m *domain.Meta) {
	c.meta = m
	c.dirtyMeta = true
}

// MarkMetaDirty flags the meta record for the next flush after an in-place
// mutation.
func (c *Cache) MarkMetaDirty() {
	if c.meta != nil {
		c.dirtyMeta = true
	}
}

// Team returns one team by id.
func (c *Cache) Team(id string) (*domain.Team, bool) {
	t, ok := c.teams[id]
	return t, ok
}

// Teams returns all teams sorted by id for deterministic iteration.
func (c *Cache) Teams() []*domain.Team {
	out := make([]*domain.Team, 0, len(c.teams))
	for _, t := range c.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetTeam inserts or replaces a team and marks it dirty.
func (c *Cache) SetTeam(t *domain.Team) {
	c.teams[t.ID] = t
	c.dirtyTeams[t.ID] = true
}

// UpdateTeam applies a mutation to an existing team and marks it dirty.
// Updating a missing id is a no-op, never a ghost-entity create.
func (c *Cache) UpdateTeam(id string, fn func(*domain.Team)) bool {
	t, ok := c.teams[id]
	if !ok {
		return false
	}
	fn(t)
	c.dirtyTeams[id] = true
	return true
}

// Player returns one player by id.
func (c *Cache) Player(id string) (*domain.Player, bool) {
	p, ok := c.players[id]
	return p, ok
}

// Players returns all players sorted by id.
func (c *Cache) Players() []*domain.Player {
	out := make([]*domain.Player, 0, len(c.players))
	for _, p := range c.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TeamPlayers returns the active roster of one team, sorted by id.
func (c *Cache) TeamPlayers(teamID string) []*domain.Player {
	var out []*domain.Player
	for _, p := range c.players {
		if p.Status == domain.StatusActive && p.TeamID == teamID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PlayersByStatus returns all players with the given status, sorted by id.
func (c *Cache) PlayersByStatus(status domain.PlayerStatus) []*domain.Player {
	var out []*domain.Player
	for _, p := range c.players {
		if p.Status == status {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetPlayer inserts or replaces a player and marks it dirty.
func (c *Cache) SetPlayer(p *domain.Player) {
	c.players[p.ID] = p
	c.dirtyPlayers[p.ID] = true
	delete(c.deletedPlayers, p.ID)
}

// UpdatePlayer applies a mutation to an existing player and marks it dirty.
func (c *Cache) UpdatePlayer(id string, fn func(*domain.Player)) bool {
	p, ok := c.players[id]
	if !ok {
		return false
	}
	fn(p)
	c.dirtyPlayers[id] = true
	return true
}

// RemovePlayer deletes a player from the live map. The delete surfaces in the
// next flush rather than silently vanishing.
func (c *Cache) RemovePlayer(id string) bool {
	if _, ok := c.players[id]; !ok {
		return false
	}
	delete(c.players, id)
	delete(c.dirtyPlayers, id)
	c.deletedPlayers[id] = true
	return true
}

// Game returns one game by id.
func (c *Cache) Game(id string) (*domain.Game, bool) {
	g, ok := c.games[id]
	return g, ok
}

// SetGame records a game result. Games are write-once.
func (c *Cache) SetGame(g *domain.Game) {
	c.games[g.ID] = g
	c.dirtyGames[g.ID] = true
}

// SeasonGames returns all cached games of one season, ordered by week then id.
func (c *Cache) SeasonGames(seasonID string) []*domain.Game {
	var out []*domain.Game
	for _, g := range c.games {
		if g.SeasonID == seasonID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Pick returns one draft pick by id.
func (c *Cache) Pick(id string) (*domain.DraftPick, bool) {
	p, ok := c.picks[id]
	return p, ok
}

// SetPick inserts or replaces a draft pick and marks it dirty.
func (c *Cache) SetPick(p *domain.DraftPick) {
	c.picks[p.ID] = p
	c.dirtyPicks[p.ID] = true
}

// UpdatePick applies a mutation to an existing pick and marks it dirty.
func (c *Cache) UpdatePick(id string, fn func(*domain.DraftPick)) bool {
	p, ok := c.picks[id]
	if !ok {
		return false
	}
	fn(p)
	c.dirtyPicks[id] = true
	return true
}

// Stat returns one season-stat aggregate.
func (c *Cache) Stat(playerID, seasonID string) (*domain.SeasonStat, bool) {
	s, ok := c.stats[domain.SeasonStatID(playerID, seasonID)]
	return s, ok
}

// Stats returns all cached season stats sorted by id.
func (c *Cache) Stats() []*domain.SeasonStat {
	out := make([]*domain.SeasonStat, 0, len(c.stats))
	for _, s := range c.stats {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetStat inserts or replaces a season-stat aggregate and marks it dirty.
func (c *Cache) SetStat(s *domain.SeasonStat) {
	c.stats[s.ID] = s
	c.dirtyStats[s.ID] = true
}

// UpdateStat applies a mutation to an existing aggregate and marks it dirty.
func (c *Cache) UpdateStat(playerID, seasonID string, fn func(*domain.SeasonStat)) bool {
	s, ok := c.stats[domain.SeasonStatID(playerID, seasonID)]
	if !ok {
		return false
	}
	fn(s)
	c.dirtyStats[s.ID] = true
	return true
}

// EvictSeasonStats drops one season's aggregates from the hot cache to bound
// memory. The rows stay in durable storage; no deletes are surfaced.
func (c *Cache) EvictSeasonStats(seasonID string) int {
	n := 0
	for id, s := range c.stats {
		if s.SeasonID == seasonID {
			delete(c.stats, id)
			delete(c.dirtyStats, id)
			n++
		}
	}
	return n
}

// AppendTransaction queues an append-only transaction-log record for the next
// flush.
func (c *Cache) AppendTransaction(tx *domain.Transaction) {
	c.pendingTx = append(c.pendingTx, tx)
}

// AppendArchive queues a season archive row for the next flush.
func (c *Cache) AppendArchive(a *domain.SeasonArchive) {
	c.pendingArchives = append(c.pendingArchives, a)
}

// IsDirty reports whether any entity has unflushed mutations.
func (c *Cache) IsDirty() bool {
	return c.dirtyMeta ||
		len(c.dirtyTeams) > 0 ||
		len(c.dirtyPlayers) > 0 ||
		len(c.dirtyGames) > 0 ||
		len(c.dirtyPicks) > 0 ||
		len(c.dirtyStats) > 0 ||
		len(c.deletedPlayers) > 0 ||
		len(c.pendingTx) > 0 ||
		len(c.pendingArchives) > 0
}

// DrainDirty returns everything pending and clears the dirty sets. The drain
// is atomic with respect to the flush: after a successful flush the sets are
// empty and durable storage exactly reflects the drained snapshot.
func (c *Cache) DrainDirty() *domain.Pending {
	p := &domain.Pending{
		Transactions: c.pendingTx,
		Archives:     c.pendingArchives,
	}
	if c.dirtyMeta {
		p.Meta = c.meta
	}
	for id := range c.dirtyTeams {
		if t, ok := c.teams[id]; ok {
			p.Teams = append(p.Teams, t)
		}
	}
	for id := range c.dirtyPlayers {
		if pl, ok := c.players[id]; ok {
			p.Players = append(p.Players, pl)
		}
	}
	for id := range c.dirtyGames {
		if g, ok := c.games[id]; ok {
			p.Games = append(p.Games, g)
		}
	}
	for id := range c.dirtyPicks {
		if pk, ok := c.picks[id]; ok {
			p.Picks = append(p.Picks, pk)
		}
	}
	for id := range c.dirtyStats {
		if s, ok := c.stats[id]; ok {
			p.Stats = append(p.Stats, s)
		}
	}
	for id := range c.deletedPlayers {
		p.DeletedPlayers = append(p.DeletedPlayers, id)
	}
	sortPending(p)
	c.clearDirty()
	return p
}

// RestoreDirty re-marks a drained batch after a failed flush so the affected
// entities are retried on the next one.
func (c *Cache) RestoreDirty(p *domain.Pending) {
	if p == nil {
		return
	}
	if p.Meta != nil {
		c.dirtyMeta = true
	}
	for _, t := range p.Teams {
		c.dirtyTeams[t.ID] = true
	}
	for _, pl := range p.Players {
		c.dirtyPlayers[pl.ID] = true
	}
	for _, g := range p.Games {
		c.dirtyGames[g.ID] = true
	}
	for _, pk := range p.Picks {
		c.dirtyPicks[pk.ID] = true
	}
	for _, s := range p.Stats {
		c.dirtyStats[s.ID] = true
	}
	for _, id := range p.DeletedPlayers {
		c.deletedPlayers[id] = true
	}
	c.pendingTx = append(p.Transactions, c.pendingTx...)
	c.pendingArchives = append(p.Archives, c.pendingArchives...)
}

func sortPending(p *domain.Pending) {
	sort.Slice(p.Teams, func(i, j int) bool { return p.Teams[i].ID < p.Teams[j].ID })
	sort.Slice(p.Players, func(i, j int) bool { return p.Players[i].ID < p.Players[j].ID })
	sort.Slice(p.Games, func(i, j int) bool { return p.Games[i].ID < p.Games[j].ID })
	sort.Slice(p.Picks, func(i, j int) bool { return p.Picks[i].ID < p.Picks[j].ID })
	sort.Slice(p.Stats, func(i, j int) bool { return p.Stats[i].ID < p.Stats[j].ID })
	sort.Strings(p.DeletedPlayers)
}
