// Package enginetest provides the in-memory store fake and league fixtures
// the module tests share.
package enginetest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/gridiron-gm/engine/app/cache"
	"github.com/gridiron-gm/engine/app/domain"
	"github.com/gridiron-gm/engine/app/schedule"
	"github.com/gridiron-gm/engine/app/shared"
	"github.com/gridiron-gm/engine/db/bundb"
)

// ErrWriteFailed is what the fake store returns when failure injection is on.
var ErrWriteFailed = errors.New("injected write failure")

// FakeStore is an in-memory bundb.Store. It records every flushed batch and
// can inject write failures.
type FakeStore struct {
	mu sync.Mutex

	FailWrites bool

	Batches      []*domain.Pending
	Saves        map[string]domain.SaveSummary
	Games        map[string]*domain.Game
	Stats        map[string]*domain.SeasonStat
	Archives     []*domain.SeasonArchive
	Transactions []*domain.Transaction
	Snapshots    map[string]*domain.Snapshot
}

var _ bundb.Store = (*FakeStore)(nil)

// NewFakeStore builds an empty fake store.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		Saves:     map[string]domain.SaveSummary{},
		Games:     map[string]*domain.Game{},
		Stats:     map[string]*domain.SeasonStat{},
		Snapshots: map[string]*domain.Snapshot{},
	}
}

func (f *FakeStore) BulkWrite(ctx context.Context, saveID string, p *domain.Pending) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWrites {
		return ErrWriteFailed
	}
	f.Batches = append(f.Batches, p)
	for _, g := range p.Games {
		f.Games[g.ID] = g
	}
	for _, st := range p.Stats {
		f.Stats[st.ID] = st
	}
	f.Archives = append(f.Archives, p.Archives...)
	f.Transactions = append(f.Transactions, p.Transactions...)
	return nil
}

func (f *FakeStore) TouchSave(ctx context.Context, s domain.SaveSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Saves[s.SaveID] = s
	return nil
}

func (f *FakeStore) LoadLeague(ctx context.Context, saveID string) (*domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap, ok := f.Snapshots[saveID]
	if !ok {
		return nil, bundb.ErrSaveNotFound
	}
	return snap, nil
}

func (f *FakeStore) SaveSummaries(ctx context.Context) ([]domain.SaveSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.SaveSummary, 0, len(f.Saves))
	for _, s := range f.Saves {
		out = append(out, s)
	}
	return out, nil
}

func (f *FakeStore) DeleteSave(ctx context.Context, saveID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Saves, saveID)
	delete(f.Snapshots, saveID)
	return nil
}

func (f *FakeStore) SeasonArchives(ctx context.Context, saveID string) ([]*domain.SeasonArchive, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.SeasonArchive{}, f.Archives...), nil
}

func (f *FakeStore) SeasonGames(ctx context.Context, saveID, seasonID string) ([]*domain.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Game
	for _, g := range f.Games {
		if g.SeasonID == seasonID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *FakeStore) SeasonStatsBySeason(ctx context.Context, saveID, seasonID string) ([]*domain.SeasonStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.SeasonStat
	for _, st := range f.Stats {
		if st.SeasonID == seasonID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (f *FakeStore) PlayerCareer(ctx context.Context, saveID, playerID string) ([]*domain.SeasonStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.SeasonStat
	for _, st := range f.Stats {
		if st.PlayerID == playerID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (f *FakeStore) BoxScore(ctx context.Context, saveID, gameID string) (*domain.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.Games[gameID]
	if !ok {
		return nil, bundb.ErrGameNotFound
	}
	return g, nil
}

func (f *FakeStore) RecentTransactions(ctx context.Context, saveID string, n int) ([]*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txs := append([]*domain.Transaction{}, f.Transactions...)
	// newest first
	for i, j := 0, len(txs)-1; i < j; i, j = i+1, j-1 {
		txs[i], txs[j] = txs[j], txs[i]
	}
	if len(txs) > n {
		txs = txs[:n]
	}
	return txs, nil
}

func (f *FakeStore) Close() error { return nil }

// NewState builds an engine state around the given store with a discarding
// logger.
func NewState(store bundb.Store) *shared.State {
	return &shared.State{
		Cache:  cache.New(),
		Store:  store,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SeedSmallLeague loads a deterministic four-team league into the state:
// two conferences of two teams, so the season ends without a playoff
// bracket. Each team carries a QB, an RB and a WR under contract. The state
// comes up clean, as if freshly hydrated.
func SeedSmallLeague(state *shared.State, weeks int) *domain.Meta {
	snap := &domain.Snapshot{
		Meta: &domain.Meta{
			SaveID:     "save-test",
			Name:       "Test League",
			SeasonID:   domain.SeasonIDFor(2026),
			Year:       2026,
			Week:       1,
			Phase:      domain.PhaseRegular,
			UserTeamID: "team-a",
			Settings: domain.Settings{
				Weeks:          weeks,
				FreeAgencyDays: 2,
				DraftRounds:    2,
				SalaryCap:      255,
			},
		},
	}

	confs := map[string]string{"team-a": "East", "team-b": "East", "team-c": "West", "team-d": "West"}
	overalls := map[string]int{"team-a": 85, "team-b": 75, "team-c": 65, "team-d": 55}
	var ids []string
	for _, id := range []string{"team-a", "team-b", "team-c", "team-d"} {
		ids = append(ids, id)
		team := &domain.Team{
			ID:         id,
			Name:       "Team " + id[len(id)-1:],
			Abbr:       "T" + id[len(id)-1:],
			Conference: confs[id],
			Division:   "Central",
			CapTotal:   255,
		}
		var roster []*domain.Player
		for i, pos := range []domain.Position{domain.PosQB, domain.PosRB, domain.PosWR} {
			p := &domain.Player{
				ID:        fmt.Sprintf("%s-p%d", id, i),
				Name:      fmt.Sprintf("Player %s %d", id, i),
				Pos:       pos,
				Age:       27,
				Overall:   overalls[id],
				Potential: overalls[id] + 5,
				Status:    domain.StatusActive,
				TeamID:    id,
				Contract:  domain.Contract{Years: 3, BaseAnnual: 5, SigningBonus: 3},
			}
			roster = append(roster, p)
			snap.Players = append(snap.Players, p)
		}
		domain.RecalcCap(team, roster)
		snap.Teams = append(snap.Teams, team)
	}
	snap.Meta.Schedule = schedule.Build(ids, weeks, rand.New(rand.NewSource(1)))

	state.Cache.Hydrate(snap)
	return state.Cache.Meta()
}
