// Package draftapplication implements the rookie draft: order generation,
// user picks, and AI pick simulation.
package draftapplication

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/gridiron-gm/engine/app/ai"
	"github.com/gridiron-gm/engine/app/domain"
	"github.com/gridiron-gm/engine/app/eventbus"
	"github.com/gridiron-gm/engine/app/events"
	draftevents "github.com/gridiron-gm/engine/app/modules/draft/events"
	"github.com/gridiron-gm/engine/app/gen"
	"github.com/gridiron-gm/engine/app/shared"
	"github.com/gridiron-gm/engine/internal/eventutil"
)

// extraProspects pads the class beyond the pick count so the late pool still
// offers choices.
const extraProspects = 16

// Service owns the draft.
type Service struct {
	state  *shared.State
	bus    eventbus.EventBus
	gen    *gen.Generator
	logger *slog.Logger
}

// NewService wires the draft service.
func NewService(state *shared.State, bus eventbus.EventBus, g *gen.Generator, logger *slog.Logger) *Service {
	return &Service{state: state, bus: bus, gen: g, logger: logger}
}

// State returns the current draft board.
func (s *Service) State(ctx context.Context) (*draftevents.DraftStateView, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	return s.buildView(meta), nil
}

// StartDraft generates the draft class and the pick order: worst record
// first, reigning champion last, the same order every round. Legal exactly
// once per offseason, after free agency closes.
func (s *Service) StartDraft(ctx context.Context) (*draftevents.DraftStateView, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	if meta.Phase != domain.PhaseOffseason || meta.OffseasonStage != domain.StageDraftPending {
		return nil, shared.Validationf(shared.CodeInvalidPhase,
			"the draft cannot start now (stage %s)", meta.OffseasonStage)
	}
	if meta.Draft != nil {
		return nil, shared.Validationf(shared.CodeInvalidPhase, "the draft already ran this offseason")
	}

	order := s.draftOrder(meta.ChampionTeamID)
	rounds := meta.Settings.DraftRounds
	year := meta.Year + 1

	var pickIDs []string
	overall := 0
	for round := 1; round <= rounds; round++ {
		for slot, teamID := range order {
			overall++
			pick := &domain.DraftPick{
				ID:          domain.DraftPickID(year, overall),
				Year:        year,
				Overall:     overall,
				Round:       round,
				PickInRound: slot + 1,
				TeamID:      teamID,
			}
			s.state.Cache.SetPick(pick)
			pickIDs = append(pickIDs, pick.ID)
		}
	}

	var poolIDs []string
	for _, p := range s.gen.DraftClass(year, len(pickIDs)+extraProspects) {
		s.state.Cache.SetPlayer(p)
		poolIDs = append(poolIDs, p.ID)
	}

	meta.Draft = &domain.DraftState{Year: year, PickIDs: pickIDs, PoolIDs: poolIDs}
	meta.OffseasonStage = domain.StageDraftInProgress
	s.state.Cache.MarkMetaDirty()
	if err := s.state.Flush(ctx); err != nil {
		return nil, err
	}
	s.logger.Info("draft started",
		slog.Int("year", year),
		slog.Int("picks", len(pickIDs)),
		slog.Int("prospects", len(poolIDs)))
	return s.buildView(meta), nil
}

// MakePick executes the user's selection. The user must be on the clock and
// the prospect must still be on the board.
func (s *Service) MakePick(ctx context.Context, playerID string) (*draftevents.PickMade, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	pick, err := s.currentPick(meta)
	if err != nil {
		return nil, err
	}
	if pick.TeamID != meta.UserTeamID {
		return nil, shared.Validationf(shared.CodeNotYourPick,
			"pick %d belongs to %s", pick.Overall, s.teamAbbr(pick.TeamID))
	}
	if !s.inPool(meta.Draft, playerID) {
		return nil, shared.Validationf(shared.CodeInvalidID, "player %s is not on the draft board", playerID)
	}
	made, err := s.executePick(meta, pick, playerID)
	if err != nil {
		return nil, err
	}
	if err := s.state.Flush(ctx); err != nil {
		return nil, err
	}
	return made, nil
}

// SimulatePicks runs up to n AI selections, broadcasting each one; n == 0
// means no limit. Simulation always stops at the user's slot, so the user's
// picks are never simulated and every executed pick reaches storage before
// the call returns.
func (s *Service) SimulatePicks(ctx context.Context, n int) (*draftevents.DraftStateView, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	if meta.Draft == nil || meta.Draft.Complete {
		return nil, shared.Validationf(shared.CodeInvalidPhase, "no draft is in progress")
	}

	made := 0
	for meta.Draft != nil && !meta.Draft.Complete {
		if n > 0 && made >= n {
			break
		}
		pick, err := s.currentPick(meta)
		if err != nil {
			return nil, err
		}
		if pick.TeamID == meta.UserTeamID {
			break
		}
		prospect := ai.SelectPick(s.state.Cache.TeamPlayers(pick.TeamID), s.poolPlayers(meta.Draft))
		if prospect == nil {
			// Board is empty; void the remaining picks.
			meta.Draft.PickIndex = len(meta.Draft.PickIDs)
			s.completeDraft(meta)
			s.state.Cache.MarkMetaDirty()
			break
		}
		result, err := s.executePick(meta, pick, prospect.ID)
		if err != nil {
			return nil, err
		}
		made++
		s.broadcast(draftevents.EventDraftPick, result)
	}

	if err := s.state.Flush(ctx); err != nil {
		return nil, err
	}
	return s.buildView(meta), nil
}

// executePick assigns the prospect to the picking team on a rookie contract,
// snapshots him onto the pick, and advances the clock.
func (s *Service) executePick(meta *domain.Meta, pick *domain.DraftPick, playerID string) (*draftevents.PickMade, error) {
	player, ok := s.state.Cache.Player(playerID)
	if !ok {
		return nil, shared.Validationf(shared.CodeInvalidID, "unknown player %s", playerID)
	}
	contract := rookieContract(pick.Round)
	// Rookie deals are cap-exempt at signing time; the cap recalc below keeps
	// the team's figures consistent regardless.
	s.state.Cache.UpdatePlayer(playerID, func(p *domain.Player) {
		p.Status = domain.StatusActive
		p.TeamID = pick.TeamID
		p.Contract = contract
		p.Offers = nil
	})
	s.state.RecalcTeamCap(pick.TeamID)

	snapshot := &domain.PickPlayer{
		PlayerID: player.ID,
		Name:     player.Name,
		Pos:      player.Pos,
		Overall:  player.Overall,
	}
	s.state.Cache.UpdatePick(pick.ID, func(p *domain.DraftPick) {
		p.Player = snapshot
	})
	s.state.Cache.AppendTransaction(&domain.Transaction{
		ID:       uuid.NewString(),
		SeasonID: meta.SeasonID,
		Week:     meta.Week,
		Type:     domain.TxDraft,
		TeamID:   pick.TeamID,
		PlayerID: player.ID,
		Detail:   player.Name + " drafted " + ordinalPick(pick),
	})

	removeFromPool(meta.Draft, playerID)
	meta.Draft.PickIndex++
	if meta.Draft.PickIndex >= len(meta.Draft.PickIDs) {
		s.completeDraft(meta)
	}
	s.state.Cache.MarkMetaDirty()

	view, _ := s.pickView(pick.ID)
	return &draftevents.PickMade{Pick: view}, nil
}

func (s *Service) completeDraft(meta *domain.Meta) {
	meta.Draft.Complete = true
	meta.OffseasonStage = domain.StageDraftComplete
	// Undrafted prospects hit free agency immediately.
	for _, id := range meta.Draft.PoolIDs {
		s.state.Cache.UpdatePlayer(id, func(p *domain.Player) {
			if p.Status == domain.StatusDraftEligible {
				p.Status = domain.StatusFreeAgent
			}
		})
	}
	meta.Draft.PoolIDs = nil
	s.logger.Info("draft complete", slog.Int("year", meta.Draft.Year))
}

func (s *Service) currentPick(meta *domain.Meta) (*domain.DraftPick, error) {
	d := meta.Draft
	if d == nil || d.Complete || meta.OffseasonStage != domain.StageDraftInProgress {
		return nil, shared.Validationf(shared.CodeInvalidPhase, "no draft is in progress")
	}
	if d.PickIndex >= len(d.PickIDs) {
		return nil, shared.Validationf(shared.CodeInvalidPhase, "every pick has been made")
	}
	pick, ok := s.state.Cache.Pick(d.PickIDs[d.PickIndex])
	if !ok {
		return nil, shared.Validationf(shared.CodeInternal, "pick %s missing from cache", d.PickIDs[d.PickIndex])
	}
	return pick, nil
}

// draftOrder sorts teams worst record first with the reigning champion
// forced to the end.
func (s *Service) draftOrder(championID string) []string {
	teams := s.state.Cache.Teams()
	sort.Slice(teams, func(i, j int) bool {
		a, b := teams[i], teams[j]
		if a.Wins != b.Wins {
			return a.Wins < b.Wins
		}
		if a.PointDiff() != b.PointDiff() {
			return a.PointDiff() < b.PointDiff()
		}
		return a.ID < b.ID
	})
	order := make([]string, 0, len(teams))
	for _, t := range teams {
		if t.ID == championID {
			continue
		}
		order = append(order, t.ID)
	}
	if championID != "" {
		if _, ok := s.state.Cache.Team(championID); ok {
			order = append(order, championID)
		}
	}
	return order
}

func (s *Service) buildView(meta *domain.Meta) *draftevents.DraftStateView {
	view := &draftevents.DraftStateView{}
	d := meta.Draft
	if d == nil {
		return view
	}
	view.Year = d.Year
	view.Complete = d.Complete
	view.Active = !d.Complete
	view.PickIndex = d.PickIndex
	view.TotalPicks = len(d.PickIDs)
	for _, id := range d.PickIDs {
		if pv, ok := s.pickView(id); ok {
			view.Picks = append(view.Picks, pv)
		}
	}
	for _, p := range s.poolPlayers(d) {
		view.Pool = append(view.Pool, draftevents.ProspectView{
			ID:        p.ID,
			Name:      p.Name,
			Pos:       p.Pos,
			Age:       p.Age,
			Overall:   p.Overall,
			Potential: p.Potential,
		})
	}
	if !d.Complete && d.PickIndex < len(d.PickIDs) {
		if pick, ok := s.state.Cache.Pick(d.PickIDs[d.PickIndex]); ok {
			view.OnClockTeamID = pick.TeamID
			view.OnClockAbbr = s.teamAbbr(pick.TeamID)
			view.UserOnClock = pick.TeamID == meta.UserTeamID
		}
	}
	return view
}

func (s *Service) pickView(id string) (draftevents.PickView, bool) {
	pick, ok := s.state.Cache.Pick(id)
	if !ok {
		return draftevents.PickView{}, false
	}
	return draftevents.PickView{
		ID:          pick.ID,
		Overall:     pick.Overall,
		Round:       pick.Round,
		PickInRound: pick.PickInRound,
		TeamID:      pick.TeamID,
		TeamAbbr:    s.teamAbbr(pick.TeamID),
		Player:      pick.Player,
	}, true
}

func (s *Service) poolPlayers(d *domain.DraftState) []*domain.Player {
	out := make([]*domain.Player, 0, len(d.PoolIDs))
	for _, id := range d.PoolIDs {
		if p, ok := s.state.Cache.Player(id); ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *Service) inPool(d *domain.DraftState, playerID string) bool {
	for _, id := range d.PoolIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

func (s *Service) teamAbbr(id string) string {
	if t, ok := s.state.Cache.Team(id); ok {
		return t.Abbr
	}
	return ""
}

func (s *Service) broadcast(eventType string, payload any) {
	msg, err := eventutil.Event(eventType, payload)
	if err != nil {
		s.logger.Error("failed to build broadcast", slog.String("event", eventType), slog.Any("error", err))
		return
	}
	if err := s.bus.Publish(events.EventOutbox, msg); err != nil {
		s.logger.Error("failed to publish broadcast", slog.String("event", eventType), slog.Any("error", err))
	}
}

func removeFromPool(d *domain.DraftState, playerID string) {
	for i, id := range d.PoolIDs {
		if id == playerID {
			d.PoolIDs = append(d.PoolIDs[:i], d.PoolIDs[i+1:]...)
			return
		}
	}
}

func ordinalPick(p *domain.DraftPick) string {
	return fmt.Sprintf("round %d pick %d", p.Round, p.PickInRound)
}

// rookieContract scales with draft round: early picks cost more but every
// rookie deal is four years.
func rookieContract(round int) domain.Contract {
	base := 0.8
	if round < 6 {
		base += float64(6-round) * 0.7
	}
	return domain.Contract{
		Years:         4,
		BaseAnnual:    base,
		SigningBonus:  base * 0.5,
		GuaranteedPct: 100,
	}
}
