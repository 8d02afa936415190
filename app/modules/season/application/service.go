// Package seasonapplication implements the season lifecycle: week advancement
// through the regular season and playoffs, the offseason stages, and the
// rollover into a new season.
package seasonapplication

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/gridiron-gm/engine/app/ai"
	"github.com/gridiron-gm/engine/app/domain"
	"github.com/gridiron-gm/engine/app/eventbus"
	"github.com/gridiron-gm/engine/app/events"
	"github.com/gridiron-gm/engine/app/gen"
	leagueevents "github.com/gridiron-gm/engine/app/modules/league/events"
	seasonevents "github.com/gridiron-gm/engine/app/modules/season/events"
	"github.com/gridiron-gm/engine/app/schedule"
	"github.com/gridiron-gm/engine/app/shared"
	"github.com/gridiron-gm/engine/app/sim"
	"github.com/gridiron-gm/engine/internal/eventutil"
)

// Service owns the season state machine.
type Service struct {
	state  *shared.State
	bus    eventbus.EventBus
	sim    sim.GameSimulator
	gen    *gen.Generator
	rng    *rand.Rand
	logger *slog.Logger
}

// NewService wires the season service.
func NewService(state *shared.State, bus eventbus.EventBus, simulator sim.GameSimulator, g *gen.Generator, rng *rand.Rand, logger *slog.Logger) *Service {
	return &Service{state: state, bus: bus, sim: simulator, gen: g, rng: rng, logger: logger}
}

// LeagueUpdate snapshots the refreshed standings and cap figures. Lifecycle
// replies trail it so the presentation layer never has to follow up with a
// query of its own.
func (s *Service) LeagueUpdate() *leagueevents.LeagueUpdate {
	return leagueevents.BuildLeagueUpdate(s.state.Cache)
}

// AdvanceWeek plays the current week and moves the league one step through
// the lifecycle. In the regular season that is one schedule week; in the
// playoffs it is one bracket round.
func (s *Service) AdvanceWeek(ctx context.Context) (*seasonevents.WeekComplete, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	switch meta.Phase {
	case domain.PhaseRegular:
		return s.advanceRegularWeek(ctx, meta)
	case domain.PhasePlayoffs:
		return s.advancePlayoffRound(ctx, meta)
	default:
		return nil, shared.Validationf(shared.CodeInvalidPhase,
			"the season is over; advance the offseason instead")
	}
}

// SimulateToWeek fast-forwards the regular season to (but not past) the
// target week, broadcasting week results and progress as it goes. The state
// is flushed after every simulated week, so an interruption loses at most
// the week in flight.
func (s *Service) SimulateToWeek(ctx context.Context, target int) (*seasonevents.WeekComplete, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	if meta.Phase != domain.PhaseRegular {
		return nil, shared.Validationf(shared.CodeInvalidPhase, "fast-forward only runs during the regular season")
	}
	if target <= meta.Week {
		return nil, shared.Validationf(shared.CodeBadPayload,
			"target week %d is not ahead of week %d", target, meta.Week)
	}
	if target > meta.Settings.Weeks+1 {
		target = meta.Settings.Weeks + 1
	}

	var last *seasonevents.WeekComplete
	for meta.Week < target && meta.Phase == domain.PhaseRegular {
		wc, err := s.advanceRegularWeek(ctx, meta)
		if err != nil {
			return last, err
		}
		last = wc
		s.broadcast(seasonevents.EventWeekComplete, wc)
		s.broadcast(seasonevents.EventSimProgress, seasonevents.SimProgress{
			Week:       meta.Week,
			TargetWeek: target,
		})
	}
	return last, nil
}

// AdvanceOffseason steps the league to its next offseason stage. The stages
// with their own commands (free-agency days, the draft) are skipped over;
// everything else moves here: progression-pending runs the once-per-season
// aging pass, progression-done opens free agency, and draft-complete settles
// into the stage a new season starts from.
func (s *Service) AdvanceOffseason(ctx context.Context) (*seasonevents.OffseasonPhase, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	if meta.Phase != domain.PhaseOffseason {
		return nil, shared.Validationf(shared.CodeInvalidPhase, "the offseason has not started")
	}
	switch meta.OffseasonStage {
	case domain.StageProgressionPending:
		return s.runProgression(ctx, meta)
	case domain.StageProgressionDone:
		meta.OffseasonStage = domain.StageFreeAgency
		meta.FreeAgency = &domain.FreeAgencyState{Day: 1}
		s.state.Cache.MarkMetaDirty()
		if err := s.state.Flush(ctx); err != nil {
			return nil, err
		}
		return &seasonevents.OffseasonPhase{
			Stage:         meta.OffseasonStage,
			FreeAgencyDay: meta.FreeAgency.Day,
		}, nil
	case domain.StageDraftComplete:
		meta.OffseasonStage = domain.StageReadyForNewSeason
		s.state.Cache.MarkMetaDirty()
		if err := s.state.Flush(ctx); err != nil {
			return nil, err
		}
		return &seasonevents.OffseasonPhase{Stage: meta.OffseasonStage}, nil
	default:
		return nil, shared.Validationf(shared.CodeInvalidPhase,
			"stage %s advances through its own command", meta.OffseasonStage)
	}
}

// runProgression ages every rostered player, retires the oldest and tops the
// free-agent pool back up with replacements so it never drains.
func (s *Service) runProgression(ctx context.Context, meta *domain.Meta) (*seasonevents.OffseasonPhase, error) {
	var retired []string
	touchedTeams := map[string]bool{}
	for _, p := range s.state.Cache.Players() {
		if p.Status == domain.StatusDraftEligible {
			continue
		}
		id := p.ID
		s.state.Cache.UpdatePlayer(id, s.agePlayer)
		aged, ok := s.state.Cache.Player(id)
		if !ok || !s.shouldRetire(aged) {
			continue
		}
		teamID, name := aged.TeamID, aged.Name
		s.state.Cache.RemovePlayer(id)
		retired = append(retired, name)
		if teamID != "" {
			touchedTeams[teamID] = true
		}
		s.state.Cache.AppendTransaction(&domain.Transaction{
			ID:       uuid.NewString(),
			SeasonID: meta.SeasonID,
			Week:     meta.Week,
			Type:     domain.TxRetire,
			TeamID:   teamID,
			PlayerID: id,
			Detail:   name + " retired",
		})
	}
	for teamID := range touchedTeams {
		s.state.RecalcTeamCap(teamID)
	}
	for _, p := range s.gen.ReplacementFreeAgents(len(retired)) {
		s.state.Cache.SetPlayer(p)
	}

	meta.OffseasonStage = domain.StageProgressionDone
	s.state.Cache.MarkMetaDirty()
	if err := s.state.Flush(ctx); err != nil {
		return nil, err
	}
	s.logger.Info("progression pass complete",
		slog.Int("retirements", len(retired)),
		slog.String("season", meta.SeasonID))
	return &seasonevents.OffseasonPhase{
		Stage:       meta.OffseasonStage,
		Retirements: retired,
	}, nil
}

// AdvanceFreeAgencyDay resolves one league-wide free-agency day: pending user
// offers first, then one AI signing per team. After the configured number of
// days the window closes and the draft becomes available.
func (s *Service) AdvanceFreeAgencyDay(ctx context.Context) (*seasonevents.OffseasonPhase, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	if meta.Phase != domain.PhaseOffseason || meta.OffseasonStage != domain.StageFreeAgency || meta.FreeAgency == nil {
		return nil, shared.Validationf(shared.CodeInvalidPhase, "free agency is not open")
	}

	day := meta.FreeAgency.Day
	rosters := map[string][]*domain.Player{}
	teams := s.state.Cache.Teams()
	for _, t := range teams {
		rosters[t.ID] = s.state.Cache.TeamPlayers(t.ID)
	}
	planned := ai.RunFreeAgencyDay(teams, rosters, s.state.Cache.PlayersByStatus(domain.StatusFreeAgent), s.rng)

	var signings []seasonevents.SigningResult
	for _, sg := range planned {
		player, _ := s.state.Cache.Player(sg.PlayerID)
		if err := s.state.ApplySigning(sg.TeamID, sg.PlayerID, sg.Contract, domain.TxSign); err != nil {
			s.logger.Warn("free-agency signing rejected",
				slog.String("team_id", sg.TeamID),
				slog.String("player_id", sg.PlayerID),
				slog.Any("error", err))
			continue
		}
		result := seasonevents.SigningResult{
			PlayerID: sg.PlayerID,
			TeamID:   sg.TeamID,
			CapHit:   sg.Contract.CapHit(),
		}
		if player != nil {
			result.PlayerName = player.Name
		}
		if t, ok := s.state.Cache.Team(sg.TeamID); ok {
			result.TeamAbbr = t.Abbr
		}
		signings = append(signings, result)
	}

	meta.FreeAgency.Day = day + 1
	if day >= meta.Settings.FreeAgencyDays {
		meta.FreeAgency.Complete = true
		meta.OffseasonStage = domain.StageDraftPending
	}
	s.state.Cache.MarkMetaDirty()
	if err := s.state.Flush(ctx); err != nil {
		return nil, err
	}
	return &seasonevents.OffseasonPhase{
		Stage:         meta.OffseasonStage,
		FreeAgencyDay: meta.FreeAgency.Day,
		Signings:      signings,
	}, nil
}

// StartNewSeason archives the finished season, evicts its stats from the hot
// cache, zeros team records, converts undrafted prospects to free agents and
// regenerates the schedule for the next year.
func (s *Service) StartNewSeason(ctx context.Context) (*leagueevents.LeagueState, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	if meta.Phase != domain.PhaseOffseason || meta.OffseasonStage != domain.StageReadyForNewSeason {
		return nil, shared.Validationf(shared.CodeInvalidPhase,
			"the offseason is not finished (stage %s)", meta.OffseasonStage)
	}

	s.state.Cache.AppendArchive(&domain.SeasonArchive{
		SeasonID:       meta.SeasonID,
		Year:           meta.Year,
		ChampionTeamID: meta.ChampionTeamID,
		ChampionName:   s.teamName(meta.ChampionTeamID),
		UserTeamRecord: s.teamRecord(meta.UserTeamID),
	})
	evicted := s.state.Cache.EvictSeasonStats(meta.SeasonID)

	teamIDs := make([]string, 0, 32)
	for _, t := range s.state.Cache.Teams() {
		teamIDs = append(teamIDs, t.ID)
		s.state.Cache.UpdateTeam(t.ID, func(tm *domain.Team) {
			tm.Wins, tm.Losses, tm.Ties = 0, 0, 0
			tm.PointsFor, tm.PointsAgainst = 0, 0
		})
	}
	for _, p := range s.state.Cache.PlayersByStatus(domain.StatusDraftEligible) {
		s.state.Cache.UpdatePlayer(p.ID, func(pl *domain.Player) {
			pl.Status = domain.StatusFreeAgent
		})
	}

	oldSeason := meta.SeasonID
	meta.Year++
	meta.SeasonID = domain.SeasonIDFor(meta.Year)
	meta.Week = 1
	meta.Phase = domain.PhaseRegular
	meta.OffseasonStage = ""
	meta.Draft = nil
	meta.FreeAgency = nil
	meta.Playoffs = nil
	meta.ChampionTeamID = ""
	meta.Schedule = schedule.Build(teamIDs, meta.Settings.Weeks, s.rng)
	s.state.Cache.MarkMetaDirty()
	if err := s.state.Flush(ctx); err != nil {
		return nil, err
	}
	s.logger.Info("season rolled over",
		slog.String("archived", oldSeason),
		slog.String("season", meta.SeasonID),
		slog.Int("stats_evicted", evicted))
	return leagueevents.BuildLeagueState(s.state.Cache), nil
}

func (s *Service) advanceRegularWeek(ctx context.Context, meta *domain.Meta) (*seasonevents.WeekComplete, error) {
	idx := meta.Week - 1
	if idx < 0 || idx >= len(meta.Schedule) {
		return nil, shared.Validationf(shared.CodeInvalidPhase, "week %d is outside the schedule", meta.Week)
	}
	week := meta.Schedule[idx]
	out := &seasonevents.WeekComplete{Week: meta.Week, Phase: domain.PhaseRegular}

	if !week.Played {
		results, err := s.sim.Simulate(ctx, s.expandMatchups(week.Matchups), false)
		if err != nil {
			return nil, fmt.Errorf("failed to simulate week %d: %w", meta.Week, err)
		}
		for i, m := range week.Matchups {
			out.Games = append(out.Games, s.applyResult(meta, meta.Week, "", m.HomeID, m.AwayID, results[i], true))
		}
		meta.Schedule[idx].Played = true
	}

	meta.Week++
	if meta.Week > meta.Settings.Weeks {
		s.enterPlayoffs(meta, out)
	}
	s.state.Cache.MarkMetaDirty()
	if err := s.state.Flush(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// enterPlayoffs seeds the bracket at the end of the regular season. A league
// too small to field seven seeds per conference skips the bracket and crowns
// the best record directly.
func (s *Service) enterPlayoffs(meta *domain.Meta, out *seasonevents.WeekComplete) {
	ps := schedule.BuildPlayoffs(s.state.Cache.Teams())
	if len(ps.Matches) == 0 {
		s.crownChampion(meta, s.bestRecordTeamID())
		out.Phase = meta.Phase
		out.ChampionTeamID = meta.ChampionTeamID
		out.Stage = meta.OffseasonStage
		return
	}
	meta.Phase = domain.PhasePlayoffs
	meta.Playoffs = ps
	out.Phase = domain.PhasePlayoffs
	out.Playoffs = ps
	s.logger.Info("playoffs seeded", slog.String("season", meta.SeasonID))
}

func (s *Service) advancePlayoffRound(ctx context.Context, meta *domain.Meta) (*seasonevents.WeekComplete, error) {
	ps := meta.Playoffs
	if ps == nil {
		return nil, shared.Validationf(shared.CodeInvalidPhase, "no playoff bracket exists")
	}
	var open []int
	for i := range ps.Matches {
		if ps.Matches[i].Round == ps.Round && ps.Matches[i].WinnerID == "" {
			open = append(open, i)
		}
	}
	if len(open) == 0 {
		return nil, shared.Validationf(shared.CodeInvalidPhase, "round %s is already decided", ps.Round)
	}

	matchups := make([]domain.Matchup, 0, len(open))
	for _, i := range open {
		matchups = append(matchups, domain.Matchup{HomeID: ps.Matches[i].HomeID, AwayID: ps.Matches[i].AwayID})
	}
	results, err := s.sim.Simulate(ctx, s.expandMatchups(matchups), true)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate %s round: %w", ps.Round, err)
	}

	out := &seasonevents.WeekComplete{Week: meta.Week, Phase: domain.PhasePlayoffs, Round: ps.Round}
	for k, i := range open {
		m := &ps.Matches[i]
		gr := s.applyResult(meta, meta.Week, ps.Round, m.HomeID, m.AwayID, results[k], false)
		m.WinnerID = gr.HomeID
		if gr.AwayScore > gr.HomeScore {
			m.WinnerID = gr.AwayID
		}
		m.GameID = gr.GameID
		out.Games = append(out.Games, gr)
	}
	meta.Week++

	if ps.Round == domain.RoundSuperBowl {
		s.crownChampion(meta, ps.Matches[open[0]].WinnerID)
		out.ChampionTeamID = meta.ChampionTeamID
		out.Stage = meta.OffseasonStage
	} else if next, ok := schedule.NextRound(ps, func(id string) *domain.Team {
		t, _ := s.state.Cache.Team(id)
		return t
	}); ok {
		ps.Matches = append(ps.Matches, next...)
		ps.Round = next[0].Round
	} else if winner, alone := schedule.LoneFinalist(ps); alone {
		// A single-conference bracket ends at the conference title game.
		s.crownChampion(meta, winner)
		out.ChampionTeamID = meta.ChampionTeamID
		out.Stage = meta.OffseasonStage
	}
	out.Playoffs = ps
	s.state.Cache.MarkMetaDirty()
	if err := s.state.Flush(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// applyResult records one finished game: the write-once game record, season
// stat aggregation, and (regular season only) the standings update.
func (s *Service) applyResult(meta *domain.Meta, week int, round domain.PlayoffRound, homeID, awayID string, r sim.Result, regular bool) seasonevents.GameResult {
	gameID := domain.GameID(meta.SeasonID, week, homeID, awayID)
	s.state.Cache.SetGame(&domain.Game{
		ID:        gameID,
		SeasonID:  meta.SeasonID,
		Week:      week,
		Round:     round,
		HomeID:    homeID,
		AwayID:    awayID,
		HomeScore: r.HomeScore,
		AwayScore: r.AwayScore,
		BoxScore:  r.Lines,
	})

	if regular {
		s.applyStandings(homeID, r.HomeScore, r.AwayScore)
		s.applyStandings(awayID, r.AwayScore, r.HomeScore)
	}
	for _, line := range r.Lines {
		if _, ok := s.state.Cache.Stat(line.PlayerID, meta.SeasonID); !ok {
			s.state.Cache.SetStat(&domain.SeasonStat{
				ID:       domain.SeasonStatID(line.PlayerID, meta.SeasonID),
				PlayerID: line.PlayerID,
				SeasonID: meta.SeasonID,
				TeamID:   line.TeamID,
			})
		}
		ln := line
		s.state.Cache.UpdateStat(line.PlayerID, meta.SeasonID, func(st *domain.SeasonStat) {
			st.Games++
			st.TeamID = ln.TeamID
			st.Totals.Add(ln)
		})
	}

	return seasonevents.GameResult{
		GameID:    gameID,
		Week:      week,
		Round:     round,
		HomeID:    homeID,
		AwayID:    awayID,
		HomeAbbr:  s.teamAbbr(homeID),
		AwayAbbr:  s.teamAbbr(awayID),
		HomeScore: r.HomeScore,
		AwayScore: r.AwayScore,
	}
}

func (s *Service) applyStandings(teamID string, pointsFor, pointsAgainst int) {
	s.state.Cache.UpdateTeam(teamID, func(t *domain.Team) {
		switch {
		case pointsFor > pointsAgainst:
			t.Wins++
		case pointsFor < pointsAgainst:
			t.Losses++
		default:
			t.Ties++
		}
		t.PointsFor += pointsFor
		t.PointsAgainst += pointsAgainst
	})
}

func (s *Service) crownChampion(meta *domain.Meta, teamID string) {
	meta.ChampionTeamID = teamID
	meta.Phase = domain.PhaseOffseason
	meta.OffseasonStage = domain.StageProgressionPending
	s.logger.Info("champion crowned",
		slog.String("season", meta.SeasonID),
		slog.String("team_id", teamID))
}

func (s *Service) bestRecordTeamID() string {
	best := ""
	var bestTeam *domain.Team
	for _, t := range s.state.Cache.Teams() {
		if bestTeam == nil ||
			t.Wins > bestTeam.Wins ||
			(t.Wins == bestTeam.Wins && t.PointDiff() > bestTeam.PointDiff()) {
			best, bestTeam = t.ID, t
		}
	}
	return best
}

func (s *Service) agePlayer(p *domain.Player) {
	p.Age++
	switch {
	case p.Age < 26:
		p.Overall += s.rng.Intn(4)
		if p.Overall > p.Potential {
			p.Overall = p.Potential
		}
	case p.Age >= 33:
		p.Overall -= 2 + s.rng.Intn(4)
	case p.Age >= 30:
		p.Overall -= s.rng.Intn(3)
	}
	if p.Overall < 40 {
		p.Overall = 40
	}
}

// shouldRetire rolls retirement for players 34 and older, with the odds
// rising each year. At 40 the decision is no longer a roll.
func (s *Service) shouldRetire(p *domain.Player) bool {
	if p.Age >= 40 {
		return true
	}
	if p.Age < 34 {
		return false
	}
	return s.rng.Float64() < 0.1*float64(p.Age-33)
}

func (s *Service) expandMatchups(ms []domain.Matchup) []sim.Matchup {
	out := make([]sim.Matchup, 0, len(ms))
	for _, m := range ms {
		home, _ := s.state.Cache.Team(m.HomeID)
		away, _ := s.state.Cache.Team(m.AwayID)
		out = append(out, sim.Matchup{
			Home: sim.TeamSide{Team: home, Roster: s.state.Cache.TeamPlayers(m.HomeID)},
			Away: sim.TeamSide{Team: away, Roster: s.state.Cache.TeamPlayers(m.AwayID)},
		})
	}
	return out
}

func (s *Service) teamAbbr(id string) string {
	if t, ok := s.state.Cache.Team(id); ok {
		return t.Abbr
	}
	return ""
}

func (s *Service) teamName(id string) string {
	if t, ok := s.state.Cache.Team(id); ok {
		return t.Name
	}
	return ""
}

func (s *Service) teamRecord(id string) string {
	if t, ok := s.state.Cache.Team(id); ok {
		return fmt.Sprintf("%d-%d-%d", t.Wins, t.Losses, t.Ties)
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
