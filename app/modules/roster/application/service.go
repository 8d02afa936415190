// Package rosterapplication implements roster management: roster and
// free-agent views, user signings and offers, releases, and trades.
package rosterapplication

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/gridiron-gm/engine/app/ai"
	"github.com/gridiron-gm/engine/app/domain"
	"github.com/gridiron-gm/engine/app/gen"
	leagueevents "github.com/gridiron-gm/engine/app/modules/league/events"
	rosterevents "github.com/gridiron-gm/engine/app/modules/roster/events"
	"github.com/gridiron-gm/engine/app/shared"
)

// Service owns roster operations.
type Service struct {
	state  *shared.State
	logger *slog.Logger
}

// NewService wires the roster service.
func NewService(state *shared.State, logger *slog.Logger) *Service {
	return &Service{state: state, logger: logger}
}

// Roster returns a team's roster, best players first. An empty teamID means
// the user's team.
func (s *Service) Roster(ctx context.Context, teamID string) (*rosterevents.RosterView, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	if teamID == "" {
		teamID = meta.UserTeamID
	}
	team, ok := s.state.Cache.Team(teamID)
	if !ok {
		return nil, shared.Validationf(shared.CodeInvalidID, "unknown team %s", teamID)
	}
	players := s.state.Cache.TeamPlayers(teamID)
	sortPlayers(players)
	view := &rosterevents.RosterView{
		Team: rosterevents.TeamHeader{
			ID:       team.ID,
			Name:     team.Name,
			Abbr:     team.Abbr,
			CapTotal: team.CapTotal,
			CapUsed:  team.CapUsed,
			CapRoom:  team.CapRoom,
		},
	}
	for _, p := range players {
		view.Players = append(view.Players, rosterevents.NewPlayerView(p))
	}
	return view, nil
}

// FreeAgents returns the free-agent pool with each player's asking contract.
func (s *Service) FreeAgents(ctx context.Context) (*rosterevents.FreeAgentsView, error) {
	if _, err := s.state.Meta(); err != nil {
		return nil, err
	}
	pool := s.state.Cache.PlayersByStatus(domain.StatusFreeAgent)
	sortPlayers(pool)
	view := &rosterevents.FreeAgentsView{}
	for _, p := range pool {
		pv := rosterevents.NewPlayerView(p)
		asking := gen.AskingContract(p.Overall, p.Age)
		pv.Asking = &asking
		view.Players = append(view.Players, pv)
	}
	return view, nil
}

// SignPlayer signs a free agent to the user's team at his asking price.
func (s *Service) SignPlayer(ctx context.Context, playerID string) (*leagueevents.LeagueUpdate, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	player, ok := s.state.Cache.Player(playerID)
	if !ok {
		return nil, shared.Validationf(shared.CodeInvalidID, "unknown player %s", playerID)
	}
	if player.Status != domain.StatusFreeAgent {
		return nil, shared.Validationf(shared.CodeInvalidID, "%s is not a free agent", player.Name)
	}
	contract := gen.AskingContract(player.Overall, player.Age)
	if err := s.state.ApplySigning(meta.UserTeamID, playerID, contract, domain.TxSign); err != nil {
		return nil, err
	}
	if err := s.state.Flush(ctx); err != nil {
		return nil, err
	}
	return leagueevents.BuildLeagueUpdate(s.state.Cache), nil
}

// SubmitOffer places a contract offer on a free agent. Offers resolve on the
// next free-agency day; the richest offer beating the asking price wins.
func (s *Service) SubmitOffer(ctx context.Context, req rosterevents.SubmitOfferRequest) (*rosterevents.PlayerView, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	player, ok := s.state.Cache.Player(req.PlayerID)
	if !ok {
		return nil, shared.Validationf(shared.CodeInvalidID, "unknown player %s", req.PlayerID)
	}
	if player.Status != domain.StatusFreeAgent {
		return nil, shared.Validationf(shared.CodeInvalidID, "%s is not a free agent", player.Name)
	}
	if req.Years <= 0 || req.BaseAnnual <= 0 {
		return nil, shared.Validationf(shared.CodeBadPayload, "offer needs positive years and salary")
	}
	contract := domain.Contract{
		Years:        req.Years,
		BaseAnnual:   req.BaseAnnual,
		SigningBonus: req.SigningBonus,
	}
	team, _ := s.state.Cache.Team(meta.UserTeamID)
	if hit := contract.CapHit(); team != nil && hit > team.CapRoom {
		return nil, shared.Validationf(shared.CodeInsufficientCap,
			"offer cap hit %.1f exceeds cap room %.1f", hit, team.CapRoom)
	}

	s.state.Cache.UpdatePlayer(req.PlayerID, func(p *domain.Player) {
		// One standing offer per team; a new one replaces it.
		kept := p.Offers[:0]
		for _, o := range p.Offers {
			if o.TeamID != meta.UserTeamID {
				kept = append(kept, o)
			}
		}
		p.Offers = append(kept, domain.Offer{TeamID: meta.UserTeamID, Contract: contract})
	})
	if err := s.state.Flush(ctx); err != nil {
		return nil, err
	}
	updated, _ := s.state.Cache.Player(req.PlayerID)
	pv := rosterevents.NewPlayerView(updated)
	return &pv, nil
}

// ReleasePlayer cuts a player from the user's team.
func (s *Service) ReleasePlayer(ctx context.Context, playerID string) (*leagueevents.LeagueUpdate, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	player, ok := s.state.Cache.Player(playerID)
	if !ok {
		return nil, shared.Validationf(shared.CodeInvalidID, "unknown player %s", playerID)
	}
	if player.TeamID != meta.UserTeamID {
		return nil, shared.Validationf(shared.CodeInvalidID, "%s is not on your roster", player.Name)
	}
	if err := s.state.ApplyRelease(playerID); err != nil {
		return nil, err
	}
	if err := s.state.Flush(ctx); err != nil {
		return nil, err
	}
	return leagueevents.BuildLeagueUpdate(s.state.Cache), nil
}

// TradeOffer proposes a swap to an AI team. The AI judges value from its own
// side; an accepted trade must also leave both teams under the cap.
func (s *Service) TradeOffer(ctx context.Context, req rosterevents.TradeOfferRequest) (*rosterevents.TradeResponse, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	if req.ToTeamID == meta.UserTeamID {
		return nil, shared.Validationf(shared.CodeInvalidID, "cannot trade with yourself")
	}
	other, ok := s.state.Cache.Team(req.ToTeamID)
	if !ok {
		return nil, shared.Validationf(shared.CodeInvalidID, "unknown team %s", req.ToTeamID)
	}
	if len(req.OfferPlayerIDs) == 0 && len(req.RequestPlayerIDs) == 0 {
		return nil, shared.Validationf(shared.CodeBadPayload, "empty trade proposal")
	}

	offered, err := s.collectPlayers(req.OfferPlayerIDs, meta.UserTeamID)
	if err != nil {
		return nil, err
	}
	requested, err := s.collectPlayers(req.RequestPlayerIDs, req.ToTeamID)
	if err != nil {
		return nil, err
	}

	verdict := ai.ValueTrade(offered, requested)
	if !verdict.Accept {
		return &rosterevents.TradeResponse{Accepted: false, Reason: verdict.Reason}, nil
	}
	if !s.capFitsAfterSwap(meta.UserTeamID, requested, offered) ||
		!s.capFitsAfterSwap(req.ToTeamID, offered, requested) {
		return &rosterevents.TradeResponse{Accepted: false, Reason: "trade would exceed the salary cap"}, nil
	}

	for _, p := range offered {
		s.state.MovePlayer(p.ID, req.ToTeamID)
	}
	for _, p := range requested {
		s.state.MovePlayer(p.ID, meta.UserTeamID)
	}
	s.state.RecalcTeamCap(meta.UserTeamID)
	s.state.RecalcTeamCap(req.ToTeamID)
	s.state.Cache.AppendTransaction(&domain.Transaction{
		ID:       uuid.NewString(),
		SeasonID: meta.SeasonID,
		Week:     meta.Week,
		Type:     domain.TxTrade,
		TeamID:   meta.UserTeamID,
		Detail:   tradeDetail(offered, requested, other.Abbr),
	})
	if err := s.state.Flush(ctx); err != nil {
		return nil, err
	}
	s.logger.Info("trade executed",
		slog.String("to_team", req.ToTeamID),
		slog.Int("players_out", len(offered)),
		slog.Int("players_in", len(requested)))
	return &rosterevents.TradeResponse{Accepted: true, Reason: verdict.Reason}, nil
}

// collectPlayers resolves ids and checks every player is active on the
// expected team.
func (s *Service) collectPlayers(ids []string, teamID string) ([]*domain.Player, error) {
	out := make([]*domain.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := s.state.Cache.Player(id)
		if !ok {
			return nil, shared.Validationf(shared.CodeInvalidID, "unknown player %s", id)
		}
		if p.Status != domain.StatusActive || p.TeamID != teamID {
			return nil, shared.Validationf(shared.CodeInvalidID, "%s is not on team %s", p.Name, teamID)
		}
		out = append(out, p)
	}
	return out, nil
}

// capFitsAfterSwap checks a team's cap if it gained in and lost out.
func (s *Service) capFitsAfterSwap(teamID string, in, out []*domain.Player) bool {
	team, ok := s.state.Cache.Team(teamID)
	if !ok {
		return false
	}
	used := team.CapUsed
	for _, p := range in {
		used += p.Contract.CapHit()
	}
	for _, p := range out {
		used -= p.Contract.CapHit()
	}
	return used <= team.CapTotal
}

func tradeDetail(offered, requested []*domain.Player, otherAbbr string) string {
	names := func(ps []*domain.Player) string {
		s := ""
		for i, p := range ps {
			if i > 0 {
				s += ", "
			}
			s += p.Name
		}
		if s == "" {
			s = "nothing"
		}
		return s
	}
	return "traded " + names(offered) + " to " + otherAbbr + " for " + names(requested)
}

func sortPlayers(ps []*domain.Player) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Overall != ps[j].Overall {
			return ps[i].Overall > ps[j].Overall
		}
		return ps[i].ID < ps[j].ID
	})
}
