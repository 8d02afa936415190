package shared

import (
	"github.com/google/uuid"

	"github.com/gridiron-gm/engine/app/domain"
)

// ApplySigning moves a non-active player onto a team under the given
// contract, recalculates the team's cap synchronously, and logs the
// transaction. Used by user signings, AI free-agency days and the draft.
func (s *State) ApplySigning(teamID, playerID string, contract domain.Contract, txType domain.TransactionType) error {
	meta, err := s.Meta()
	if err != nil {
		return err
	}
	team, ok := s.Cache.Team(teamID)
	if !ok {
		return Validationf(CodeInvalidID, "unknown team %s", teamID)
	}
	player, ok := s.Cache.Player(playerID)
	if !ok {
		return Validationf(CodeInvalidID, "unknown player %s", playerID)
	}
	if player.Status == domain.StatusActive {
		return Validationf(CodeInvalidID, "player %s is already on a roster", playerID)
	}
	hit := contract.CapHit()
	if hit > team.CapRoom {
		return Validationf(CodeInsufficientCap, "%s lacks cap room for %s (hit %.1f, room %.1f)",
			team.Abbr, player.Name, hit, team.CapRoom)
	}

	s.Cache.UpdatePlayer(playerID, func(p *domain.Player) {
		p.Status = domain.StatusActive
		p.TeamID = teamID
		p.Contract = contract
		p.Offers = nil
	})
	s.recalcTeamCap(teamID)
	s.Cache.AppendTransaction(&domain.Transaction{
		ID:       uuid.NewString(),
		SeasonID: meta.SeasonID,
		Week:     meta.Week,
		Type:     txType,
		TeamID:   teamID,
		PlayerID: playerID,
		Detail:   player.Name + " signed by " + team.Abbr,
	})
	return nil
}

// ApplyRelease cuts an active player to free agency and recalculates the
// former team's cap.
func (s *State) ApplyRelease(playerID string) error {
	meta, err := s.Meta()
	if err != nil {
		return err
	}
	player, ok := s.Cache.Player(playerID)
	if !ok {
		return Validationf(CodeInvalidID, "unknown player %s", playerID)
	}
	if player.Status != domain.StatusActive || player.TeamID == "" {
		return Validationf(CodeInvalidID, "player %s is not on a roster", playerID)
	}
	teamID := player.TeamID

	s.Cache.UpdatePlayer(playerID, func(p *domain.Player) {
		p.Status = domain.StatusFreeAgent
		p.TeamID = ""
	})
	s.recalcTeamCap(teamID)
	s.Cache.AppendTransaction(&domain.Transaction{
		ID:       uuid.NewString(),
		SeasonID: meta.SeasonID,
		Week:     meta.Week,
		Type:     domain.TxRelease,
		TeamID:   teamID,
		PlayerID: playerID,
		Detail:   player.Name + " released",
	})
	return nil
}

// MovePlayer reassigns an active player between teams (trades). Cap figures
// for both teams are recalculated by the caller once the whole swap is done.
func (s *State) MovePlayer(playerID, toTeamID string) bool {
	return s.Cache.UpdatePlayer(playerID, func(p *domain.Player) {
		p.TeamID = toTeamID
	})
}

// RecalcTeamCap recomputes one team's cap from its active roster.
func (s *State) RecalcTeamCap(teamID string) { s.recalcTeamCap(teamID) }

func (s *State) recalcTeamCap(teamID string) {
	roster := s.Cache.TeamPlayers(teamID)
	s.Cache.UpdateTeam(teamID, func(t *domain.Team) {
		domain.RecalcCap(t, roster)
	})
}
