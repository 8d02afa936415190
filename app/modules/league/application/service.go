// Package leagueapplication implements league lifecycle: save management,
// league creation, and user-facing league settings.
package leagueapplication

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/gridiron-gm/engine/app/domain"
	"github.com/gridiron-gm/engine/app/gen"
	leagueevents "github.com/gridiron-gm/engine/app/modules/league/events"
	"github.com/gridiron-gm/engine/app/schedule"
	"github.com/gridiron-gm/engine/app/shared"
	"github.com/gridiron-gm/engine/config"
)

// Service owns league lifecycle operations.
type Service struct {
	state  *shared.State
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires the league service.
func NewService(state *shared.State, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{state: state, cfg: cfg, logger: logger, now: time.Now}
}

// ListSaves returns the save index for the front end's league picker.
func (s *Service) ListSaves(ctx context.Context) (*leagueevents.SaveListPayload, error) {
	saves, err := s.state.Store.SaveSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	return &leagueevents.SaveListPayload{Saves: saves}, nil
}

// LoadSave hydrates the cache from a stored league and returns the full
// snapshot. Any previously open league is dropped from memory first.
func (s *Service) LoadSave(ctx context.Context, saveID string) (*leagueevents.LeagueState, error) {
	if saveID == "" {
		return nil, shared.Validationf(shared.CodeInvalidID, "saveId is required")
	}
	snap, err := s.state.Store.LoadLeague(ctx, saveID)
	if err != nil {
		return nil, err
	}
	s.state.Cache.Hydrate(snap)
	if err := s.state.Store.TouchSave(ctx, s.state.SaveSummary()); err != nil {
		s.logger.Warn("failed to touch save index on load",
			slog.String("save_id", saveID), slog.Any("error", err))
	}
	s.logger.Info("league loaded",
		slog.String("save_id", saveID),
		slog.Int("year", snap.Meta.Year),
		slog.String("phase", string(snap.Meta.Phase)))
	return leagueevents.BuildLeagueState(s.state.Cache), nil
}

// DeleteSave destroys a stored league. Deleting the open league also resets
// the in-memory state.
func (s *Service) DeleteSave(ctx context.Context, saveID string) (*leagueevents.SaveListPayload, error) {
	if saveID == "" {
		return nil, shared.Validationf(shared.CodeInvalidID, "saveId is required")
	}
	if err := s.state.Store.DeleteSave(ctx, saveID); err != nil {
		return nil, err
	}
	if m := s.state.Cache.Meta(); m != nil && m.SaveID == saveID {
		s.state.Cache.Reset()
	}
	s.logger.Info("save deleted", slog.String("save_id", saveID))
	return s.ListSaves(ctx)
}

// CreateLeague generates a fresh 32-team league: franchises, full rosters,
// cap figures and the season schedule, all flushed in one batch.
func (s *Service) CreateLeague(ctx context.Context, req leagueevents.CreateLeagueRequest) (*leagueevents.LeagueState, error) {
	if req.Name == "" {
		return nil, shared.Validationf(shared.CodeBadPayload, "league name is required")
	}
	settings := s.defaultSettings()
	if req.Settings != nil {
		applySettingsOverride(&settings, *req.Settings)
	}

	seed := s.cfg.League.Seed
	if seed == 0 {
		seed = s.now().UnixNano()
	}
	g := gen.New(seed)
	rng := rand.New(rand.NewSource(seed + 1))

	s.state.Cache.Reset()
	teams := g.Teams(settings.SalaryCap)
	teamIDs := make([]string, 0, len(teams))
	userTeamID := ""
	for _, t := range teams {
		teamIDs = append(teamIDs, t.ID)
		if t.Abbr == req.UserTeamAbbr {
			userTeamID = t.ID
		}
	}
	if userTeamID == "" {
		userTeamID = teams[rng.Intn(len(teams))].ID
	}

	year := s.now().Year()
	meta := &domain.Meta{
		SaveID:     uuid.NewString(),
		Name:       req.Name,
		SeasonID:   domain.SeasonIDFor(year),
		Year:       year,
		Week:       1,
		Phase:      domain.PhaseRegular,
		Schedule:   schedule.Build(teamIDs, settings.Weeks, rng),
		UserTeamID: userTeamID,
		Settings:   settings,
	}
	s.state.Cache.SetMeta(meta)

	for _, t := range teams {
		roster := g.Roster(t.ID)
		domain.RecalcCap(t, roster)
		s.state.Cache.SetTeam(t)
		for _, p := range roster {
			s.state.Cache.SetPlayer(p)
		}
	}

	if err := s.state.Flush(ctx); err != nil {
		return nil, err
	}
	s.logger.Info("league created",
		slog.String("save_id", meta.SaveID),
		slog.String("name", meta.Name),
		slog.Int("teams", len(teams)),
		slog.Int64("seed", seed))
	return leagueevents.BuildLeagueState(s.state.Cache), nil
}

// SaveNow forces a flush of whatever is dirty. With nothing dirty it still
// refreshes the save-index timestamp.
func (s *Service) SaveNow(ctx context.Context) error {
	if _, err := s.state.Meta(); err != nil {
		return err
	}
	if s.state.Cache.IsDirty() {
		return s.state.Flush(ctx)
	}
	return s.state.Store.TouchSave(ctx, s.state.SaveSummary())
}

// ResetLeague closes the open league without deleting it. Dirty entities are
// flushed first so nothing is lost.
func (s *Service) ResetLeague(ctx context.Context) (*leagueevents.SaveListPayload, error) {
	if s.state.Cache.Loaded() {
		if err := s.state.Flush(ctx); err != nil {
			return nil, err
		}
		s.state.Cache.Reset()
	}
	return s.ListSaves(ctx)
}

// SetUserTeam switches the controlled franchise.
func (s *Service) SetUserTeam(ctx context.Context, teamID string) (*leagueevents.LeagueUpdate, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	if _, ok := s.state.Cache.Team(teamID); !ok {
		return nil, shared.Validationf(shared.CodeInvalidID, "unknown team %s", teamID)
	}
	meta.UserTeamID = teamID
	s.state.Cache.MarkMetaDirty()
	if err := s.state.Flush(ctx); err != nil {
		return nil, err
	}
	return leagueevents.BuildLeagueUpdate(s.state.Cache), nil
}

// UpdateSettings applies the safe subset of settings changes. Season length
// is locked once a season is underway; cap changes recalc every team's room.
func (s *Service) UpdateSettings(ctx context.Context, in domain.Settings) (*leagueevents.LeagueUpdate, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	if in.Weeks != 0 && in.Weeks != meta.Settings.Weeks {
		return nil, shared.Validationf(shared.CodeInvalidPhase, "season length cannot change mid-save")
	}
	if in.FreeAgencyDays > 0 {
		meta.Settings.FreeAgencyDays = in.FreeAgencyDays
	}
	if in.DraftRounds > 0 {
		meta.Settings.DraftRounds = in.DraftRounds
	}
	if in.SalaryCap > 0 && in.SalaryCap != meta.Settings.SalaryCap {
		meta.Settings.SalaryCap = in.SalaryCap
		for _, t := range s.state.Cache.Teams() {
			s.state.Cache.UpdateTeam(t.ID, func(tm *domain.Team) {
				tm.CapTotal = in.SalaryCap
				tm.CapRoom = tm.CapTotal - tm.CapUsed
			})
		}
	}
	s.state.Cache.MarkMetaDirty()
	if err := s.state.Flush(ctx); err != nil {
		return nil, err
	}
	return leagueevents.BuildLeagueUpdate(s.state.Cache), nil
}

func (s *Service) defaultSettings() domain.Settings {
	return domain.Settings{
		Weeks:          s.cfg.League.Weeks,
		FreeAgencyDays: s.cfg.League.FreeAgencyDays,
		DraftRounds:    s.cfg.League.DraftRounds,
		SalaryCap:      s.cfg.League.SalaryCap,
	}
}

func applySettingsOverride(dst *domain.Settings, in domain.Settings) {
	if in.Weeks > 0 {
		dst.Weeks = in.Weeks
	}
	if in.FreeAgencyDays > 0 {
		dst.FreeAgencyDays = in.FreeAgencyDays
	}
	if in.DraftRounds > 0 {
		dst.DraftRounds = in.DraftRounds
	}
	if in.SalaryCap > 0 {
		dst.SalaryCap = in.SalaryCap
	}
}
