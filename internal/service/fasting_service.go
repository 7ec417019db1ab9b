package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fasting/backend/internal/clock"
	apperrors "fasting/backend/internal/errors"
	"fasting/backend/internal/metrics"
	"fasting/backend/internal/model"
	"fasting/backend/internal/repository"
	"fasting/backend/internal/schedule"
)

// historyWindow caps how many sessions feed the aggregation endpoints.
const historyWindow = 365

type FastingService struct {
	settingsRepo *repository.SettingsRepository
	sessionRepo  *repository.SessionRepository
	clock        clock.Clock
	logger       zerolog.Logger
}

func NewFastingService(
	settingsRepo *repository.SettingsRepository,
	sessionRepo *repository.SessionRepository,
	clk clock.Clock,
	logger zerolog.Logger,
) *FastingService {
	return &FastingService{
		settingsRepo: settingsRepo,
		sessionRepo:  sessionRepo,
		clock:        clk,
		logger:       logger,
	}
}

// SessionView is a live projection of a session at serverTime. Progress is
// derived from the clock on every read; nothing is persisted per tick.
type SessionView struct {
	Session          model.FastingSession `json:"session"`
	ElapsedSeconds   int                  `json:"elapsedSeconds"`
	RemainingSeconds int                  `json:"remainingSeconds"`
	ProgressPercent  float64              `json:"progressPercent"`
	ServerTime       time.Time            `json:"serverTime"`
}

type SaveSettingsInput struct {
	PlanLabel         string
	EatingWindowStart string
	IsActive          bool
}

// GetSettings returns nil when the user has no schedule. A storage failure
// degrades to the same answer so the UI falls back to its setup state.
func (s *FastingService) GetSettings(ctx context.Context, userID string) (*model.ScheduleSettings, *apperrors.APIError) {
	settings, err := s.settingsRepo.Get(ctx, userID)
	if err == repository.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("get settings degraded to absent")
		return nil, nil
	}
	return settings, nil
}

func (s *FastingService) SaveSettings(ctx context.Context, userID string, input SaveSettingsInput) (*model.ScheduleSettings, *apperrors.APIError) {
	plan, err := model.ParsePlan(input.PlanLabel)
	if err != nil {
		return nil, apperrors.Configuration(err.Error())
	}
	if !plan.PlanCoversDay() {
		return nil, apperrors.Configuration("fasting and eating hours must sum to 24")
	}
	if _, _, err := schedule.ParseWindowStart(input.EatingWindowStart); err != nil {
		return nil, apperrors.Configuration(err.Error())
	}

	settings := model.ScheduleSettings{
		UserID:            userID,
		Plan:              plan,
		EatingWindowStart: input.EatingWindowStart,
		IsActive:          input.IsActive,
		UpdatedAt:         s.clock.Now().UTC(),
	}
	if err := s.settingsRepo.Upsert(ctx, &settings); err != nil {
		return nil, apperrors.Gateway("failed to save settings")
	}
	return &settings, nil
}

// GetPhase evaluates the schedule at the current instant.
func (s *FastingService) GetPhase(ctx context.Context, userID string) (*model.PhaseState, *apperrors.APIError) {
	settings, apiErr := s.GetSettings(ctx, userID)
	if apiErr != nil {
		return nil, apiErr
	}
	if settings == nil {
		return nil, apperrors.NotFound("schedule_not_found", "no fasting schedule configured")
	}

	state, err := schedule.Evaluate(*settings, s.clock.Now())
	if err != nil {
		return nil, apperrors.Configuration(err.Error())
	}
	return &state, nil
}

// StartSession begins a new attempt. The duplicate check is a read before
// the insert; the storage uniqueness index catches the remaining race.
func (s *FastingService) StartSession(ctx context.Context, userID, planLabel string) (*SessionView, *apperrors.APIError) {
	now := s.clock.Now().UTC()

	plan, apiErr := s.resolvePlan(ctx, userID, planLabel)
	if apiErr != nil {
		return nil, apiErr
	}

	existing, err := s.sessionRepo.GetInProgress(ctx, userID)
	if err != nil && err != repository.ErrNotFound {
		return nil, apperrors.Gateway("failed to check for running session")
	}
	if existing != nil {
		return nil, apperrors.Conflict("session_in_progress", "a fasting session is already in progress", nil)
	}

	session := model.FastingSession{
		ID:           uuid.NewString(),
		UserID:       userID,
		PlanLabel:    plan.Label,
		TargetHours:  plan.FastingHours,
		StartedAt:    now,
		ScheduledEnd: now.Add(time.Duration(plan.FastingHours) * time.Hour),
		Status:       model.StatusInProgress,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.sessionRepo.Insert(ctx, &session); err != nil {
		if err == repository.ErrDuplicateInProgress {
			return nil, apperrors.Conflict("session_in_progress", "a fasting session is already in progress", nil)
		}
		return nil, apperrors.Gateway("failed to create session")
	}

	metrics.SessionsStarted.Inc()
	view := s.toSessionView(&session, now)
	return &view, nil
}

// CurrentSession returns the live session with derived progress, or nil if
// none is running. Storage failures degrade to nil.
func (s *FastingService) CurrentSession(ctx context.Context, userID string) (*SessionView, *apperrors.APIError) {
	session, err := s.sessionRepo.GetInProgress(ctx, userID)
	if err == repository.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("get current session degraded to absent")
		return nil, nil
	}
	view := s.toSessionView(session, s.clock.Now().UTC())
	return &view, nil
}

// EndSession closes a session and classifies the outcome from the raw
// completion percent. The persisted percent is clamped for display.
func (s *FastingService) EndSession(ctx context.Context, userID, sessionID string) (*SessionView, *apperrors.APIError) {
	now := s.clock.Now().UTC()

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("session_not_found", "fasting session not found")
	}
	if err != nil {
		return nil, apperrors.Gateway("failed to load session")
	}
	if session.UserID != userID {
		return nil, apperrors.NotFound("session_not_found", "fasting session not found")
	}
	if session.Terminal() {
		return nil, apperrors.Conflict("session_already_ended", "fasting session already ended", nil)
	}

	actualHours := now.Sub(session.StartedAt).Hours()
	if actualHours < 0 {
		actualHours = 0
	}
	rawPercent := actualHours / float64(session.TargetHours) * 100

	roundedHours := math.Round(actualHours*100) / 100
	percent := int(math.Round(rawPercent))
	if percent > 100 {
		percent = 100
	}
	status := model.ClassifyOutcome(rawPercent)

	session.EndedAt = &now
	session.ActualHours = &roundedHours
	session.CompletionPercent = &percent
	session.Status = status
	session.UpdatedAt = now

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, apperrors.Gateway("failed to end session")
	}

	metrics.SessionsEnded.WithLabelValues(status).Inc()
	view := s.toSessionView(session, now)
	return &view, nil
}

// History returns the most recent sessions, newest first. Storage failures
// degrade to an empty list.
func (s *FastingService) History(ctx context.Context, userID string, limit int) ([]model.FastingSession, *apperrors.APIError) {
	limit = clampHistoryLimit(limit)
	sessions, err := s.sessionRepo.List(ctx, userID, limit)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("get history degraded to empty")
		return []model.FastingSession{}, nil
	}
	return sessions, nil
}

// Stats aggregates the user's recent sessions.
func (s *FastingService) Stats(ctx context.Context, userID string) (*HistoryStats, *apperrors.APIError) {
	sessions, apiErr := s.History(ctx, userID, historyWindow)
	if apiErr != nil {
		return nil, apiErr
	}
	stats := AggregateStats(sessions, s.clock.Now())
	return &stats, nil
}

// Calendar builds the per-day status map for one month ("YYYY-MM").
func (s *FastingService) Calendar(ctx context.Context, userID, month string) (map[string]string, *apperrors.APIError) {
	anchor, err := time.ParseInLocation("2006-01", month, s.clock.Now().Location())
	if err != nil {
		return nil, apperrors.BadRequest("invalid_month", "month must be formatted YYYY-MM")
	}
	sessions, apiErr := s.History(ctx, userID, historyWindow)
	if apiErr != nil {
		return nil, apiErr
	}
	return CalendarMap(sessions, anchor.Year(), anchor.Month()), nil
}

func (s *FastingService) resolvePlan(ctx context.Context, userID, planLabel string) (model.FastingPlan, *apperrors.APIError) {
	if planLabel != "" {
		plan, err := model.ParsePlan(planLabel)
		if err != nil {
			return model.FastingPlan{}, apperrors.Configuration(err.Error())
		}
		return plan, nil
	}

	settings, apiErr := s.GetSettings(ctx, userID)
	if apiErr != nil {
		return model.FastingPlan{}, apiErr
	}
	if settings == nil {
		return model.FastingPlan{}, apperrors.Configuration("no plan given and no fasting schedule configured")
	}
	return settings.Plan, nil
}

func (s *FastingService) toSessionView(session *model.FastingSession, now time.Time) SessionView {
	targetSeconds := session.TargetHours * 3600
	elapsed := int(now.Sub(session.StartedAt).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := targetSeconds - elapsed
	if remaining < 0 {
		remaining = 0
	}
	progress := float64(elapsed) / float64(targetSeconds) * 100
	if progress > 100 {
		progress = 100
	}

	return SessionView{
		Session:          *session,
		ElapsedSeconds:   elapsed,
		RemainingSeconds: remaining,
		ProgressPercent:  progress,
		ServerTime:       now,
	}
}

// clampHistoryLimit keeps history queries within the aggregation window.
// Oversized limits are capped, not reset, so asking for more never returns
// fewer rows.
func clampHistoryLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > historyWindow {
		return historyWindow
	}
	return limit
}

// NewPhaseTicker builds a 1-second ticker bound to the service clock.
func (s *FastingService) NewPhaseTicker(settings model.ScheduleSettings) *schedule.Ticker {
	return schedule.NewTicker(settings, s.clock)
}
