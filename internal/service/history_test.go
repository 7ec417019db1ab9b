package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fasting/backend/internal/model"
)

func session(status string, startedAt time.Time, actualHours float64) model.FastingSession {
	s := model.FastingSession{
		ID:          status + "-" + startedAt.Format(time.RFC3339),
		UserID:      "user-1",
		PlanLabel:   "16:8",
		TargetHours: 16,
		StartedAt:   startedAt,
		Status:      status,
	}
	if status != model.StatusInProgress {
		s.ActualHours = &actualHours
	}
	return s
}

func day(d int) time.Time {
	return time.Date(2026, 8, d, 18, 0, 0, 0, time.Local)
}

func TestStreakStopsAtFirstFailure(t *testing.T) {
	sessions := []model.FastingSession{
		session(model.StatusCompleted, day(4), 16),
		session(model.StatusEarly, day(3), 10),
		session(model.StatusMissed, day(2), 2),
		session(model.StatusCompleted, day(1), 16),
	}
	assert.Equal(t, 2, Streak(sessions))
}

func TestStreakAllCompleted(t *testing.T) {
	sessions := []model.FastingSession{
		session(model.StatusCompleted, day(3), 16),
		session(model.StatusCompleted, day(2), 16),
		session(model.StatusCompleted, day(1), 16),
	}
	assert.Equal(t, 3, Streak(sessions))
}

func TestStreakBrokenByInProgress(t *testing.T) {
	sessions := []model.FastingSession{
		session(model.StatusInProgress, day(3), 0),
		session(model.StatusCompleted, day(2), 16),
	}
	assert.Equal(t, 0, Streak(sessions))
}

func TestStreakEmpty(t *testing.T) {
	assert.Equal(t, 0, Streak(nil))
}

func TestAverageHoursSkipsLiveSessions(t *testing.T) {
	sessions := []model.FastingSession{
		session(model.StatusInProgress, day(4), 0),
		session(model.StatusCompleted, day(3), 16),
		session(model.StatusEarly, day(2), 10),
	}
	assert.InDelta(t, 13.0, AverageHours(sessions), 0.001)
	assert.Equal(t, 0.0, AverageHours(nil))
}

func TestSuccessRateCountsOnlyCompleted(t *testing.T) {
	sessions := []model.FastingSession{
		session(model.StatusCompleted, day(4), 16),
		session(model.StatusEarly, day(3), 10),
		session(model.StatusMissed, day(2), 2),
		session(model.StatusCompleted, day(1), 16),
	}
	assert.Equal(t, 50, SuccessRate(sessions))
	assert.Equal(t, 0, SuccessRate(nil))
}

func TestCalendarMapPriority(t *testing.T) {
	sameDay := day(5)
	sessions := []model.FastingSession{
		session(model.StatusMissed, sameDay, 2),
		session(model.StatusEarly, sameDay.Add(time.Hour), 10),
		session(model.StatusCompleted, sameDay.Add(2*time.Hour), 16),
		session(model.StatusMissed, day(6), 1),
		session(model.StatusInProgress, day(6).Add(time.Hour), 0),
		session(model.StatusCompleted, day(7), 16),
	}

	days := CalendarMap(sessions, 2026, time.August)
	assert.Equal(t, map[string]string{
		"2026-08-05": model.StatusCompleted,
		"2026-08-06": model.StatusInProgress,
		"2026-08-07": model.StatusCompleted,
	}, days)
}

func TestCalendarMapFiltersMonth(t *testing.T) {
	sessions := []model.FastingSession{
		session(model.StatusCompleted, time.Date(2026, 7, 31, 18, 0, 0, 0, time.Local), 16),
		session(model.StatusCompleted, day(1), 16),
	}
	days := CalendarMap(sessions, 2026, time.August)
	assert.Len(t, days, 1)
	assert.Contains(t, days, "2026-08-01")
}

func TestAggregateStats(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.Local)
	sessions := []model.FastingSession{
		session(model.StatusCompleted, day(9), 16.5),
		session(model.StatusEarly, day(8), 10),
		session(model.StatusMissed, day(5), 2),
	}

	stats := AggregateStats(sessions, now)
	assert.Equal(t, 3, stats.TotalSessions)
	assert.Equal(t, 2, stats.CurrentStreak)
	assert.InDelta(t, 9.5, stats.AverageHours, 0.001)
	assert.Equal(t, 33, stats.SuccessRatePercent)
	assert.Equal(t, 3, stats.MonthDaysTracked)
	assert.Equal(t, 10, stats.MonthDaysElapsed)
}

func TestClampHistoryLimit(t *testing.T) {
	assert.Equal(t, 50, clampHistoryLimit(0))
	assert.Equal(t, 50, clampHistoryLimit(-5))
	assert.Equal(t, 10, clampHistoryLimit(10))
	assert.Equal(t, 365, clampHistoryLimit(365))
	assert.Equal(t, 365, clampHistoryLimit(400))
}
