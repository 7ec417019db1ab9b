package service

import (
	"math"
	"time"

	"fasting/backend/internal/model"
)

// HistoryStats summarizes a user's recent sessions.
type HistoryStats struct {
	TotalSessions      int     `json:"totalSessions"`
	CurrentStreak      int     `json:"currentStreak"`
	AverageHours       float64 `json:"averageHours"`
	SuccessRatePercent int     `json:"successRatePercent"`
	MonthDaysTracked   int     `json:"monthDaysTracked"`
	MonthDaysElapsed   int     `json:"monthDaysElapsed"`
}

// calendarPriority orders statuses for the per-day fold. Higher wins.
var calendarPriority = map[string]int{
	model.StatusMissed:     1,
	model.StatusEarly:      2,
	model.StatusCompleted:  3,
	model.StatusInProgress: 4,
}

// AggregateStats folds the session list (most recent first) into summary
// statistics. Ordering is the persistence layer's contract.
func AggregateStats(sessions []model.FastingSession, now time.Time) HistoryStats {
	stats := HistoryStats{
		TotalSessions:    len(sessions),
		CurrentStreak:    Streak(sessions),
		AverageHours:     AverageHours(sessions),
		MonthDaysElapsed: now.Day(),
	}
	stats.SuccessRatePercent = SuccessRate(sessions)
	stats.MonthDaysTracked = MonthDaysTracked(sessions, now.Year(), now.Month())
	return stats
}

// Streak counts consecutive sessions from the most recent that were not
// failed outright. A missed or still-running session breaks the walk.
func Streak(sessions []model.FastingSession) int {
	streak := 0
	for _, session := range sessions {
		if session.Status != model.StatusCompleted && session.Status != model.StatusEarly {
			break
		}
		streak++
	}
	return streak
}

// AverageHours is the mean actual duration over terminal sessions.
func AverageHours(sessions []model.FastingSession) float64 {
	total := 0.0
	count := 0
	for _, session := range sessions {
		if session.ActualHours == nil {
			continue
		}
		total += *session.ActualHours
		count++
	}
	if count == 0 {
		return 0
	}
	return math.Round(total/float64(count)*100) / 100
}

// SuccessRate is the share of fully completed sessions, rounded.
func SuccessRate(sessions []model.FastingSession) int {
	if len(sessions) == 0 {
		return 0
	}
	completed := 0
	for _, session := range sessions {
		if session.Status == model.StatusCompleted {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(sessions)) * 100))
}

// CalendarMap assigns each calendar day of the given month the status of its
// best session, keyed "YYYY-MM-DD". Priority per day:
// in_progress > completed > early > missed.
func CalendarMap(sessions []model.FastingSession, year int, month time.Month) map[string]string {
	days := make(map[string]string)
	for _, session := range sessions {
		started := session.StartedAt.Local()
		if started.Year() != year || started.Month() != month {
			continue
		}
		key := started.Format("2006-01-02")
		if current, ok := days[key]; ok && calendarPriority[current] >= calendarPriority[session.Status] {
			continue
		}
		days[key] = session.Status
	}
	return days
}

// MonthDaysTracked counts distinct calendar days in the month with at least
// one session.
func MonthDaysTracked(sessions []model.FastingSession, year int, month time.Month) int {
	return len(CalendarMap(sessions, year, month))
}
