package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// Terminal session outcomes plus the single live state.
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusEarly      = "early"
	StatusMissed     = "missed"

	PhaseFasting = "fasting"
	PhaseEating  = "eating"
)

const (
	// Classification thresholds on the raw completion percent.
	CompletedThresholdPercent = 100
	EarlyThresholdPercent     = 50
)

// FastingPlan is the decomposed form of a plan label such as "16:8".
type FastingPlan struct {
	Label        string `json:"label"`
	FastingHours int    `json:"fastingHours"`
	EatingHours  int    `json:"eatingHours"`
}

// ParsePlan decomposes a "F:E" label. It accepts any positive pair; callers
// that require the hours to cover a full day check PlanCoversDay separately.
func ParsePlan(label string) (FastingPlan, error) {
	parts := strings.Split(strings.TrimSpace(label), ":")
	if len(parts) != 2 {
		return FastingPlan{}, fmt.Errorf("plan %q: expected fasting:eating hours", label)
	}
	fasting, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return FastingPlan{}, fmt.Errorf("plan %q: fasting hours: %w", label, err)
	}
	eating, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return FastingPlan{}, fmt.Errorf("plan %q: eating hours: %w", label, err)
	}
	if fasting <= 0 || eating <= 0 || eating > 23 {
		return FastingPlan{}, fmt.Errorf("plan %q: hours out of range", label)
	}
	return FastingPlan{
		Label:        fmt.Sprintf("%d:%d", fasting, eating),
		FastingHours: fasting,
		EatingHours:  eating,
	}, nil
}

// PlanCoversDay reports whether the plan splits a whole 24-hour cycle.
func (p FastingPlan) PlanCoversDay() bool {
	return p.FastingHours+p.EatingHours == 24
}

// ScheduleSettings is the per-user fasting configuration. One record per
// user; saving replaces the whole record.
type ScheduleSettings struct {
	UserID            string      `json:"userId"`
	Plan              FastingPlan `json:"plan"`
	EatingWindowStart string      `json:"eatingWindowStart"`
	IsActive          bool        `json:"isActive"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// FastingSession is one tracked fasting attempt. It is written exactly
// twice: once on start and once on end.
type FastingSession struct {
	ID                string     `json:"id"`
	UserID            string     `json:"userId"`
	PlanLabel         string     `json:"planLabel"`
	TargetHours       int        `json:"targetHours"`
	StartedAt         time.Time  `json:"startedAt"`
	ScheduledEnd      time.Time  `json:"scheduledEnd"`
	EndedAt           *time.Time `json:"endedAt,omitempty"`
	ActualHours       *float64   `json:"actualHours,omitempty"`
	CompletionPercent *int       `json:"completionPercent,omitempty"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Terminal reports whether the session has reached a final outcome.
func (s *FastingSession) Terminal() bool {
	return s.Status != StatusInProgress
}

// PhaseState is a pure projection of the schedule onto an instant. It is
// never persisted.
type PhaseState struct {
	Phase            string  `json:"phase"`
	SecondsRemaining int     `json:"secondsRemaining"`
	ProgressPercent  float64 `json:"progressPercent"`
}

// ClassifyOutcome maps the raw (unclamped) completion percent of an ended
// session to its terminal status. The lower bounds are inclusive.
func ClassifyOutcome(rawPercent float64) string {
	switch {
	case rawPercent >= CompletedThresholdPercent:
		return StatusCompleted
	case rawPercent >= EarlyThresholdPercent:
		return StatusEarly
	default:
		return StatusMissed
	}
}
