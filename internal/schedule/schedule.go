// Package schedule converts a user's fasting configuration into absolute
// eating-window boundaries and projects the active phase for an instant.
// Everything here is pure arithmetic on the supplied instant.
package schedule

import (
	"fmt"
	"time"

	"fasting/backend/internal/model"
)

const secondsPerDay = 24 * 60 * 60

// Window holds the eating window anchored to a concrete calendar day.
type Window struct {
	EatingStart time.Time
	EatingEnd   time.Time
}

// EatingDuration is the length of the eating window.
func (w Window) EatingDuration() time.Duration {
	return w.EatingEnd.Sub(w.EatingStart)
}

// FastingDuration is the complement of the eating window within one day.
func (w Window) FastingDuration() time.Duration {
	return secondsPerDay*time.Second - w.EatingDuration()
}

// ParseWindowStart validates an "HH:MM" time-of-day string. Malformed input
// is an error, never silently defaulted.
func ParseWindowStart(raw string) (hour, minute int, err error) {
	t, parseErr := time.Parse("15:04", raw)
	if parseErr != nil {
		return 0, 0, fmt.Errorf("eating window start %q: %w", raw, parseErr)
	}
	return t.Hour(), t.Minute(), nil
}

// WindowFor anchors the settings' eating window to now's calendar day in
// now's location.
func WindowFor(settings model.ScheduleSettings, now time.Time) (Window, error) {
	hour, minute, err := ParseWindowStart(settings.EatingWindowStart)
	if err != nil {
		return Window{}, err
	}
	if settings.Plan.EatingHours < 1 || settings.Plan.EatingHours > 23 {
		return Window{}, fmt.Errorf("plan %q: eating hours %d out of range", settings.Plan.Label, settings.Plan.EatingHours)
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	return Window{
		EatingStart: start,
		EatingEnd:   start.Add(time.Duration(settings.Plan.EatingHours) * time.Hour),
	}, nil
}

// Evaluate determines the active phase and its countdown at now. It is
// side-effect-free: the same settings and instant always produce the same
// state.
func Evaluate(settings model.ScheduleSettings, now time.Time) (model.PhaseState, error) {
	window, err := WindowFor(settings, now)
	if err != nil {
		return model.PhaseState{}, err
	}

	if !now.Before(window.EatingStart) && now.Before(window.EatingEnd) {
		remaining := window.EatingEnd.Sub(now)
		return phaseState(model.PhaseEating, remaining, window.EatingDuration()), nil
	}

	// Fasting runs from eatingEnd to the next day's eatingStart. Before
	// today's window the tail of that span is what remains.
	fastingEnd := window.EatingStart
	if !now.Before(window.EatingEnd) {
		fastingEnd = window.EatingStart.Add(secondsPerDay * time.Second)
	}
	remaining := fastingEnd.Sub(now)
	return phaseState(model.PhaseFasting, remaining, window.FastingDuration()), nil
}

func phaseState(phase string, remaining, total time.Duration) model.PhaseState {
	if remaining < 0 {
		remaining = 0
	}
	progress := float64(total-remaining) / float64(total) * 100
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	return model.PhaseState{
		Phase:            phase,
		SecondsRemaining: int(remaining / time.Second),
		ProgressPercent:  progress,
	}
}
