package schedule

import (
	"context"
	"sync"
	"time"

	"fasting/backend/internal/clock"
	"fasting/backend/internal/model"
)

// DefaultTickInterval is the cadence at which the phase is re-evaluated.
const DefaultTickInterval = time.Second

// Ticker re-evaluates the phase for one schedule on a fixed cadence and
// publishes the latest state. A ticker is bound to a single subscriber (an
// open stream); tearing down the subscriber tears down the timer with it.
type Ticker struct {
	settings model.ScheduleSettings
	clock    clock.Clock
	interval time.Duration

	states   chan model.PhaseState
	stopOnce sync.Once
	stopped  chan struct{}
}

func NewTicker(settings model.ScheduleSettings, clk clock.Clock) *Ticker {
	return newTicker(settings, clk, DefaultTickInterval)
}

func newTicker(settings model.ScheduleSettings, clk clock.Clock, interval time.Duration) *Ticker {
	return &Ticker{
		settings: settings,
		clock:    clk,
		interval: interval,
		states:   make(chan model.PhaseState, 1),
		stopped:  make(chan struct{}),
	}
}

// Run evaluates once immediately, then on every tick until ctx is cancelled
// or Stop is called. The states channel is closed on return. Run returns an
// error only if the settings cannot be evaluated at all.
func (t *Ticker) Run(ctx context.Context) error {
	defer close(t.states)

	state, err := Evaluate(t.settings, t.clock.Now())
	if err != nil {
		return err
	}
	t.publish(state)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.stopped:
			return nil
		case <-ticker.C:
			state, err := Evaluate(t.settings, t.clock.Now())
			if err != nil {
				return err
			}
			t.publish(state)
		}
	}
}

// States delivers the most recent phase state. Slow consumers only ever see
// the latest value; intermediate ticks are dropped.
func (t *Ticker) States() <-chan model.PhaseState {
	return t.states
}

// Stop terminates Run. Safe to call more than once.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopped)
	})
}

func (t *Ticker) publish(state model.PhaseState) {
	for {
		select {
		case t.states <- state:
			return
		default:
			select {
			case <-t.states:
			default:
			}
		}
	}
}
