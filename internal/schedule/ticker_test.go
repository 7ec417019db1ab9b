package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fasting/backend/internal/clock"
	"fasting/backend/internal/model"
)

func TestTickerPublishesAndStops(t *testing.T) {
	clk := clock.NewFixed(at(14, 30))
	ticker := newTicker(sixteenEight("12:00"), clk, time.Millisecond)

	done := make(chan error, 1)
	go func() {
		done <- ticker.Run(context.Background())
	}()

	select {
	case state := <-ticker.States():
		assert.Equal(t, model.PhaseEating, state.Phase)
		assert.Equal(t, 19800, state.SecondsRemaining)
	case <-time.After(2 * time.Second):
		t.Fatal("no phase state published")
	}

	clk.Advance(30 * time.Minute)
	deadline := time.After(2 * time.Second)
	for {
		var state model.PhaseState
		var ok bool
		select {
		case state, ok = <-ticker.States():
			require.True(t, ok)
		case <-deadline:
			t.Fatal("ticker never observed the advanced clock")
		}
		if state.SecondsRemaining == 18000 {
			break
		}
	}

	ticker.Stop()
	ticker.Stop() // idempotent

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ticker did not stop")
	}

	// Drain any buffered state; the range terminates because Run closed
	// the channel.
	for range ticker.States() {
	}
}

func TestTickerHonorsContextCancellation(t *testing.T) {
	clk := clock.NewFixed(at(9, 0))
	ticker := newTicker(sixteenEight("12:00"), clk, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ticker.Run(ctx)
	}()

	select {
	case state := <-ticker.States():
		assert.Equal(t, model.PhaseFasting, state.Phase)
	case <-time.After(2 * time.Second):
		t.Fatal("no phase state published")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ticker survived context cancellation")
	}
}

func TestTickerRejectsBrokenSettings(t *testing.T) {
	clk := clock.NewFixed(at(9, 0))
	ticker := newTicker(sixteenEight("not-a-time"), clk, time.Millisecond)

	err := ticker.Run(context.Background())
	require.Error(t, err)
}
