package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlan(t *testing.T) {
	plan, err := ParsePlan("16:8")
	require.NoError(t, err)
	assert.Equal(t, "16:8", plan.Label)
	assert.Equal(t, 16, plan.FastingHours)
	assert.Equal(t, 8, plan.EatingHours)
	assert.True(t, plan.PlanCoversDay())

	plan, err = ParsePlan(" 20:4 ")
	require.NoError(t, err)
	assert.Equal(t, "20:4", plan.Label)

	plan, err = ParsePlan("18:4")
	require.NoError(t, err)
	assert.False(t, plan.PlanCoversDay())

	for _, label := range []string{"", "16", "16:8:1", "sixteen:8", "16:eight", "0:24", "-1:8", "24:0"} {
		_, err := ParsePlan(label)
		assert.Error(t, err, "plan %q should be rejected", label)
	}
}

func TestClassifyOutcomeBoundaries(t *testing.T) {
	tests := []struct {
		rawPercent float64
		want       string
	}{
		{rawPercent: 106.25, want: StatusCompleted},
		{rawPercent: 100, want: StatusCompleted},
		{rawPercent: 99.999, want: StatusEarly},
		{rawPercent: 50, want: StatusEarly},
		{rawPercent: 49.999, want: StatusMissed},
		{rawPercent: 0, want: StatusMissed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyOutcome(tt.rawPercent), "raw percent %v", tt.rawPercent)
	}
}
