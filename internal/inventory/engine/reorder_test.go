package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateReorder(t *testing.T) {
	policy := DefaultReorderPolicy()

	tests := []struct {
		name         string
		reorderLevel int
		quantity     int
		want         ReorderEvaluation
	}{
		{
			name:         "above reorder level",
			reorderLevel: 20,
			quantity:     50,
			want:         ReorderEvaluation{},
		},
		{
			name:         "exactly at reorder level",
			reorderLevel: 20,
			quantity:     20,
			want:         ReorderEvaluation{},
		},
		{
			name:         "just below is a warning",
			reorderLevel: 20,
			quantity:     19,
			want:         ReorderEvaluation{BelowReorder: true, Urgency: TierWarning},
		},
		{
			name:         "at half the level is still a warning",
			reorderLevel: 20,
			quantity:     10,
			want:         ReorderEvaluation{BelowReorder: true, Urgency: TierWarning},
		},
		{
			name:         "under half the level is critical",
			reorderLevel: 20,
			quantity:     9,
			want:         ReorderEvaluation{BelowReorder: true, Urgency: TierCritical},
		},
		{
			name:         "zero stock is critical",
			reorderLevel: 20,
			quantity:     0,
			want:         ReorderEvaluation{BelowReorder: true, Urgency: TierCritical},
		},
		{
			name:         "negative aggregate is critical",
			reorderLevel: 20,
			quantity:     -3,
			want:         ReorderEvaluation{BelowReorder: true, Urgency: TierCritical},
		},
		{
			name:         "zero reorder level never alerts",
			reorderLevel: 0,
			quantity:     0,
			want:         ReorderEvaluation{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateReorder(tt.reorderLevel, tt.quantity, policy))
		})
	}
}

// Urgency must never relax as the quantity drops.
func TestEvaluateReorderMonotonic(t *testing.T) {
	policy := DefaultReorderPolicy()
	rank := map[Tier]int{TierNone: 0, TierWarning: 1, TierCritical: 2}

	const level = 37
	prev := TierNone
	for qty := level; qty >= -5; qty-- {
		eval := EvaluateReorder(level, qty, policy)
		assert.GreaterOrEqual(t, rank[eval.Urgency], rank[prev],
			"urgency relaxed at quantity %d", qty)
		prev = eval.Urgency
	}
}

func TestEvaluateReorderCustomFraction(t *testing.T) {
	policy := ReorderPolicy{CriticalFraction: 0.25}

	assert.Equal(t, TierWarning, EvaluateReorder(100, 30, policy).Urgency)
	assert.Equal(t, TierCritical, EvaluateReorder(100, 24, policy).Urgency)
}
