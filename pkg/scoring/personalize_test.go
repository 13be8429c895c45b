package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToleranceBucket(t *testing.T) {
	require.Equal(t, toleranceHigh, toleranceBucket(5))
	require.Equal(t, toleranceHigh, toleranceBucket(4))
	require.Equal(t, toleranceHigh, toleranceBucket(3))
	require.Equal(t, toleranceBalanced, toleranceBucket(2))
	require.Equal(t, toleranceLow, toleranceBucket(1))
	require.Equal(t, toleranceLow, toleranceBucket(0))
}

func TestPersonalize(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name      string
		score     float64
		tier      Tier
		tolerance int
		wantScore float64
	}{
		{"high tolerance on exceptional tier", 6.5, TierExceptional, 4, 6.5 * 1.2},
		{"high tolerance on lower tier", 4.0, TierVeryGood, 3, 4.0 * 1.1},
		{"balanced is identity", 4.0, TierVeryGood, 2, 4.0},
		{"low tolerance dampens", 4.0, TierVeryGood, 1, 4.0 * 0.8},
		{"low tolerance on exceptional", 6.5, TierExceptional, 0, 6.5 * 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, tier := personalize(tt.score, tt.tier, Profile{SurpriseTolerance: tt.tolerance}, cfg.Personal, cfg.Thresholds)
			require.InDelta(t, tt.wantScore, score, 1e-9)
			// The tier is always recomputed from the adjusted score.
			require.Equal(t, cfg.Thresholds.Classify(score), tier)
		})
	}
}

func TestPersonalizeCanChangeTier(t *testing.T) {
	cfg := DefaultConfig()

	// 3.3 sits just under the VeryGood cut of 3.5; a high-tolerance boost
	// crosses it, a low-tolerance damping drops it into Good.
	score, tier := personalize(3.3, TierGood, Profile{SurpriseTolerance: 4}, cfg.Personal, cfg.Thresholds)
	require.InDelta(t, 3.63, score, 1e-9)
	require.Equal(t, TierVeryGood, tier)

	score, tier = personalize(3.3, TierGood, Profile{SurpriseTolerance: 0}, cfg.Personal, cfg.Thresholds)
	require.InDelta(t, 2.64, score, 1e-9)
	require.Equal(t, TierGood, tier)
}
