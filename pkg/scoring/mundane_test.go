package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssessMundane(t *testing.T) {
	lib := DefaultLibrary()
	cfg := DefaultConfig().Mundane

	tests := []struct {
		name          string
		text          string
		wantIntensity float64
		wantMatches   int
	}{
		{"no mundane vocabulary", "an ancient stone circle in the forest", 0, 0},
		{"single match", "there is a gift shop by the entrance", 0.2, 1},
		{"saturated", "visit our shopping mall with hotels, restaurants, souvenirs and guided tours near the tourist attraction", 1, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := assessMundane(tt.text, lib, cfg)
			require.InDelta(t, tt.wantIntensity, a.Intensity, 1e-9)
			require.Len(t, a.MatchedPatterns, tt.wantMatches)
		})
	}
}

func TestApplyMundaneCap(t *testing.T) {
	cfg := MundaneConfig{CapThreshold: 0.7, ScoreCap: 2.0, BaseCap: 3.0, Saturation: 5}

	t.Run("below threshold leaves score untouched", func(t *testing.T) {
		a := MundaneAssessment{Intensity: 0.6}
		require.Equal(t, 8.0, applyMundaneCap(8.0, a, cfg))
	})

	t.Run("above threshold clamps to scaled cap", func(t *testing.T) {
		a := MundaneAssessment{Intensity: 0.8}
		// min(2.0, 3.0*(1-0.8)) = 0.6
		require.InDelta(t, 0.6, applyMundaneCap(8.0, a, cfg), 1e-9)
	})

	t.Run("full intensity zeroes the score", func(t *testing.T) {
		a := MundaneAssessment{Intensity: 1.0}
		require.Equal(t, 0.0, applyMundaneCap(8.0, a, cfg))
	})

	t.Run("score already under cap is kept", func(t *testing.T) {
		a := MundaneAssessment{Intensity: 0.8}
		require.InDelta(t, 0.3, applyMundaneCap(0.3, a, cfg), 1e-9)
	})
}
