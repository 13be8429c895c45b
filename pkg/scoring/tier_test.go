package scoring

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTierOrdering(t *testing.T) {
	require.True(t, TierExceptional > TierVeryGood)
	require.True(t, TierVeryGood > TierGood)
	require.True(t, TierGood > TierAverage)
	require.True(t, TierAverage > TierMundane)
}

func TestTierThresholdsClassify(t *testing.T) {
	th := TierThresholds{Exceptional: 6.0, VeryGood: 3.5, Good: 1.8, Average: 0.8}

	tests := []struct {
		name  string
		score float64
		want  Tier
	}{
		{"above exceptional", 7.2, TierExceptional},
		{"exact exceptional boundary", 6.0, TierExceptional},
		{"very good band", 4.0, TierVeryGood},
		{"exact very good boundary", 3.5, TierVeryGood},
		{"good band", 2.0, TierGood},
		{"average band", 1.0, TierAverage},
		{"below average", 0.5, TierMundane},
		{"zero", 0, TierMundane},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, th.Classify(tt.score))
		})
	}
}

func TestTierThresholdsValidate(t *testing.T) {
	valid := TierThresholds{Exceptional: 6, VeryGood: 3.5, Good: 1.8, Average: 0.8}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		th   TierThresholds
	}{
		{"exceptional below very_good", TierThresholds{Exceptional: 3, VeryGood: 3.5, Good: 1.8, Average: 0.8}},
		{"equal cut points", TierThresholds{Exceptional: 6, VeryGood: 6, Good: 1.8, Average: 0.8}},
		{"very_good below good", TierThresholds{Exceptional: 6, VeryGood: 1, Good: 1.8, Average: 0.8}},
		{"good below average", TierThresholds{Exceptional: 6, VeryGood: 3.5, Good: 0.5, Average: 0.8}},
		{"negative average", TierThresholds{Exceptional: 6, VeryGood: 3.5, Good: 1.8, Average: -0.1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.th.Validate())
		})
	}
}

func TestTierJSONRoundTrip(t *testing.T) {
	for _, tier := range []Tier{TierMundane, TierAverage, TierGood, TierVeryGood, TierExceptional} {
		data, err := json.Marshal(tier)
		require.NoError(t, err)

		var back Tier
		require.NoError(t, json.Unmarshal(data, &back))
		require.Equal(t, tier, back)
	}

	var bad Tier
	require.Error(t, json.Unmarshal([]byte(`"legendary"`), &bad))
}
