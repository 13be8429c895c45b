package scoring

import "context"

// Profile is the listener preference the engine reads: a declared surprise
// tolerance in [0,5].
type Profile struct {
	SurpriseTolerance int `json:"surprise_tolerance"`
}

// ProfileSource looks up a listener profile. Implementations belong to the
// preference-management collaborator; the engine only requires a bounded
// context-aware read. Retry policy, if any, lives in the implementation.
type ProfileSource interface {
	Profile(ctx context.Context, listenerID string) (Profile, error)
}

// Tolerance buckets.
const (
	toleranceHigh     = "high"
	toleranceBalanced = "balanced"
	toleranceLow      = "low"
)

// toleranceBucket maps a surprise tolerance to its bucket.
func toleranceBucket(tolerance int) string {
	switch {
	case tolerance >= 3:
		return toleranceHigh
	case tolerance == 2:
		return toleranceBalanced
	default:
		return toleranceLow
	}
}

// personalize rescales a calibrated score for a listener and re-classifies
// the adjusted score through the same thresholds. The tier is always
// recomputed from the adjusted score, never patched.
func personalize(calibrated float64, tier Tier, p Profile, cfg PersonalizationConfig, thresholds TierThresholds) (float64, Tier) {
	mult := 1.0
	switch toleranceBucket(p.SurpriseTolerance) {
	case toleranceHigh:
		if tier == TierExceptional {
			mult = cfg.HighExceptional
		} else {
			mult = cfg.High
		}
	case toleranceLow:
		mult = cfg.Low
	}
	adjusted := calibrated * mult
	return adjusted, thresholds.Classify(adjusted)
}
