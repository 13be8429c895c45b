package scoring

import (
	"math"
	"sort"
	"strings"
)

// MundaneAssessment is the per-item result of the mundane suppressor.
// Intensity grows with the amount of generic commercial/touristic vocabulary
// in the text, saturating at 1.
type MundaneAssessment struct {
	Intensity       float64  `json:"intensity"`
	MatchedPatterns []string `json:"matched_patterns,omitempty"`
}

// assessMundane scans the lowercased text against the mundane vocabulary.
// Computed once per item and consumed by every detector.
func assessMundane(lower string, lib Library, cfg MundaneConfig) MundaneAssessment {
	var matched []string
	for _, p := range lib.Mundane {
		if strings.Contains(lower, p) {
			matched = append(matched, p)
		}
	}
	sort.Strings(matched)
	intensity := math.Min(1, float64(len(matched))/float64(cfg.Saturation))
	return MundaneAssessment{Intensity: intensity, MatchedPatterns: matched}
}

// applyMundaneCap clamps a detector's raw score when the text is dominated by
// mundane vocabulary. This keeps generic commercial text from scoring highly
// through incidental keyword overlap.
func applyMundaneCap(raw float64, a MundaneAssessment, cfg MundaneConfig) float64 {
	if a.Intensity <= cfg.CapThreshold {
		return raw
	}
	limit := math.Min(cfg.ScoreCap, cfg.BaseCap*(1-a.Intensity))
	if limit < 0 {
		limit = 0
	}
	return math.Min(raw, limit)
}
