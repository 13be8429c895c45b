package scoring

import (
	"fmt"
	"math"
	"sort"
)

// DetectorResult is one method's verdict on a piece of text. RawScore is in
// [0,10]; MatchedCategories lists the signal categories that fired, sorted
// for deterministic output.
type DetectorResult struct {
	Method            Method   `json:"method"`
	RawScore          float64  `json:"raw_score"`
	MatchedCategories []string `json:"matched_categories,omitempty"`
}

// zeroResult is the degraded verdict used when a detector faults.
func zeroResult(m Method) DetectorResult {
	return DetectorResult{Method: m, RawScore: 0}
}

// runDetector evaluates one method's signal categories against the
// lowercased text. Per-category credit is the phrase hit count saturating at
// saturation; category credits combine through their weights into a 0-10 raw
// score, which is then subject to the mundane cap.
//
// Detectors are isolated: any fault inside one degrades to a zero result via
// the recover in scoreDetector, never aborting the ensemble.
func runDetector(m Method, lower string, cats []SignalCategory, saturation int, mundane MundaneAssessment, mcfg MundaneConfig) (DetectorResult, error) {
	var weightSum, credit float64
	var matched []string

	for _, c := range cats {
		hits, err := c.hits(lower)
		if err != nil {
			return zeroResult(m), fmt.Errorf("method %s: %w", m, err)
		}
		weightSum += c.Weight
		if hits == 0 {
			continue
		}
		frac := math.Min(1, float64(hits)/float64(saturation))
		credit += c.Weight * frac
		matched = append(matched, c.Name)
	}

	if weightSum == 0 {
		return zeroResult(m), fmt.Errorf("method %s: zero total category weight", m)
	}

	raw := 10 * credit / weightSum
	if raw > 10 {
		raw = 10
	}
	raw = applyMundaneCap(raw, mundane, mcfg)

	sort.Strings(matched)
	return DetectorResult{Method: m, RawScore: raw, MatchedCategories: matched}, nil
}
