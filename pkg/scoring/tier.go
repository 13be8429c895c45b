package scoring

import (
	"encoding/json"
	"fmt"
)

// Tier is the ordered quality classification of scored content.
// Higher values are better.
type Tier int

const (
	TierMundane Tier = iota
	TierAverage
	TierGood
	TierVeryGood
	TierExceptional
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierExceptional:
		return "exceptional"
	case TierVeryGood:
		return "very_good"
	case TierGood:
		return "good"
	case TierAverage:
		return "average"
	default:
		return "mundane"
	}
}

// MarshalJSON encodes the tier as its name.
func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a tier from its name.
func (t *Tier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "exceptional":
		*t = TierExceptional
	case "very_good":
		*t = TierVeryGood
	case "good":
		*t = TierGood
	case "average":
		*t = TierAverage
	case "mundane":
		*t = TierMundane
	default:
		return fmt.Errorf("unknown tier %q", s)
	}
	return nil
}

// TierThresholds holds the cut points that map a calibrated score to a tier.
// Cut points must be strictly decreasing from Exceptional to Average; they
// are calibrated against a labeled reference set and supplied as
// configuration.
type TierThresholds struct {
	Exceptional float64 `yaml:"exceptional" json:"exceptional"`
	VeryGood    float64 `yaml:"very_good" json:"very_good"`
	Good        float64 `yaml:"good" json:"good"`
	Average     float64 `yaml:"average" json:"average"`
}

// Validate checks that the cut points are strictly decreasing and
// non-negative.
func (t TierThresholds) Validate() error {
	if t.Exceptional <= t.VeryGood {
		return fmt.Errorf("tier thresholds: exceptional (%.2f) must exceed very_good (%.2f)", t.Exceptional, t.VeryGood)
	}
	if t.VeryGood <= t.Good {
		return fmt.Errorf("tier thresholds: very_good (%.2f) must exceed good (%.2f)", t.VeryGood, t.Good)
	}
	if t.Good <= t.Average {
		return fmt.Errorf("tier thresholds: good (%.2f) must exceed average (%.2f)", t.Good, t.Average)
	}
	if t.Average < 0 {
		return fmt.Errorf("tier thresholds: average (%.2f) must not be negative", t.Average)
	}
	return nil
}

// Classify maps a calibrated score to a tier, highest threshold first.
func (t TierThresholds) Classify(score float64) Tier {
	switch {
	case score >= t.Exceptional:
		return TierExceptional
	case score >= t.VeryGood:
		return TierVeryGood
	case score >= t.Good:
		return TierGood
	case score >= t.Average:
		return TierAverage
	default:
		return TierMundane
	}
}
