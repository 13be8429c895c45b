package scoring

import (
	"fmt"
	"time"
)

// MethodConfig holds the calibration constants for one method. Weights
// deliberately sum to less than 1 across the ensemble; GlobalScale in Config
// compensates. Multipliers correct for methods that fire rarely-but-strongly
// versus often-but-weakly. Qualification thresholds set the per-method bar
// for the cross-method validation and bonus stages.
type MethodConfig struct {
	Weight                 float64 `yaml:"weight" json:"weight"`
	Multiplier             float64 `yaml:"multiplier" json:"multiplier"`
	QualificationThreshold float64 `yaml:"qualification_threshold" json:"qualification_threshold"`
}

// MundaneConfig controls suppression of generic commercial/touristic text.
// When intensity exceeds CapThreshold, detector raw scores are clamped to
// min(ScoreCap, BaseCap*(1-intensity)).
type MundaneConfig struct {
	CapThreshold float64 `yaml:"cap_threshold" json:"cap_threshold"`
	ScoreCap     float64 `yaml:"score_cap" json:"score_cap"`
	BaseCap      float64 `yaml:"base_cap" json:"base_cap"`
	// Saturation is the matched-pattern count at which intensity reaches 1.
	Saturation int `yaml:"saturation" json:"saturation"`
}

// ExceptionalConfig controls the exceptional-signal multiplier, keyed on how
// many of the five exceptional phrase categories appear in the text.
type ExceptionalConfig struct {
	HighCount      int     `yaml:"high_count" json:"high_count"`
	HighMultiplier float64 `yaml:"high_multiplier" json:"high_multiplier"`
	MidCount       int     `yaml:"mid_count" json:"mid_count"`
	MidMultiplier  float64 `yaml:"mid_multiplier" json:"mid_multiplier"`
}

// ValidationConfig controls the cross-method validation multiplier, keyed on
// how many methods qualified.
type ValidationConfig struct {
	StrongCount      int     `yaml:"strong_count" json:"strong_count"`
	StrongMultiplier float64 `yaml:"strong_multiplier" json:"strong_multiplier"`
	PairMultiplier   float64 `yaml:"pair_multiplier" json:"pair_multiplier"`
}

// SynergyConfig holds the additive bonus fractions for 2, 3, and 4-or-more
// qualified methods.
type SynergyConfig struct {
	Two      float64 `yaml:"two" json:"two"`
	Three    float64 `yaml:"three" json:"three"`
	FourPlus float64 `yaml:"four_plus" json:"four_plus"`
}

// DiversityRule grants a bonus when First qualifies together with any method
// in Second.
type DiversityRule struct {
	First  Method   `yaml:"first" json:"first"`
	Second []Method `yaml:"second" json:"second"`
	Bonus  float64  `yaml:"bonus" json:"bonus"`
}

// DiversityConfig holds the complementary-pair bonus rules and the ceiling on
// their sum.
type DiversityConfig struct {
	Rules []DiversityRule `yaml:"rules" json:"rules"`
	Cap   float64         `yaml:"cap" json:"cap"`
}

// PersonalizationConfig holds the per-bucket score multipliers and the
// profile lookup budget.
type PersonalizationConfig struct {
	HighExceptional float64       `yaml:"high_exceptional" json:"high_exceptional"`
	High            float64       `yaml:"high" json:"high"`
	Low             float64       `yaml:"low" json:"low"`
	LookupTimeout   time.Duration `yaml:"-" json:"lookup_timeout"`
}

// Config is the full tuning bundle for an engine. All values are calibration
// data, not code: recalibrating against a new content distribution changes a
// Config, never detector logic.
type Config struct {
	GlobalScale float64                 `yaml:"global_scale" json:"global_scale"`
	Methods     map[Method]MethodConfig `yaml:"methods" json:"methods"`
	Thresholds  TierThresholds          `yaml:"thresholds" json:"thresholds"`
	Mundane     MundaneConfig           `yaml:"mundane" json:"mundane"`
	Exceptional ExceptionalConfig       `yaml:"exceptional" json:"exceptional"`
	Validation  ValidationConfig        `yaml:"validation" json:"validation"`
	Synergy     SynergyConfig           `yaml:"synergy" json:"synergy"`
	Diversity   DiversityConfig         `yaml:"diversity" json:"diversity"`
	Personal    PersonalizationConfig   `yaml:"personalization" json:"personalization"`
	// CategorySaturation is the per-category phrase hit count at which a
	// category scores full credit.
	CategorySaturation int `yaml:"category_saturation" json:"category_saturation"`
}

// DefaultConfig returns the reference calibration. The values were tuned
// against a labeled reference set; treat them as a starting point, not an
// optimum, for new content distributions.
func DefaultConfig() Config {
	return Config{
		GlobalScale: 3.5,
		Methods: map[Method]MethodConfig{
			MethodImpossibility: {Weight: 0.045, Multiplier: 1.3, QualificationThreshold: 2.5},
			MethodUniqueness:    {Weight: 0.040, Multiplier: 1.2, QualificationThreshold: 2.5},
			MethodTemporal:      {Weight: 0.030, Multiplier: 1.2, QualificationThreshold: 2.0},
			MethodCultural:      {Weight: 0.030, Multiplier: 1.1, QualificationThreshold: 2.0},
			MethodOddity:        {Weight: 0.040, Multiplier: 1.0, QualificationThreshold: 2.5},
			MethodHistorical:    {Weight: 0.030, Multiplier: 1.0, QualificationThreshold: 2.5},
			MethodGeographic:    {Weight: 0.025, Multiplier: 1.1, QualificationThreshold: 2.0},
			MethodLinguistic:    {Weight: 0.025, Multiplier: 1.3, QualificationThreshold: 1.5},
			MethodCrossCultural: {Weight: 0.020, Multiplier: 1.4, QualificationThreshold: 1.5},
		},
		Thresholds: TierThresholds{
			Exceptional: 6.0,
			VeryGood:    3.5,
			Good:        1.8,
			Average:     0.8,
		},
		Mundane: MundaneConfig{
			CapThreshold: 0.7,
			ScoreCap:     2.0,
			BaseCap:      3.0,
			Saturation:   5,
		},
		Exceptional: ExceptionalConfig{
			HighCount:      4,
			HighMultiplier: 1.5,
			MidCount:       3,
			MidMultiplier:  1.3,
		},
		Validation: ValidationConfig{
			StrongCount:      3,
			StrongMultiplier: 1.15,
			PairMultiplier:   1.10,
		},
		Synergy: SynergyConfig{
			Two:      0.05,
			Three:    0.10,
			FourPlus: 0.15,
		},
		Diversity: DiversityConfig{
			Rules: []DiversityRule{
				{First: MethodHistorical, Second: []Method{MethodCultural}, Bonus: 0.08},
				{First: MethodOddity, Second: []Method{MethodHistorical, MethodCultural}, Bonus: 0.05},
				{First: MethodImpossibility, Second: []Method{MethodUniqueness}, Bonus: 0.05},
			},
			Cap: 0.13,
		},
		Personal: PersonalizationConfig{
			HighExceptional: 1.2,
			High:            1.1,
			Low:             0.8,
			LookupTimeout:   50 * time.Millisecond,
		},
		CategorySaturation: 2,
	}
}

// Validate checks the configuration. Any violation is fatal at engine
// construction: the engine refuses to start rather than misclassify.
func (c Config) Validate() error {
	if c.GlobalScale <= 0 {
		return fmt.Errorf("config: global_scale must be positive, got %.3f", c.GlobalScale)
	}
	for _, m := range Methods() {
		mc, ok := c.Methods[m]
		if !ok {
			return fmt.Errorf("config: missing method config for %s", m)
		}
		if mc.Weight <= 0 || mc.Weight > 1 {
			return fmt.Errorf("config: method %s weight %.3f outside (0,1]", m, mc.Weight)
		}
		if mc.Multiplier <= 0 {
			return fmt.Errorf("config: method %s multiplier %.3f must be positive", m, mc.Multiplier)
		}
		if mc.QualificationThreshold < 0 {
			return fmt.Errorf("config: method %s qualification threshold %.3f must not be negative", m, mc.QualificationThreshold)
		}
	}
	for m := range c.Methods {
		if _, ok := rationale[m]; !ok {
			return fmt.Errorf("config: unknown method %s", m)
		}
	}
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if c.Mundane.CapThreshold <= 0 || c.Mundane.CapThreshold > 1 {
		return fmt.Errorf("config: mundane cap_threshold %.3f outside (0,1]", c.Mundane.CapThreshold)
	}
	if c.Mundane.ScoreCap < 0 || c.Mundane.BaseCap < 0 {
		return fmt.Errorf("config: mundane caps must not be negative")
	}
	if c.Mundane.Saturation <= 0 {
		return fmt.Errorf("config: mundane saturation must be positive, got %d", c.Mundane.Saturation)
	}
	if c.Exceptional.HighCount <= c.Exceptional.MidCount {
		return fmt.Errorf("config: exceptional high_count (%d) must exceed mid_count (%d)", c.Exceptional.HighCount, c.Exceptional.MidCount)
	}
	if c.Exceptional.HighMultiplier < 1 || c.Exceptional.MidMultiplier < 1 {
		return fmt.Errorf("config: exceptional multipliers must be >= 1")
	}
	if c.Validation.StrongCount <= 2 {
		return fmt.Errorf("config: validation strong_count must exceed 2, got %d", c.Validation.StrongCount)
	}
	if c.Validation.StrongMultiplier < 1 || c.Validation.PairMultiplier < 1 {
		return fmt.Errorf("config: validation multipliers must be >= 1")
	}
	if c.Synergy.Two < 0 || c.Synergy.Three < 0 || c.Synergy.FourPlus < 0 {
		return fmt.Errorf("config: synergy bonuses must not be negative")
	}
	if c.Diversity.Cap < 0 {
		return fmt.Errorf("config: diversity cap must not be negative")
	}
	for _, r := range c.Diversity.Rules {
		if r.Bonus < 0 {
			return fmt.Errorf("config: diversity bonus for %s must not be negative", r.First)
		}
		if _, ok := c.Methods[r.First]; !ok {
			return fmt.Errorf("config: diversity rule references unknown method %s", r.First)
		}
		for _, s := range r.Second {
			if _, ok := c.Methods[s]; !ok {
				return fmt.Errorf("config: diversity rule references unknown method %s", s)
			}
		}
	}
	if c.Personal.HighExceptional < 1 || c.Personal.High < 1 {
		return fmt.Errorf("config: high-tolerance multipliers must be >= 1")
	}
	if c.Personal.Low <= 0 || c.Personal.Low > 1 {
		return fmt.Errorf("config: low-tolerance multiplier %.3f outside (0,1]", c.Personal.Low)
	}
	if c.Personal.LookupTimeout <= 0 {
		return fmt.Errorf("config: personalization lookup_timeout must be positive")
	}
	if c.CategorySaturation <= 0 {
		return fmt.Errorf("config: category_saturation must be positive, got %d", c.CategorySaturation)
	}
	return nil
}
