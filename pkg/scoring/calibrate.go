package scoring

import (
	"sort"
	"strings"
)

// Breakdown records every intermediate of the calibration pipeline. It is
// fully reconstructible from the input text and configuration; downstream
// calibration tooling relies on that.
type Breakdown struct {
	PerMethod             map[Method]DetectorResult `json:"per_method"`
	Mundane               MundaneAssessment         `json:"mundane"`
	ExceptionalCategories []string                  `json:"exceptional_categories,omitempty"`
	ExceptionalMultiplier float64                   `json:"exceptional_multiplier"`
	QualifiedMethods      []Method                  `json:"qualified_methods,omitempty"`
	ValidationMultiplier  float64                   `json:"validation_multiplier"`
	CalibratedPerMethod   map[Method]float64        `json:"calibrated_per_method"`
	BaseScore             float64                   `json:"base_score"`
	SynergyBonus          float64                   `json:"synergy_bonus"`
	DiversityBonus        float64                   `json:"diversity_bonus"`
	CalibratedScore       float64                   `json:"calibrated_score"`
}

// applyMethodMultipliers is stage 1: each raw score is scaled by its method's
// configured multiplier.
func applyMethodMultipliers(results map[Method]DetectorResult, methods map[Method]MethodConfig) map[Method]float64 {
	scaled := make(map[Method]float64, len(results))
	for m, r := range results {
		scaled[m] = r.RawScore * methods[m].Multiplier
	}
	return scaled
}

// exceptionalSignal is stage 2: independently of the nine methods, count how
// many of the five exceptional phrase categories appear in the text and pick
// the corresponding uniform multiplier.
func exceptionalSignal(lower string, lib Library, cfg ExceptionalConfig) ([]string, float64) {
	var present []string
	for _, name := range ExceptionalCategories() {
		for _, p := range lib.Exceptional[name] {
			if strings.Contains(lower, p) {
				present = append(present, name)
				break
			}
		}
	}
	mult := 1.0
	switch {
	case len(present) >= cfg.HighCount:
		mult = cfg.HighMultiplier
	case len(present) == cfg.MidCount:
		mult = cfg.MidMultiplier
	}
	return present, mult
}

// qualifiedMethods is the qualification census feeding stage 3 and the bonus
// stages: a method qualifies when its score at this point in the pipeline
// exceeds its own configured threshold. Returned in canonical method order.
func qualifiedMethods(scores map[Method]float64, methods map[Method]MethodConfig) []Method {
	var qualified []Method
	for _, m := range Methods() {
		if scores[m] > methods[m].QualificationThreshold {
			qualified = append(qualified, m)
		}
	}
	return qualified
}

// validationMultiplier is stage 3: agreement between independent methods is
// treated as cross-validation of the signal.
func validationMultiplier(qualified int, cfg ValidationConfig) float64 {
	switch {
	case qualified >= cfg.StrongCount:
		return cfg.StrongMultiplier
	case qualified == 2:
		return cfg.PairMultiplier
	default:
		return 1.0
	}
}

// reduce is stage 4: the weighted reduction into a single base score.
// GlobalScale compensates for ensemble weights that deliberately sum to less
// than 1. Commutative over methods.
func reduce(scores map[Method]float64, methods map[Method]MethodConfig, globalScale float64) float64 {
	var sum float64
	for m, s := range scores {
		sum += methods[m].Weight * s
	}
	return globalScale * sum
}

// synergyBonus is stage 5: an additive fraction of the base score rewarding
// multiple qualifying methods.
func synergyBonus(qualified int, cfg SynergyConfig) float64 {
	switch {
	case qualified >= 4:
		return cfg.FourPlus
	case qualified == 3:
		return cfg.Three
	case qualified == 2:
		return cfg.Two
	default:
		return 0
	}
}

// diversityBonus is stage 6: fixed additive bonuses for complementary
// qualifying method pairs, summed and capped to avoid runaway stacking.
func diversityBonus(qualified []Method, cfg DiversityConfig) float64 {
	set := make(map[Method]bool, len(qualified))
	for _, m := range qualified {
		set[m] = true
	}
	var bonus float64
	for _, r := range cfg.Rules {
		if !set[r.First] {
			continue
		}
		for _, s := range r.Second {
			if set[s] {
				bonus += r.Bonus
				break
			}
		}
	}
	if bonus > cfg.Cap {
		bonus = cfg.Cap
	}
	return bonus
}

// calibrate runs the full pipeline over the detector results and returns the
// complete breakdown.
func calibrate(lower string, results map[Method]DetectorResult, mundane MundaneAssessment, lib Library, cfg Config) Breakdown {
	scaled := applyMethodMultipliers(results, cfg.Methods)

	present, exceptional := exceptionalSignal(lower, lib, cfg.Exceptional)
	for m := range scaled {
		scaled[m] *= exceptional
	}

	qualified := qualifiedMethods(scaled, cfg.Methods)
	validation := validationMultiplier(len(qualified), cfg.Validation)
	for m := range scaled {
		scaled[m] *= validation
	}

	base := reduce(scaled, cfg.Methods, cfg.GlobalScale)
	synergy := synergyBonus(len(qualified), cfg.Synergy)
	diversity := diversityBonus(qualified, cfg.Diversity)
	calibrated := base * (1 + synergy + diversity)

	sort.Strings(present)
	return Breakdown{
		PerMethod:             results,
		Mundane:               mundane,
		ExceptionalCategories: present,
		ExceptionalMultiplier: exceptional,
		QualifiedMethods:      qualified,
		ValidationMultiplier:  validation,
		CalibratedPerMethod:   scaled,
		BaseScore:             base,
		SynergyBonus:          synergy,
		DiversityBonus:        diversity,
		CalibratedScore:       calibrated,
	}
}
