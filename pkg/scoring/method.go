package scoring

// Method identifies one of the nine independent detection methods.
type Method string

const (
	MethodImpossibility Method = "impossibility"
	MethodUniqueness    Method = "uniqueness"
	MethodTemporal      Method = "temporal_anomaly"
	MethodCultural      Method = "cultural_anomaly"
	MethodOddity        Method = "oddity"
	MethodHistorical    Method = "historical_peculiarity"
	MethodGeographic    Method = "geographic_rarity"
	MethodLinguistic    Method = "linguistic_anomaly"
	MethodCrossCultural Method = "cross_cultural_rarity"
)

// Methods returns all methods in their canonical order. The calibration
// reduction is commutative over methods, so this order never affects scores;
// it only fixes iteration order for deterministic output.
func Methods() []Method {
	return []Method{
		MethodImpossibility,
		MethodUniqueness,
		MethodTemporal,
		MethodCultural,
		MethodOddity,
		MethodHistorical,
		MethodGeographic,
		MethodLinguistic,
		MethodCrossCultural,
	}
}

// rationale is the short human-readable description of what each method
// looks for, used by the explanation builder.
var rationale = map[Method]string{
	MethodImpossibility: "claims that defy physical explanation",
	MethodUniqueness:    "one-of-a-kind and only-place claims",
	MethodTemporal:      "places out of step with their own time",
	MethodCultural:      "customs found nowhere else",
	MethodOddity:        "hidden, bizarre, or surreal character",
	MethodHistorical:    "a strange or improbable past",
	MethodGeographic:    "extreme or improbable geography",
	MethodLinguistic:    "linguistic rarities and naming oddities",
	MethodCrossCultural: "rarity across world cultures",
}
