package scoring

import (
	"fmt"
	"strings"
)

// SignalCategory is a named group of phrase matchers contributing a fraction
// of one detector's score. Matching is case-insensitive substring search;
// phrases must be stored lowercase.
type SignalCategory struct {
	Name    string   `yaml:"name" json:"name"`
	Weight  float64  `yaml:"weight" json:"weight"`
	Phrases []string `yaml:"phrases" json:"phrases"`
}

// hits counts how many of the category's phrases occur in the
// already-lowercased text.
func (c SignalCategory) hits(lower string) (int, error) {
	n := 0
	for _, p := range c.Phrases {
		if p == "" {
			return 0, fmt.Errorf("category %s: empty phrase", c.Name)
		}
		if strings.Contains(lower, p) {
			n++
		}
	}
	return n, nil
}

// Exceptional phrase category names. All five must be present in a library;
// the exceptional-signal multiplier counts how many distinct categories
// appear in the text.
const (
	ExceptionalImpossibility = "impossibility"
	ExceptionalUniqueness    = "absolute_uniqueness"
	ExceptionalMystery       = "mystery"
	ExceptionalSupernatural  = "supernatural"
	ExceptionalAnachronism   = "temporal_anachronism"
)

// ExceptionalCategories returns the five category names in canonical order.
func ExceptionalCategories() []string {
	return []string{
		ExceptionalImpossibility,
		ExceptionalUniqueness,
		ExceptionalMystery,
		ExceptionalSupernatural,
		ExceptionalAnachronism,
	}
}

// Library is a versioned pattern library: signal categories per method,
// exceptional phrase categories, and the mundane vocabulary. Libraries are
// immutable once handed to an engine; recalibration is a new library, not a
// mutation.
type Library struct {
	Version     string                      `json:"version"`
	Categories  map[Method][]SignalCategory `json:"categories"`
	Exceptional map[string][]string         `json:"exceptional"`
	Mundane     []string                    `json:"mundane"`
}

// Validate checks that every method has at least one category, category
// weights are positive, and all five exceptional categories exist.
func (l Library) Validate() error {
	for _, m := range Methods() {
		cats := l.Categories[m]
		if len(cats) == 0 {
			return fmt.Errorf("pattern library %s: no categories for method %s", l.Version, m)
		}
		for _, c := range cats {
			if c.Name == "" {
				return fmt.Errorf("pattern library %s: unnamed category in method %s", l.Version, m)
			}
			if c.Weight <= 0 {
				return fmt.Errorf("pattern library %s: category %s/%s has non-positive weight %.3f", l.Version, m, c.Name, c.Weight)
			}
			if len(c.Phrases) == 0 {
				return fmt.Errorf("pattern library %s: category %s/%s has no phrases", l.Version, m, c.Name)
			}
		}
	}
	for _, name := range ExceptionalCategories() {
		if len(l.Exceptional[name]) == 0 {
			return fmt.Errorf("pattern library %s: missing exceptional category %s", l.Version, name)
		}
	}
	if len(l.Mundane) == 0 {
		return fmt.Errorf("pattern library %s: empty mundane vocabulary", l.Version)
	}
	return nil
}

// DefaultLibrary returns the built-in reference pattern library.
func DefaultLibrary() Library {
	return Library{
		Version: "2026.08",
		Categories: map[Method][]SignalCategory{
			MethodImpossibility: {
				{Name: "defies-science", Weight: 0.40, Phrases: []string{
					"defies the laws", "defies physics", "defies gravity",
					"defies explanation", "should be impossible",
					"physically impossible", "cannot be explained",
					"no scientific explanation",
				}},
				{Name: "baffled-experts", Weight: 0.35, Phrases: []string{
					"scientists are baffled", "baffled scientists",
					"puzzled researchers", "experts cannot explain",
					"remains unexplained", "never been explained",
					"confounded experts",
				}},
				{Name: "paradox", Weight: 0.25, Phrases: []string{
					"paradox", "shouldn't exist", "should not exist",
					"contradiction in terms", "impossibly",
				}},
			},
			MethodUniqueness: {
				{Name: "only-in-world", Weight: 0.40, Phrases: []string{
					"the only place", "only place in the world",
					"the world's only", "one of a kind", "nowhere else",
					"found nowhere else",
				}},
				{Name: "sole-surviving", Weight: 0.30, Phrases: []string{
					"last remaining", "sole surviving", "last surviving",
					"the last of its kind", "only surviving",
				}},
				{Name: "unmatched", Weight: 0.30, Phrases: []string{
					"unlike any other", "unlike anywhere", "without equal",
					"unrivaled", "no other place",
				}},
			},
			MethodTemporal: {
				{Name: "anachronism", Weight: 0.40, Phrases: []string{
					"ahead of its time", "centuries before", "predates",
					"anachronistic", "long before it was", "before its time",
				}},
				{Name: "frozen-time", Weight: 0.35, Phrases: []string{
					"frozen in time", "unchanged for", "untouched for centuries",
					"stopped in time", "time capsule",
				}},
				{Name: "timeline-oddity", Weight: 0.25, Phrases: []string{
					"out of time", "from the wrong era", "older than the",
					"impossibly old",
				}},
			},
			MethodCultural: {
				{Name: "unusual-custom", Weight: 0.40, Phrases: []string{
					"unusual tradition", "strange custom", "peculiar ritual",
					"bizarre tradition", "curious tradition", "strange ritual",
					"unusual ceremony",
				}},
				{Name: "taboo", Weight: 0.30, Phrases: []string{
					"forbidden elsewhere", "considered taboo", "taboo",
					"outlawed everywhere", "banned in every other",
				}},
				{Name: "isolated-practice", Weight: 0.30, Phrases: []string{
					"practiced only", "practiced nowhere else", "survives only",
					"found only in this", "kept alive only",
				}},
			},
			MethodOddity: {
				{Name: "wonder", Weight: 0.35, Phrases: []string{
					"bizarre", "surreal", "otherworldly", "uncanny",
					"inexplicable", "eerie",
				}},
				{Name: "hidden-secret", Weight: 0.35, Phrases: []string{
					"hidden", "secret", "forgotten", "little-known",
					"little known", "few people know", "tucked away",
				}},
				{Name: "curiosity", Weight: 0.30, Phrases: []string{
					"curiosity", "oddity", "strange sight", "marvel",
					"astonishing", "wonder of",
				}},
			},
			MethodHistorical: {
				{Name: "strange-history", Weight: 0.40, Phrases: []string{
					"strange history", "curious history", "peculiar past",
					"historical mystery", "odd chapter", "lost to history",
				}},
				{Name: "abandoned-grand", Weight: 0.30, Phrases: []string{
					"never completed", "abandoned", "ruins of", "once was",
					"all that remains",
				}},
				{Name: "historical-first", Weight: 0.30, Phrases: []string{
					"first of its kind", "the first ever", "oldest known",
					"earliest known", "oldest surviving",
				}},
			},
			MethodGeographic: {
				{Name: "extreme-location", Weight: 0.40, Phrases: []string{
					"most remote", "highest in the world", "deepest",
					"northernmost", "southernmost", "lowest point on",
					"farthest from",
				}},
				{Name: "rare-formation", Weight: 0.35, Phrases: []string{
					"rare formation", "geological anomaly", "found in only",
					"one of only", "rarest", "unique geology",
				}},
				{Name: "improbable-site", Weight: 0.25, Phrases: []string{
					"carved into", "built into a cliff", "perched on",
					"suspended above", "inside a volcano", "beneath the surface",
				}},
			},
			MethodLinguistic: {
				{Name: "untranslatable", Weight: 0.40, Phrases: []string{
					"untranslatable", "no word for", "has no translation",
					"cannot be translated", "no equivalent in any",
				}},
				{Name: "dying-language", Weight: 0.35, Phrases: []string{
					"last speaker", "dying language", "extinct language",
					"spoken by only", "whistled language", "secret language",
				}},
				{Name: "naming-oddity", Weight: 0.25, Phrases: []string{
					"unpronounceable", "longest name", "its name means",
					"impossible to pronounce", "name no one can",
				}},
			},
			MethodCrossCultural: {
				{Name: "global-rarity", Weight: 0.40, Phrases: []string{
					"one of only a handful", "few places on earth",
					"almost nowhere on earth", "globally rare",
					"rare anywhere in the world",
				}},
				{Name: "cultural-crossroads", Weight: 0.30, Phrases: []string{
					"no other culture", "unique among cultures",
					"unknown elsewhere in the world", "found in no other culture",
				}},
				{Name: "without-parallel", Weight: 0.30, Phrases: []string{
					"has no parallel", "no counterpart", "nothing comparable",
					"unlike anything in",
				}},
			},
		},
		Exceptional: map[string][]string{
			ExceptionalImpossibility: {
				"impossible", "defies", "cannot be explained", "unexplained",
				"baffled",
			},
			ExceptionalUniqueness: {
				"only place in the world", "the only one", "nowhere else",
				"one of a kind", "the world's only",
			},
			ExceptionalMystery: {
				"mystery", "mysterious", "enigma", "no one knows", "unsolved",
			},
			ExceptionalSupernatural: {
				"haunted", "ghost", "supernatural", "miracle", "cursed",
				"legend says",
			},
			ExceptionalAnachronism: {
				"ahead of its time", "frozen in time", "anachronism",
				"centuries before",
			},
		},
		Mundane: []string{
			"shopping mall", "shopping center", "tourist attraction",
			"gift shop", "souvenir", "hotels", "restaurants", "best prices",
			"great deals", "family friendly", "family-friendly",
			"popular destination", "visit our", "our store", "best shopping",
			"downtown shopping", "shopping experience", "guided tours",
			"open daily", "admission", "free parking", "tourist hotel",
			"well-known tourist", "conveniently located", "book now",
			"top-rated", "must-see destination",
		},
	}
}

// WithExtraPhrases returns a copy of the library with extra phrases appended
// to existing categories. Keys of extras are "method/category"; unknown keys
// are rejected so configuration typos surface at construction time.
func (l Library) WithExtraPhrases(extras map[string][]string) (Library, error) {
	if len(extras) == 0 {
		return l, nil
	}
	merged := l
	merged.Categories = make(map[Method][]SignalCategory, len(l.Categories))
	for m, cats := range l.Categories {
		merged.Categories[m] = append([]SignalCategory(nil), cats...)
	}
	for key, phrases := range extras {
		method, category, ok := strings.Cut(key, "/")
		if !ok {
			return Library{}, fmt.Errorf("extra phrases: key %q is not method/category", key)
		}
		found := false
		for i, c := range merged.Categories[Method(method)] {
			if c.Name == category {
				cp := append([]string(nil), c.Phrases...)
				for _, p := range phrases {
					cp = append(cp, strings.ToLower(p))
				}
				merged.Categories[Method(method)][i].Phrases = cp
				found = true
				break
			}
		}
		if !found {
			return Library{}, fmt.Errorf("extra phrases: unknown category %q", key)
		}
	}
	return merged, nil
}
