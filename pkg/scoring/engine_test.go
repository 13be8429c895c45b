package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// uniqueOddityText carries a unique-in-the-world claim, an "only place"
// phrase, and a scientist-bafflement phrase, with no mundane vocabulary.
const uniqueOddityText = "Deep in the forest stands the only place in the world where gravity " +
	"seems to run backwards: a one of a kind stone circle unlike any other, a bizarre, eerie, " +
	"and little-known marvel. Scientists are baffled, the phenomenon has never been explained, " +
	"and no one knows who built it."

// exceptionalText stacks signals across five methods and all five
// exceptional phrase categories.
const exceptionalText = "The church was carved into the cliff centuries before such engineering " +
	"should have been possible, a structure that defies explanation and should be impossible. " +
	"It is the only place in the world where the haunted bells ring on their own, the last of " +
	"its kind, an eternal mystery: scientists are baffled, the ritual is practiced nowhere " +
	"else, and the village seems frozen in time, unlike any other place on earth."

const commercialText = "Our store offers the best shopping experience near the popular tourist hotel district"

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(DefaultConfig(), opts...)
	require.NoError(t, err)
	return e
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inverted tier thresholds", func(c *Config) {
			c.Thresholds.Exceptional = c.Thresholds.VeryGood - 1
		}},
		{"missing method config", func(c *Config) {
			delete(c.Methods, MethodOddity)
		}},
		{"weight above one", func(c *Config) {
			mc := c.Methods[MethodOddity]
			mc.Weight = 1.5
			c.Methods[MethodOddity] = mc
		}},
		{"negative multiplier", func(c *Config) {
			mc := c.Methods[MethodOddity]
			mc.Multiplier = -1
			c.Methods[MethodOddity] = mc
		}},
		{"zero global scale", func(c *Config) {
			c.GlobalScale = 0
		}},
		{"zero lookup timeout", func(c *Config) {
			c.Personal.LookupTimeout = 0
		}},
		{"zero category saturation", func(c *Config) {
			c.CategorySaturation = 0
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			require.Error(t, err)
		})
	}
}

func TestNewRejectsInvalidLibrary(t *testing.T) {
	lib := DefaultLibrary()
	lib.Categories[MethodOddity] = nil
	_, err := New(DefaultConfig(), WithLibrary(lib))
	require.Error(t, err)

	lib = DefaultLibrary()
	delete(lib.Exceptional, ExceptionalMystery)
	_, err = New(DefaultConfig(), WithLibrary(lib))
	require.Error(t, err)
}

func TestScoreDeterminism(t *testing.T) {
	e := newTestEngine(t)
	item := ContentItem{Text: uniqueOddityText}

	first := e.Score(item)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, e.Score(item))
	}

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(e.Score(item))
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestScoreEmptyInput(t *testing.T) {
	e := newTestEngine(t)
	scored := e.Score(ContentItem{Text: ""})

	require.Equal(t, TierMundane, scored.Tier)
	require.Equal(t, 0.0, scored.Breakdown.CalibratedScore)
	require.Equal(t, 0.0, scored.Breakdown.Mundane.Intensity)
	for _, m := range Methods() {
		require.Equal(t, 0.0, scored.Breakdown.PerMethod[m].RawScore)
	}
	require.Equal(t, "no significant signals detected", scored.Explanation)
}

func TestScoreBounded(t *testing.T) {
	e := newTestEngine(t)
	texts := []string{"", "plain description of a street", uniqueOddityText, exceptionalText, commercialText}
	for _, text := range texts {
		scored := e.Score(ContentItem{Text: text})
		require.False(t, math.IsNaN(scored.Breakdown.CalibratedScore))
		require.GreaterOrEqual(t, scored.Breakdown.CalibratedScore, 0.0)
		for _, m := range Methods() {
			raw := scored.Breakdown.PerMethod[m].RawScore
			require.GreaterOrEqual(t, raw, 0.0)
			require.LessOrEqual(t, raw, 10.0)
		}
	}
}

func TestScoreUniqueOddityScenario(t *testing.T) {
	e := newTestEngine(t)
	scored := e.Score(ContentItem{Text: uniqueOddityText})

	require.Contains(t, scored.Breakdown.QualifiedMethods, MethodUniqueness)
	require.Contains(t, scored.Breakdown.QualifiedMethods, MethodOddity)
	require.GreaterOrEqual(t, scored.Breakdown.SynergyBonus, 0.10)
	require.GreaterOrEqual(t, scored.Tier, TierVeryGood)

	personalized := e.Personalize(scored, Profile{SurpriseTolerance: 4})
	require.GreaterOrEqual(t, personalized.PersonalizedTier, scored.Tier)
	require.Greater(t, personalized.PersonalizedScore, scored.Breakdown.CalibratedScore)
}

func TestScoreCommercialScenario(t *testing.T) {
	e := newTestEngine(t)
	scored := e.Score(ContentItem{Text: commercialText})

	require.Equal(t, TierMundane, scored.Tier)
	require.Less(t, scored.Breakdown.CalibratedScore, e.cfg.Thresholds.Average)
}

func TestScoreMundaneCeiling(t *testing.T) {
	e := newTestEngine(t)
	scored := e.Score(ContentItem{
		Text: "Visit our popular downtown shopping mall, a well-known tourist attraction with great hotels and restaurants",
	})

	require.Greater(t, scored.Breakdown.Mundane.Intensity, e.cfg.Mundane.CapThreshold)
	require.LessOrEqual(t, scored.Tier, TierAverage)
}

func TestScoreExceptionalPipeline(t *testing.T) {
	e := newTestEngine(t)
	scored := e.Score(ContentItem{Text: exceptionalText})

	require.Len(t, scored.Breakdown.ExceptionalCategories, 5)
	require.InDelta(t, 1.5, scored.Breakdown.ExceptionalMultiplier, 1e-9)
	require.InDelta(t, 1.15, scored.Breakdown.ValidationMultiplier, 1e-9)
	require.GreaterOrEqual(t, len(scored.Breakdown.QualifiedMethods), 4)
	require.InDelta(t, 0.15, scored.Breakdown.SynergyBonus, 1e-9)
	require.Equal(t, TierExceptional, scored.Tier)
}

func TestPersonalizationMonotonicForExceptional(t *testing.T) {
	e := newTestEngine(t)
	scored := e.Score(ContentItem{Text: exceptionalText})
	require.Equal(t, TierExceptional, scored.Tier)

	high := e.Personalize(scored, Profile{SurpriseTolerance: 5})
	require.GreaterOrEqual(t, high.PersonalizedScore, scored.Breakdown.CalibratedScore)

	low := e.Personalize(scored, Profile{SurpriseTolerance: 0})
	require.LessOrEqual(t, low.PersonalizedScore, scored.Breakdown.CalibratedScore)

	balanced := e.Personalize(scored, Profile{SurpriseTolerance: 2})
	require.Equal(t, scored.Breakdown.CalibratedScore, balanced.PersonalizedScore)
	require.Equal(t, scored.Tier, balanced.PersonalizedTier)
}

type stubProfiles struct {
	profile Profile
	err     error
	delay   time.Duration
}

func (s stubProfiles) Profile(ctx context.Context, listenerID string) (Profile, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return Profile{}, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	return s.profile, s.err
}

func TestScoreForAppliesProfile(t *testing.T) {
	e := newTestEngine(t, WithProfileSource(stubProfiles{profile: Profile{SurpriseTolerance: 4}}))
	scored := e.ScoreFor(context.Background(), ContentItem{Text: uniqueOddityText}, "listener-1")

	require.Greater(t, scored.PersonalizedScore, scored.Breakdown.CalibratedScore)
	require.GreaterOrEqual(t, scored.PersonalizedTier, scored.Tier)
}

func TestScoreForIdentityFallback(t *testing.T) {
	item := ContentItem{Text: uniqueOddityText}

	t.Run("no profile source", func(t *testing.T) {
		e := newTestEngine(t)
		scored := e.ScoreFor(context.Background(), item, "listener-1")
		require.Equal(t, scored.Breakdown.CalibratedScore, scored.PersonalizedScore)
		require.Equal(t, scored.Tier, scored.PersonalizedTier)
	})

	t.Run("empty listener id", func(t *testing.T) {
		e := newTestEngine(t, WithProfileSource(stubProfiles{profile: Profile{SurpriseTolerance: 5}}))
		scored := e.ScoreFor(context.Background(), item, "")
		require.Equal(t, scored.Breakdown.CalibratedScore, scored.PersonalizedScore)
		require.Equal(t, scored.Tier, scored.PersonalizedTier)
	})

	t.Run("lookup error", func(t *testing.T) {
		e := newTestEngine(t, WithProfileSource(stubProfiles{err: errors.New("store offline")}))
		scored := e.ScoreFor(context.Background(), item, "listener-1")
		require.Equal(t, scored.Breakdown.CalibratedScore, scored.PersonalizedScore)
		require.Equal(t, scored.Tier, scored.PersonalizedTier)
	})

	t.Run("lookup timeout", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Personal.LookupTimeout = 5 * time.Millisecond
		e, err := New(cfg, WithProfileSource(stubProfiles{
			profile: Profile{SurpriseTolerance: 5},
			delay:   500 * time.Millisecond,
		}))
		require.NoError(t, err)

		scored := e.ScoreFor(context.Background(), item, "listener-1")
		require.Equal(t, scored.Breakdown.CalibratedScore, scored.PersonalizedScore)
		require.Equal(t, scored.Tier, scored.PersonalizedTier)
	})
}

func TestScoreBatch(t *testing.T) {
	e := newTestEngine(t)
	items := []ContentItem{
		{Text: uniqueOddityText},
		{Text: commercialText},
		{Text: ""},
		{Text: exceptionalText},
	}

	scored, err := e.ScoreBatch(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, scored, len(items))

	// Output order matches input order and each entry equals a sequential
	// score of the same item.
	for i, item := range items {
		require.Equal(t, e.Score(item), scored[i])
	}
}

func TestScoreBatchCancelled(t *testing.T) {
	e := newTestEngine(t, WithBatchLimit(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := make([]ContentItem, 64)
	for i := range items {
		items[i] = ContentItem{Text: uniqueOddityText}
	}

	_, err := e.ScoreBatch(ctx, items)
	require.Error(t, err)
}

func TestEngineConcurrentUse(t *testing.T) {
	e := newTestEngine(t)
	want := e.Score(ContentItem{Text: exceptionalText})

	done := make(chan ScoredContent, 16)
	for i := 0; i < 16; i++ {
		go func() {
			done <- e.Score(ContentItem{Text: exceptionalText})
		}()
	}
	for i := 0; i < 16; i++ {
		require.Equal(t, want, <-done)
	}
}
