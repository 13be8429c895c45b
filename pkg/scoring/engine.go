// Package scoring implements the significance scoring engine: an ensemble of
// nine independent heuristic detectors, a multi-layer calibration pipeline,
// tier classification against configured thresholds, and an optional
// per-listener adjustment. The engine is a pure function of
// (text, configuration, optional listener profile) and holds no state across
// invocations, so one engine is safe for concurrent use.
package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ContentItem is a block of gathered text about a place. Owned by the
// caller; the engine never mutates it.
type ContentItem struct {
	Text         string `json:"text"`
	LocationHint string `json:"location_hint,omitempty"`
}

// ScoredContent is the engine's final output. PersonalizedScore and
// PersonalizedTier equal CalibratedScore and Tier exactly when no profile was
// applied or its lookup failed.
type ScoredContent struct {
	Breakdown         Breakdown `json:"breakdown"`
	Tier              Tier      `json:"tier"`
	PersonalizedScore float64   `json:"personalized_score"`
	PersonalizedTier  Tier      `json:"personalized_tier"`
	Explanation       string    `json:"explanation"`
}

// Engine scores content items. Construct with New; a zero Engine is not
// usable.
type Engine struct {
	cfg        Config
	lib        Library
	profiles   ProfileSource
	logger     *slog.Logger
	batchLimit int
}

// Option customizes an engine at construction.
type Option func(*Engine)

// WithProfileSource attaches the preference collaborator used by ScoreFor.
// Without one, personalization is always the identity.
func WithProfileSource(src ProfileSource) Option {
	return func(e *Engine) { e.profiles = src }
}

// WithLibrary replaces the built-in pattern library.
func WithLibrary(lib Library) Option {
	return func(e *Engine) { e.lib = lib }
}

// WithLogger sets the logger for recoverable warnings (detector faults,
// profile lookup fallbacks). nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithBatchLimit bounds ScoreBatch concurrency.
func WithBatchLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.batchLimit = n
		}
	}
}

// New validates the configuration and pattern library and returns an engine.
// Invalid configuration is fatal here: the engine refuses to start rather
// than silently misclassify content.
func New(cfg Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:        cfg,
		lib:        DefaultLibrary(),
		batchLimit: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scoring engine: %w", err)
	}
	if err := e.lib.Validate(); err != nil {
		return nil, fmt.Errorf("scoring engine: %w", err)
	}
	return e, nil
}

// Config returns the engine's calibration bundle.
func (e *Engine) Config() Config { return e.cfg }

// PatternLibrary returns the engine's pattern library.
func (e *Engine) PatternLibrary() Library { return e.lib }

// Score runs the deterministic pipeline: nine detectors in parallel, mundane
// suppression, calibration, and tier classification. Repeated calls with the
// same item and configuration yield identical results.
func (e *Engine) Score(item ContentItem) ScoredContent {
	lower := strings.ToLower(item.Text)
	mundane := assessMundane(lower, e.lib, e.cfg.Mundane)

	methods := Methods()
	results := make([]DetectorResult, len(methods))
	var wg sync.WaitGroup
	for i, m := range methods {
		i, m := i, m
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = e.scoreDetector(m, lower, mundane)
		}()
	}
	wg.Wait()

	perMethod := make(map[Method]DetectorResult, len(methods))
	for _, r := range results {
		perMethod[r.Method] = r
	}

	breakdown := calibrate(lower, perMethod, mundane, e.lib, e.cfg)
	tier := e.cfg.Thresholds.Classify(breakdown.CalibratedScore)

	return ScoredContent{
		Breakdown:         breakdown,
		Tier:              tier,
		PersonalizedScore: breakdown.CalibratedScore,
		PersonalizedTier:  tier,
		Explanation:       buildExplanation(breakdown, e.cfg.Methods),
	}
}

// scoreDetector runs one detector behind a fault boundary. A panic or
// malformed pattern degrades to a zero result; the ensemble never aborts.
func (e *Engine) scoreDetector(m Method, lower string, mundane MundaneAssessment) (result DetectorResult) {
	defer func() {
		if r := recover(); r != nil {
			e.warn("detector panic", slog.String("method", string(m)), slog.Any("panic", r))
			result = zeroResult(m)
		}
	}()

	result, err := runDetector(m, lower, e.lib.Categories[m], e.cfg.CategorySaturation, mundane, e.cfg.Mundane)
	if err != nil {
		e.warn("detector fault", slog.String("method", string(m)), slog.String("error", err.Error()))
		return zeroResult(m)
	}
	return result
}

// ScoreFor scores an item and then personalizes it for a listener. The
// deterministic result is computed first; the profile lookup is bounded by
// the configured timeout and any failure falls back to the identity
// adjustment. Personalization can never fail the scoring call.
func (e *Engine) ScoreFor(ctx context.Context, item ContentItem, listenerID string) ScoredContent {
	scored := e.Score(item)
	if e.profiles == nil || listenerID == "" {
		return scored
	}

	lctx, cancel := context.WithTimeout(ctx, e.cfg.Personal.LookupTimeout)
	defer cancel()

	profile, err := e.profiles.Profile(lctx, listenerID)
	if err != nil {
		e.warn("profile lookup failed, using identity personalization",
			slog.String("listener", listenerID), slog.String("error", err.Error()))
		return scored
	}
	return e.Personalize(scored, profile)
}

// Personalize applies a known profile to an already-scored item.
func (e *Engine) Personalize(scored ScoredContent, p Profile) ScoredContent {
	score, tier := personalize(scored.Breakdown.CalibratedScore, scored.Tier, p, e.cfg.Personal, e.cfg.Thresholds)
	scored.PersonalizedScore = score
	scored.PersonalizedTier = tier
	return scored
}

// ScoreBatch scores items concurrently up to the batch limit. Output order
// matches input order. Items are independent, so the only error source is
// context cancellation.
func (e *Engine) ScoreBatch(ctx context.Context, items []ContentItem) ([]ScoredContent, error) {
	out := make([]ScoredContent, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.batchLimit)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = e.Score(item)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("score batch: %w", err)
	}
	return out, nil
}

func (e *Engine) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
