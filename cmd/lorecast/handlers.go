package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/aurelhart/lorecast/internal/config"
	"github.com/aurelhart/lorecast/internal/profile"
	"github.com/aurelhart/lorecast/pkg/scoring"
	"github.com/aurelhart/lorecast/pkg/server"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func buildEngine(cfg *config.Config, profiles scoring.ProfileSource) (*scoring.Engine, error) {
	engCfg, err := cfg.EngineConfig()
	if err != nil {
		return nil, err
	}
	lib, err := cfg.BuildLibrary()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	opts := []scoring.Option{
		scoring.WithLibrary(lib),
		scoring.WithLogger(logger),
	}
	if profiles != nil {
		opts = append(opts, scoring.WithProfileSource(profiles))
	}
	return scoring.New(engCfg, opts...)
}

func readText(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func runScore(path, hint, listener string, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var profiles scoring.ProfileSource
	if listener != "" {
		store, err := profile.New(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		profiles = store
	}

	engine, err := buildEngine(cfg, profiles)
	if err != nil {
		return err
	}

	text, err := readText(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	item := scoring.ContentItem{Text: text, LocationHint: hint}
	scored := engine.ScoreFor(ctx, item, listener)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(scored)
	}

	fmt.Printf("tier:       %s (%.2f)\n", scored.Tier, scored.Breakdown.CalibratedScore)
	if listener != "" {
		fmt.Printf("personalized: %s (%.2f)\n", scored.PersonalizedTier, scored.PersonalizedScore)
	}
	fmt.Printf("explanation: %s\n", scored.Explanation)
	return nil
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	store, err := profile.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	engine, err := buildEngine(cfg, store)
	if err != nil {
		return err
	}

	return server.New(engine, port).ListenAndServe()
}

func runMethods() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, err := buildEngine(cfg, nil)
	if err != nil {
		return err
	}

	lib := engine.PatternLibrary()
	engCfg := engine.Config()

	fmt.Printf("pattern library %s, global scale %.2f\n\n", lib.Version, engCfg.GlobalScale)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tWEIGHT\tMULTIPLIER\tQUAL. THRESHOLD\tCATEGORIES")
	for _, m := range scoring.Methods() {
		mc := engCfg.Methods[m]
		fmt.Fprintf(w, "%s\t%.3f\t%.2f\t%.2f\t%d\n",
			m, mc.Weight, mc.Multiplier, mc.QualificationThreshold, len(lib.Categories[m]))
	}
	return w.Flush()
}

func runProfileSet(listenerID, tolerance string) error {
	tol, err := strconv.Atoi(tolerance)
	if err != nil {
		return fmt.Errorf("tolerance must be an integer 0-5: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := profile.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Set(context.Background(), listenerID, tol); err != nil {
		return err
	}
	fmt.Printf("profile %s: surprise tolerance %d\n", listenerID, tol)
	return nil
}

func runProfileGet(listenerID string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := profile.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(context.Background(), listenerID)
	if err != nil {
		return err
	}
	fmt.Printf("%s: surprise tolerance %d (updated %s)\n",
		rec.ListenerID, rec.SurpriseTolerance, rec.UpdatedAt.Format(time.RFC3339))
	return nil
}

func runProfileList() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := profile.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.List(context.Background(), 100)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("no profiles stored")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LISTENER\tTOLERANCE\tUPDATED")
	for _, r := range recs {
		fmt.Fprintf(w, "%s\t%d\t%s\n", r.ListenerID, r.SurpriseTolerance, r.UpdatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}
