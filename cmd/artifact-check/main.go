// Command artifact-check loads the model and label encoders the API would
// serve with, reports drift between them, and optionally scores one lead
// read from a JSON file. It needs no database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"leadscore_backend/internal/artifacts"
	"leadscore_backend/internal/leads/domain"
	"leadscore_backend/internal/leads/scoring"
	"leadscore_backend/internal/leads/transport"
	"leadscore_backend/platform/config"
	"leadscore_backend/platform/logger"
	"leadscore_backend/platform/validator"
)

func main() {
	cfg, err := config.LoadArtifacts()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout, log); err != nil {
		log.Error("artifact check failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer, log *logger.Logger) error {
	fs := flag.NewFlagSet("artifact-check", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&cfg.ModelPath, "model", cfg.ModelPath, "model artifact path or s3://bucket/key")
	fs.StringVar(&cfg.EncodersPath, "encoders", cfg.EncodersPath, "label encoder artifact path or s3://bucket/key")
	leadPath := fs.String("lead", "", "optional JSON lead to score with the loaded artifacts")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.ValidateArtifacts(); err != nil {
		return err
	}

	var fetcher artifacts.ObjectFetcher
	if cfg.IsMinIOEnabled() {
		minioFetcher, err := artifacts.NewMinIOFetcher(cfg)
		if err != nil {
			return fmt.Errorf("initialize object storage: %w", err)
		}
		fetcher = minioFetcher
	}

	loaded, err := artifacts.NewLoader(fetcher, log).Load(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "model: %s (%d features)\n", cfg.ModelPath, len(loaded.Engine.FeatureNames()))
	fmt.Fprintf(out, "encoders: %s (%d fields)\n", cfg.EncodersPath, len(loaded.Encoder.Fields()))
	for _, warning := range loaded.Warnings {
		fmt.Fprintf(out, "warning: %s\n", warning)
	}

	if *leadPath == "" {
		fmt.Fprintln(out, "ok")
		return nil
	}

	score, err := scoreFile(*leadPath, loaded)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "score: %.2f\n", score)
	return nil
}

// scoreFile runs one lead through validation, encoding and the model
// without touching storage.
func scoreFile(path string, loaded *artifacts.Artifacts) (float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read lead: %w", err)
	}

	var input transport.LeadInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return 0, fmt.Errorf("decode lead: %w", err)
	}
	if err := validator.New().Struct(input); err != nil {
		return 0, fmt.Errorf("invalid lead: %w", err)
	}

	encoded, err := loaded.Encoder.Encode(domain.FeatureRow(input.ToLead()))
	if err != nil {
		return 0, err
	}
	features, err := scoring.ToFeatures(encoded)
	if err != nil {
		return 0, err
	}
	p, err := loaded.Engine.Score(features)
	if err != nil {
		return 0, err
	}
	return domain.ScoreFromProbability(p), nil
}
