// Package artifacts loads the trained model and label encoders, from local
// files or object storage, and checks that they agree with each other and
// with the lead schema before the service accepts traffic.
package artifacts

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"leadscore_backend/internal/leads/domain"
	"leadscore_backend/internal/leads/encoding"
	"leadscore_backend/internal/leads/scoring"
	"leadscore_backend/platform/config"
	"leadscore_backend/platform/logger"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// maxArtifactBytes bounds a single artifact read.
const maxArtifactBytes = 256 << 20

// Artifacts is the immutable pair every request is scored with.
type Artifacts struct {
	Encoder *encoding.Table
	Engine  *scoring.Engine
	// Warnings lists non-fatal findings from Check.
	Warnings []string
}

// Loader reads and validates artifacts.
type Loader struct {
	fetcher ObjectFetcher
	log     *logger.Logger
}

// NewLoader creates a loader. fetcher may be nil when no artifact path uses
// object storage.
func NewLoader(fetcher ObjectFetcher, log *logger.Logger) *Loader {
	return &Loader{fetcher: fetcher, log: log}
}

// Load reads both artifacts concurrently, builds them and runs Check.
func (l *Loader) Load(ctx context.Context, cfg config.ArtifactConfig) (*Artifacts, error) {
	var (
		modelRaw    []byte
		encodersRaw []byte
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := l.read(gctx, cfg.GetModelPath())
		if err != nil {
			return fmt.Errorf("read model: %w", err)
		}
		modelRaw = raw
		return nil
	})
	g.Go(func() error {
		raw, err := l.read(gctx, cfg.GetEncodersPath())
		if err != nil {
			return fmt.Errorf("read label encoders: %w", err)
		}
		encodersRaw = raw
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	engine, err := ParseModel(modelRaw)
	if err != nil {
		return nil, err
	}
	table, err := ParseEncoders(encodersRaw)
	if err != nil {
		return nil, err
	}

	warnings, err := Check(table, engine)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		l.log.Warn("artifact check", "warning", w)
	}
	l.log.Info("artifacts loaded",
		"model", cfg.GetModelPath(),
		"encoders", cfg.GetEncodersPath(),
		"features", len(engine.FeatureNames()),
		"encodedFields", len(table.Fields()),
	)

	return &Artifacts{Encoder: table, Engine: engine, Warnings: warnings}, nil
}

func (l *Loader) read(ctx context.Context, path string) ([]byte, error) {
	if !strings.HasPrefix(path, config.ObjectStoragePrefix) {
		return os.ReadFile(path)
	}
	if l.fetcher == nil {
		return nil, fmt.Errorf("%s needs object storage, which is not configured", path)
	}

	bucket, key, err := splitObjectPath(path)
	if err != nil {
		return nil, err
	}
	body, err := l.fetcher.FetchObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	raw, err := io.ReadAll(io.LimitReader(body, maxArtifactBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(raw) > maxArtifactBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", path, maxArtifactBytes)
	}
	return raw, nil
}

// ParseModel decodes a YAML or JSON model artifact into a scoring engine.
func ParseModel(raw []byte) (*scoring.Engine, error) {
	var spec scoring.ModelSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	model, err := scoring.Build(spec)
	if err != nil {
		return nil, fmt.Errorf("build model: %w", err)
	}
	return scoring.NewEngine(model)
}

// ParseEncoders decodes a YAML or JSON mapping of column label to its
// ordered class list.
func ParseEncoders(raw []byte) (*encoding.Table, error) {
	var classes map[string][]string
	if err := yaml.Unmarshal(raw, &classes); err != nil {
		return nil, fmt.Errorf("decode label encoders: %w", err)
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("label encoders artifact is empty")
	}
	return encoding.NewTable(classes)
}

// Check verifies that the encoder covers exactly the categorical fields,
// and that the model was trained on exactly the lead's columns. Fields that
// cannot absorb a missing value are returned as warnings.
func Check(table *encoding.Table, engine *scoring.Engine) ([]string, error) {
	var problems, warnings []string

	for _, label := range table.Fields() {
		f, ok := domain.FieldByLabel(label)
		if !ok {
			problems = append(problems, fmt.Sprintf("encoder covers unknown column %q", label))
			continue
		}
		if f.Kind != domain.Categorical {
			problems = append(problems, fmt.Sprintf("encoder covers numeric column %q", label))
		}
	}
	for _, f := range domain.Fields {
		if f.Kind != domain.Categorical {
			continue
		}
		if !table.Has(f.Label) {
			problems = append(problems, fmt.Sprintf("no encoder for categorical column %q", f.Label))
			continue
		}
		if !table.HasUnknown(f.Label) {
			warnings = append(warnings, fmt.Sprintf("column %q has no %q class; empty values will be rejected", f.Label, encoding.Unknown))
		}
	}

	trained := make(map[string]bool)
	for _, name := range engine.FeatureNames() {
		trained[name] = true
	}
	for _, label := range domain.Labels() {
		if !trained[label] {
			problems = append(problems, fmt.Sprintf("model was not trained on column %q", label))
		}
		delete(trained, label)
	}
	extra := make([]string, 0, len(trained))
	for name := range trained {
		extra = append(extra, name)
	}
	sort.Strings(extra)
	for _, name := range extra {
		problems = append(problems, fmt.Sprintf("model expects column %q that leads do not have", name))
	}

	if len(problems) > 0 {
		return warnings, fmt.Errorf("artifacts are inconsistent: %s", strings.Join(problems, "; "))
	}
	return warnings, nil
}
