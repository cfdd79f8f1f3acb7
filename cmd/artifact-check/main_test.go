package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"leadscore_backend/internal/leads/leadtest"
	"leadscore_backend/internal/leads/transport"
	"leadscore_backend/platform/config"
	"leadscore_backend/platform/logger"

	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, path string, raw []byte) {
	t.Helper()
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}
}

func fixtureConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		ModelPath:    filepath.Join(dir, "model.yaml"),
		EncodersPath: filepath.Join(dir, "label_encoders.yaml"),
	}

	model, err := yaml.Marshal(leadtest.ModelSpec())
	if err != nil {
		t.Fatal(err)
	}
	encoders, err := yaml.Marshal(leadtest.EncoderClasses())
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, cfg.ModelPath, model)
	writeFile(t, cfg.EncodersPath, encoders)
	return cfg, dir
}

func TestRunReportsConsistentArtifacts(t *testing.T) {
	cfg, _ := fixtureConfig(t)

	var out bytes.Buffer
	if err := run(context.Background(), cfg, nil, &out, logger.Discard()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(out.String(), "ok\n") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunScoresLeadFile(t *testing.T) {
	cfg, dir := fixtureConfig(t)
	raw, err := json.Marshal(transport.FromLead(leadtest.Lead(42)))
	if err != nil {
		t.Fatal(err)
	}
	leadPath := filepath.Join(dir, "lead.json")
	writeFile(t, leadPath, raw)

	var out bytes.Buffer
	if err := run(context.Background(), cfg, []string{"-lead", leadPath}, &out, logger.Discard()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "score: 22.50\n") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunFlagsOverrideConfig(t *testing.T) {
	cfg, dir := fixtureConfig(t)
	missing := filepath.Join(dir, "nope.yaml")

	var out bytes.Buffer
	err := run(context.Background(), cfg, []string{"-model", missing}, &out, logger.Discard())
	if err == nil || !strings.Contains(err.Error(), "read model") {
		t.Fatalf("expected model read error, got %v", err)
	}
}

func TestRunRejectsObjectPathWithoutMinIO(t *testing.T) {
	cfg, _ := fixtureConfig(t)

	var out bytes.Buffer
	err := run(context.Background(), cfg, []string{"-encoders", "s3://models/enc.yaml"}, &out, logger.Discard())
	if err == nil || !strings.Contains(err.Error(), "MINIO_ENDPOINT") {
		t.Fatalf("expected MINIO_ENDPOINT error, got %v", err)
	}
}
