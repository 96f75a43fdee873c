package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/resumelens/internal/config"
	"github.com/amishk599/resumelens/internal/model"
)

// chdir moves into a fresh directory so the implicit ./resumelens.yaml and
// ./.env lookups see nothing unexpected.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func resetFlags(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvAPI, "")
	t.Setenv("RESUMELENS_CONFIG", "")
	cfgPath, apiURL = "", ""
	t.Cleanup(func() { cfgPath, apiURL = "", "" })
}

func TestLoadConfig_MissingDefaultFallsBackToDefaults(t *testing.T) {
	chdir(t)
	resetFlags(t)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.API.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
}

func TestLoadConfig_MissingExplicitFileFails(t *testing.T) {
	dir := chdir(t)
	resetFlags(t)

	if _, err := loadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadConfig_APIFlagWins(t *testing.T) {
	dir := chdir(t)
	resetFlags(t)
	t.Setenv(config.EnvAPI, "http://from-env:8000")
	path := filepath.Join(dir, "resumelens.yaml")
	if err := os.WriteFile(path, []byte("api:\n  base_url: http://from-file:8000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	apiURL = "http://from-flag:8000"
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.API.BaseURL != "http://from-flag:8000" {
		t.Errorf("BaseURL = %q, want flag value", cfg.API.BaseURL)
	}
}

func TestLoadConfig_APIFlagRepairsBadFileURL(t *testing.T) {
	dir := chdir(t)
	resetFlags(t)
	path := filepath.Join(dir, "resumelens.yaml")
	if err := os.WriteFile(path, []byte("api:\n  base_url: \"127.0.0.1:8000\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	apiURL = "http://localhost:9000"
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:9000" {
		t.Errorf("BaseURL = %q, want flag value", cfg.API.BaseURL)
	}
}

func TestLoadConfig_RejectsBadAPIFlag(t *testing.T) {
	chdir(t)
	resetFlags(t)
	apiURL = "not a url"
	if _, err := loadConfig(""); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestPrintHistory(t *testing.T) {
	sim := 82.0
	entries := []model.HistoryEntry{
		{
			Action:     model.ActionCompare,
			ResumeName: "jane_doe.pdf",
			Status:     model.StatusSuccess,
			Summary:    "Good match",
			Similarity: &sim,
			CreatedAt:  time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			Action:     model.ActionAnalyze,
			ResumeName: "jane_doe.pdf",
			Status:     model.StatusError,
			Summary:    "Invalid PDF",
			CreatedAt:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	printHistory(&buf, entries)
	out := buf.String()

	for _, want := range []string{"Good match", "82%", "Invalid PDF", "compare", "analyze", "Showing 2 entries"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestClip(t *testing.T) {
	if got := clip("short", 10); got != "short" {
		t.Errorf("clip = %q", got)
	}
	if got := clip("a_very_long_resume_name.pdf", 10); got != "a_very_lo…" {
		t.Errorf("clip = %q", got)
	}
}
