package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Trust.PriorWeight != 5 || cfg.Trust.GlobalRate != 0.4 {
		t.Fatalf("trust defaults = %+v", cfg.Trust)
	}
	if cfg.Recommend.CategoryWeight != 10 || cfg.Recommend.KeywordWeight != 3 || cfg.Recommend.MaxResults != 6 {
		t.Fatalf("recommend defaults = %+v", cfg.Recommend)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d, want 8080", cfg.Server.Port)
	}
	if got := cfg.Schedule.ParseRankInterval().Hours(); got != 1 {
		t.Fatalf("rank interval = %vh, want 1h", got)
	}
}

func TestParseRankIntervalFallback(t *testing.T) {
	s := ScheduleConfig{RankInterval: "not-a-duration"}
	if got := s.ParseRankInterval().Hours(); got != 1 {
		t.Fatalf("fallback interval = %vh, want 1h", got)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
database:
  path: /tmp/test.db
schedule:
  rank_interval: 30m
recommend:
  max_results: 4
server:
  port: 9090
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Fatalf("db path = %s", cfg.Database.Path)
	}
	if got := cfg.Schedule.ParseRankInterval().Minutes(); got != 30 {
		t.Fatalf("rank interval = %vm, want 30m", got)
	}
	if cfg.Recommend.MaxResults != 4 {
		t.Fatalf("max results = %d, want 4", cfg.Recommend.MaxResults)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port = %d, want 9090", cfg.Server.Port)
	}
	// Untouched sections keep their defaults.
	if cfg.Trust.PriorWeight != 5 {
		t.Fatalf("prior weight = %v, want default 5", cfg.Trust.PriorWeight)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KEHILA_DB_PATH", "/tmp/env.db")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.invalid/T000")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Database.Path != "/tmp/env.db" {
		t.Fatalf("db path = %s, want env override", cfg.Database.Path)
	}
	if !cfg.Notify.Slack.Enabled || cfg.Notify.Slack.WebhookURL != "https://hooks.slack.invalid/T000" {
		t.Fatalf("slack = %+v, want enabled via env", cfg.Notify.Slack)
	}
}
