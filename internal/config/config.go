package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Trust     TrustConfig     `yaml:"trust"`
	Recommend RecommendConfig `yaml:"recommend"`
	Import    ImportConfig    `yaml:"import"`
	Notify    NotifyConfig    `yaml:"notify"`
	Server    ServerConfig    `yaml:"server"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ScheduleConfig configures the rank recomputation interval.
type ScheduleConfig struct {
	RankInterval string `yaml:"rank_interval"`
}

// ParseRankInterval returns the rank interval as time.Duration.
func (s ScheduleConfig) ParseRankInterval() time.Duration {
	d, err := time.ParseDuration(s.RankInterval)
	if err != nil {
		return 1 * time.Hour
	}
	return d
}

// TrustConfig configures the Bayesian smoothing of reliability scores.
// The decay schedule and tier thresholds are fixed in code: they define the
// community ladder, and persisted tiers must stay comparable across deploys.
type TrustConfig struct {
	PriorWeight float64 `yaml:"prior_weight"`
	GlobalRate  float64 `yaml:"global_rate"`
}

// RecommendConfig configures related-question ranking.
type RecommendConfig struct {
	CategoryWeight float64 `yaml:"category_weight"`
	KeywordWeight  float64 `yaml:"keyword_weight"`
	MaxResults     int     `yaml:"max_results"`
}

// ImportConfig configures feed-based question import.
type ImportConfig struct {
	DefaultCategory string     `yaml:"default_category"`
	Feeds           []FeedItem `yaml:"feeds"`
}

// FeedItem is a single RSS/Atom feed entry.
type FeedItem struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// NotifyConfig configures tier-change notification destinations.
type NotifyConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// SlackConfig for Slack webhook notifications.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// DiscordConfig for Discord webhook notifications.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook notifications.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Default returns a Config with the production scoring constants.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./kehila.db"},
		Schedule: ScheduleConfig{
			RankInterval: "1h",
		},
		Trust: TrustConfig{
			PriorWeight: 5,
			GlobalRate:  0.4,
		},
		Recommend: RecommendConfig{
			CategoryWeight: 10,
			KeywordWeight:  3,
			MaxResults:     6,
		},
		Import: ImportConfig{
			DefaultCategory: "כללי",
		},
		Notify: NotifyConfig{},
		Server: ServerConfig{Port: 8080},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("KEHILA_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Notify.Slack.WebhookURL = v
		cfg.Notify.Slack.Enabled = true
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Notify.Discord.WebhookURL = v
		cfg.Notify.Discord.Enabled = true
	}
}
