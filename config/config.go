// Package config loads engine configuration from a YAML file, falling back to
// environment variables when the file is absent.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all engine configuration.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	League LeagueConfig `yaml:"league"`
}

// EngineConfig holds process-level settings.
type EngineConfig struct {
	SavePath       string `yaml:"save_path"`
	MetricsAddress string `yaml:"metrics_address"`
}

// LeagueConfig holds the defaults applied to newly created leagues.
type LeagueConfig struct {
	Weeks          int     `yaml:"weeks"`
	FreeAgencyDays int     `yaml:"free_agency_days"`
	DraftRounds    int     `yaml:"draft_rounds"`
	SalaryCap      float64 `yaml:"salary_cap"`
	Seed           int64   `yaml:"seed"`
}

// LoadConfig reads the YAML file at filename; if it does not exist the
// configuration comes from environment variables instead.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func loadConfigFromEnv() (*Config, error) {
	cfg := &Config{
		Engine: EngineConfig{
			SavePath:       os.Getenv("ENGINE_SAVE_PATH"),
			MetricsAddress: os.Getenv("ENGINE_METRICS_ADDRESS"),
		},
	}
	if v := os.Getenv("LEAGUE_WEEKS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LEAGUE_WEEKS: %w", err)
		}
		cfg.League.Weeks = n
	}
	if v := os.Getenv("LEAGUE_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid LEAGUE_SEED: %w", err)
		}
		cfg.League.Seed = n
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Engine.SavePath == "" {
		c.Engine.SavePath = "gridiron.db"
	}
	if c.League.Weeks == 0 {
		c.League.Weeks = 18
	}
	if c.League.FreeAgencyDays == 0 {
		c.League.FreeAgencyDays = 7
	}
	if c.League.DraftRounds == 0 {
		c.League.DraftRounds = 5
	}
	if c.League.SalaryCap == 0 {
		c.League.SalaryCap = 255
	}
}

// Settings converts the league defaults into a new league's settings record.
func (c *Config) Settings() LeagueConfig { return c.League }
