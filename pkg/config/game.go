package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// GameConfig holds gameplay tuning read from an optional YAML file.
type GameConfig struct {
	RankedBand       float64 `yaml:"ranked_band"`
	InviteTTLMinutes int     `yaml:"invite_ttl_minutes"`
	LeaderboardSize  int     `yaml:"leaderboard_size"`
}

func DefaultGameConfig() GameConfig {
	return GameConfig{
		RankedBand:       0.25,
		InviteTTLMinutes: 10,
		LeaderboardSize:  9,
	}
}

// LoadGameConfig reads path over the defaults. An empty path yields the defaults.
func LoadGameConfig(path string) (GameConfig, error) {
	cfg := DefaultGameConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read game config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse game config: %w", err)
	}
	if cfg.RankedBand <= 0 || cfg.InviteTTLMinutes <= 0 || cfg.LeaderboardSize <= 0 {
		return cfg, fmt.Errorf("game config %s: values must be positive", path)
	}
	return cfg, nil
}

func (g GameConfig) InviteTTL() time.Duration {
	return time.Duration(g.InviteTTLMinutes) * time.Minute
}
