package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"barbu/internal/domain"

	"gopkg.in/yaml.v3"
)

type RulesConfig struct {
	// SpecialDoubleOverlap is "skip" or "additive"; see domain.OverlapPolicy.
	SpecialDoubleOverlap string `yaml:"special_double_overlap"`
}

type StoreConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

type ExportConfig struct {
	Dir      string `yaml:"dir"`
	Compress bool   `yaml:"compress"`
}

type ShareConfig struct {
	Issuer     string `yaml:"issuer"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

type GameConfig struct {
	Rules  RulesConfig  `yaml:"rules"`
	Store  StoreConfig  `yaml:"store"`
	Export ExportConfig `yaml:"export"`
	Share  ShareConfig  `yaml:"share"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Default returns the configuration used when no file is provided.
func Default() *GameConfig {
	return &GameConfig{
		Rules:  RulesConfig{SpecialDoubleOverlap: "skip"},
		Store:  StoreConfig{SQLitePath: "data/barbu.db"},
		Export: ExportConfig{Dir: "exports"},
		Share:  ShareConfig{Issuer: "barbu", TTLMinutes: 24 * 60},
	}
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*GameConfig, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if _, err := domain.ParseOverlapPolicy(c.Rules.SpecialDoubleOverlap); err != nil {
		return nil, fmt.Errorf("rules.special_double_overlap: %w", err)
	}
	if c.Share.TTLMinutes <= 0 {
		return nil, fmt.Errorf("share.ttl_minutes must be positive, got %d", c.Share.TTLMinutes)
	}
	return c, nil
}

// LoadGameConfig loads the game configuration from the given path once.
// An empty path keeps the defaults.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		if path == "" {
			cfg = Default()
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}
		cfg, loadErr = Parse(data)
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or the defaults when
// nothing was loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		return Default()
	}
	return cfg
}

// DomainRules converts the rules section for the scoring engine.
func (c *GameConfig) DomainRules() domain.Rules {
	overlap, err := domain.ParseOverlapPolicy(c.Rules.SpecialDoubleOverlap)
	if err != nil {
		return domain.DefaultRules()
	}
	return domain.Rules{SpecialOverlap: overlap}
}

func (c *GameConfig) ShareTTL() time.Duration {
	return time.Duration(c.Share.TTLMinutes) * time.Minute
}
