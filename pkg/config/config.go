package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/reelworks/reels/pkg/discussion"
)

const (
	configFile = "config.toml"

	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0
)

type Configer struct {
	targetPath string
}

func NewConfiger(override string) (*Configer, error) {
	cfger := &Configer{}

	target, err := discussion.NewResolver(override).Root()
	if err != nil {
		return nil, err
	}

	// If no .reels/ directory was resolved, targetPath stays empty;
	// LoadConfig will return defaults and SaveConfig will error clearly.
	if target == "" {
		return cfger, nil
	}

	path := filepath.Join(target, configFile)
	_, err = os.Stat(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Always set targetPath when the directory exists so SaveConfig
	// can create or overwrite the file.
	cfger.targetPath = path

	return cfger, nil
}

func (c *Configer) GetTarget() string {
	return c.targetPath
}

// IsValidConfigKey returns true if the given key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

// ValidConfigKeys returns all supported configuration keys, sorted.
func ValidConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadConfig loads the configuration from config.toml in the target .reels/
// directory. If the file does not exist, returns NewDefaultConfig() so callers
// always receive a fully-populated Config with sane defaults. Fields
// explicitly set in the file override the defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	if c.targetPath == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(c.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Merge in defaults: fill in any zero-value fields from the loaded config
	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults fills zero-value fields in cfg with values from NewDefaultConfig().
func applyDefaults(cfg *Config) {
	defaults := NewDefaultConfig()

	if cfg.Version == 0 {
		cfg.Version = defaults.Version
	}

	if cfg.Chunk.MaxTokens == 0 {
		cfg.Chunk.MaxTokens = defaults.Chunk.MaxTokens
	}
	if cfg.Chunk.MaxMessages == 0 {
		cfg.Chunk.MaxMessages = defaults.Chunk.MaxMessages
	}
	if cfg.Chunk.LookbackGuard == 0 {
		cfg.Chunk.LookbackGuard = defaults.Chunk.LookbackGuard
	}

	if cfg.Memory.MaxTurns == 0 {
		cfg.Memory.MaxTurns = defaults.Memory.MaxTurns
	}
	if cfg.Memory.MaxChunksFromFile == 0 {
		cfg.Memory.MaxChunksFromFile = defaults.Memory.MaxChunksFromFile
	}

	if cfg.Search.MaxKeywords == 0 {
		cfg.Search.MaxKeywords = defaults.Search.MaxKeywords
	}

	if cfg.Recency.DecayRate == 0 {
		cfg.Recency.DecayRate = defaults.Recency.DecayRate
	}
	if cfg.Recency.MaxBoost == 0 {
		cfg.Recency.MaxBoost = defaults.Recency.MaxBoost
	}
}

// SaveConfig persists the configuration to config.toml in the target .reels/ directory.
func (c *Configer) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}

	if c.targetPath == "" {
		return errors.New("cannot save empty target path")
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SetConfigValue loads the config, sets the given key to the given value, and saves it.
// Returns an error if the key is not a valid config key.
func (c *Configer) SetConfigValue(key string, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	if err := info.set(cfg, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	return c.SaveConfig(cfg)
}

// GetConfigValue loads the config and returns the value for the given key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}

	return info.get(cfg), nil
}
