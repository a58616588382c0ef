package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/reelworks/reels/pkg/discussion"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via .reels/ resolution), and binds environment variables
// with the REELS_ prefix.
//
// Config precedence (highest to lowest):
//  1. Environment variables (REELS_STORAGE_ROOT_DIR, REELS_SEARCH_MAX_KEYWORDS, etc.)
//  2. config.toml file values
//  3. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via .reels/ resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	target, err := discussion.NewResolver(configDir).Root()
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: REELS_STORAGE_ROOT_DIR, REELS_CHUNK_MAX_TOKENS, etc.
	v.SetEnvPrefix("REELS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Storage
	v.SetDefault("storage.root_dir", d.Storage.RootDir)

	// Chunking
	v.SetDefault("chunk.max_tokens", d.Chunk.MaxTokens)
	v.SetDefault("chunk.max_messages", d.Chunk.MaxMessages)
	v.SetDefault("chunk.lookback_guard", d.Chunk.LookbackGuard)

	// Memory recall
	v.SetDefault("memory.max_turns", d.Memory.MaxTurns)
	v.SetDefault("memory.max_chunks_from_file", d.Memory.MaxChunksFromFile)
	v.SetDefault("memory.lookback_start", d.Memory.LookbackStart)

	// Search
	v.SetDefault("search.max_keywords", d.Search.MaxKeywords)

	// Recency boost
	v.SetDefault("recency.decay_rate", d.Recency.DecayRate)
	v.SetDefault("recency.max_boost", d.Recency.MaxBoost)
}
