package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent reels configuration stored as config.toml
// in the .reels/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version int           `toml:"version"`
	Storage StorageConfig `toml:"storage"`
	Chunk   ChunkConfig   `toml:"chunk"`
	Memory  MemoryConfig  `toml:"memory"`
	Search  SearchConfig  `toml:"search"`
	Recency RecencyConfig `toml:"recency"`
}

// StorageConfig holds filesystem settings shared by all discussion state.
type StorageConfig struct {
	// RootDir overrides the .reels/ directory resolution when set.
	RootDir string `toml:"root_dir,omitempty"`
}

// ChunkConfig bounds how conversation history is split into chunks.
type ChunkConfig struct {
	MaxTokens     int `toml:"max_tokens,omitempty"`
	MaxMessages   int `toml:"max_messages,omitempty"`
	LookbackGuard int `toml:"lookback_guard,omitempty"`
}

// MemoryConfig holds recall settings for the memory service.
type MemoryConfig struct {
	MaxTurns          int `toml:"max_turns,omitempty"`
	MaxChunksFromFile int `toml:"max_chunks_from_file,omitempty"`
	LookbackStart     int `toml:"lookback_start,omitempty"`
}

// SearchConfig holds keyword-search settings for the vector memory store.
type SearchConfig struct {
	MaxKeywords int `toml:"max_keywords,omitempty"`
}

// RecencyConfig tunes the recency boost applied to search ranking.
type RecencyConfig struct {
	DecayRate float64 `toml:"decay_rate,omitempty"`
	MaxBoost  float64 `toml:"max_boost,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.root_dir": {
		get: func(c *Config) string { return c.Storage.RootDir },
		set: func(c *Config, v string) error { c.Storage.RootDir = v; return nil },
	},
	"chunk.max_tokens": {
		get: func(c *Config) string { return strconv.Itoa(c.Chunk.MaxTokens) },
		set: func(c *Config, v string) error { return setInt(&c.Chunk.MaxTokens, v) },
	},
	"chunk.max_messages": {
		get: func(c *Config) string { return strconv.Itoa(c.Chunk.MaxMessages) },
		set: func(c *Config, v string) error { return setInt(&c.Chunk.MaxMessages, v) },
	},
	"chunk.lookback_guard": {
		get: func(c *Config) string { return strconv.Itoa(c.Chunk.LookbackGuard) },
		set: func(c *Config, v string) error { return setInt(&c.Chunk.LookbackGuard, v) },
	},
	"memory.max_turns": {
		get: func(c *Config) string { return strconv.Itoa(c.Memory.MaxTurns) },
		set: func(c *Config, v string) error { return setInt(&c.Memory.MaxTurns, v) },
	},
	"memory.max_chunks_from_file": {
		get: func(c *Config) string { return strconv.Itoa(c.Memory.MaxChunksFromFile) },
		set: func(c *Config, v string) error { return setInt(&c.Memory.MaxChunksFromFile, v) },
	},
	"memory.lookback_start": {
		get: func(c *Config) string { return strconv.Itoa(c.Memory.LookbackStart) },
		set: func(c *Config, v string) error { return setInt(&c.Memory.LookbackStart, v) },
	},
	"search.max_keywords": {
		get: func(c *Config) string { return strconv.Itoa(c.Search.MaxKeywords) },
		set: func(c *Config, v string) error { return setInt(&c.Search.MaxKeywords, v) },
	},
	"recency.decay_rate": {
		get: func(c *Config) string { return formatFloat(c.Recency.DecayRate) },
		set: func(c *Config, v string) error { return setFloat(&c.Recency.DecayRate, v) },
	},
	"recency.max_boost": {
		get: func(c *Config) string { return formatFloat(c.Recency.MaxBoost) },
		set: func(c *Config, v string) error { return setFloat(&c.Recency.MaxBoost, v) },
	},
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("expected integer, got %q", v)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("expected number, got %q", v)
	}
	*dst = f
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
