package config

const (
	defaultChunkMaxTokens     = 400
	defaultChunkMaxMessages   = 10
	defaultChunkLookbackGuard = 2

	defaultMemoryMaxTurns          = 20
	defaultMemoryMaxChunksFromFile = 3
	defaultMemoryLookbackStart     = 0

	defaultSearchMaxKeywords = 30

	defaultRecencyDecayRate = 0.01
	defaultRecencyMaxBoost  = 2.5
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Chunk: ChunkConfig{
			MaxTokens:     defaultChunkMaxTokens,
			MaxMessages:   defaultChunkMaxMessages,
			LookbackGuard: defaultChunkLookbackGuard,
		},
		Memory: MemoryConfig{
			MaxTurns:          defaultMemoryMaxTurns,
			MaxChunksFromFile: defaultMemoryMaxChunksFromFile,
			LookbackStart:     defaultMemoryLookbackStart,
		},
		Search: SearchConfig{
			MaxKeywords: defaultSearchMaxKeywords,
		},
		Recency: RecencyConfig{
			DecayRate: defaultRecencyDecayRate,
			MaxBoost:  defaultRecencyMaxBoost,
		},
	}
}
