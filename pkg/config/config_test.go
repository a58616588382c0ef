package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reelworks/reels/pkg/config"
)

var _ = Describe("Configer", func() {
	var tmpDir string
	var cfger *config.Configer

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())

		cfger, err = config.NewConfiger(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadConfig", func() {
		It("returns defaults when no file exists", func() {
			cfg, err := cfger.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Chunk.MaxTokens).To(Equal(400))
			Expect(cfg.Chunk.MaxMessages).To(Equal(10))
			Expect(cfg.Memory.MaxTurns).To(Equal(20))
			Expect(cfg.Search.MaxKeywords).To(Equal(30))
			Expect(cfg.Recency.DecayRate).To(Equal(0.01))
			Expect(cfg.Recency.MaxBoost).To(Equal(2.5))
		})

		It("fills zero-value fields from defaults", func() {
			path := filepath.Join(tmpDir, "config.toml")
			Expect(os.WriteFile(path, []byte("[chunk]\nmax_tokens = 123\n"), 0o600)).To(Succeed())

			cfg, err := cfger.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Chunk.MaxTokens).To(Equal(123))
			Expect(cfg.Chunk.MaxMessages).To(Equal(10))
			Expect(cfg.Recency.MaxBoost).To(Equal(2.5))
		})

		It("errors on malformed toml", func() {
			path := filepath.Join(tmpDir, "config.toml")
			Expect(os.WriteFile(path, []byte("not [valid toml"), 0o600)).To(Succeed())

			_, err := cfger.LoadConfig()
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SaveConfig", func() {
		It("round-trips through the file", func() {
			cfg := config.NewDefaultConfig()
			cfg.Chunk.MaxTokens = 777
			Expect(cfger.SaveConfig(cfg)).To(Succeed())

			loaded, err := cfger.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Chunk.MaxTokens).To(Equal(777))
		})

		It("rejects a nil config", func() {
			Expect(cfger.SaveConfig(nil)).NotTo(Succeed())
		})
	})

	Describe("config keys", func() {
		It("validates key names", func() {
			Expect(config.IsValidConfigKey("chunk.max_tokens")).To(BeTrue())
			Expect(config.IsValidConfigKey("nonsense.key")).To(BeFalse())
		})

		It("sets and gets a value by dotted key", func() {
			Expect(cfger.SetConfigValue("memory.max_turns", "42")).To(Succeed())

			got, err := cfger.GetConfigValue("memory.max_turns")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal("42"))
		})

		It("handles float keys", func() {
			Expect(cfger.SetConfigValue("recency.decay_rate", "0.05")).To(Succeed())

			got, err := cfger.GetConfigValue("recency.decay_rate")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal("0.05"))
		})

		It("rejects a non-numeric value for an integer key", func() {
			Expect(cfger.SetConfigValue("chunk.max_tokens", "lots")).NotTo(Succeed())
		})

		It("rejects unknown keys", func() {
			Expect(cfger.SetConfigValue("bogus", "1")).NotTo(Succeed())
			_, err := cfger.GetConfigValue("bogus")
			Expect(err).To(HaveOccurred())
		})
	})
})
