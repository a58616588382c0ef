// Package indexcmder provides the index command for folding new conversation
// chunks into a discussion's memory log and full-text index.
package indexcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reelworks/reels/pkg/chat"
	"github.com/reelworks/reels/pkg/chunk"
	"github.com/reelworks/reels/pkg/cliui"
	"github.com/reelworks/reels/pkg/config"
	"github.com/reelworks/reels/pkg/discussion"
	"github.com/reelworks/reels/pkg/logger"
	"github.com/reelworks/reels/pkg/vectormem"
)

type indexCommander struct {
	discussionID string
	messagesPath string

	configDir string
	debug     bool
	logger    *zap.Logger
	cfg       *config.Config
}

const indexLongDesc string = `Fold a conversation's new chunks into a discussion's memory.

Reads a JSON message list ([{"role": "...", "content": "..."}]), splits it
into token-bounded chunks, appends chunks not already present to the memory
log, and indexes them into the discussion's full-text store. Indexing is
resumable: chunks already recorded in the hash ledger are skipped, so
re-running over the same transcript is a no-op.

Example:
  reels index 4f1f9f2a messages.json`

const indexShortDesc string = "Index new conversation chunks"

func NewIndexCmd() *cobra.Command {
	cmder := &indexCommander{}

	cmd := &cobra.Command{
		Use:   "index <discussion-id> <messages.json>",
		Short: indexShortDesc,
		Long:  indexLongDesc,
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			cfger, err := config.NewConfiger(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cmder.cfg, err = cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.discussionID = args[0]
			cmder.messagesPath = args[1]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd)
		},
	}

	return cmd
}

func (c *indexCommander) run(cmd *cobra.Command) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	msgs, err := loadMessages(c.messagesPath)
	if err != nil {
		return err
	}

	rootDir := c.cfg.Storage.RootDir
	if rootDir == "" {
		rootDir = c.configDir
	}
	resolver := discussion.NewResolver(rootDir)

	store, err := resolver.Open(c.discussionID)
	if err != nil {
		return fmt.Errorf("opening discussion: %w", err)
	}

	memLog, err := store.MemoryLog()
	if err != nil {
		return fmt.Errorf("reading memory log: %w", err)
	}

	known := make([]chunk.Chunk, len(memLog))
	for i, rec := range memLog {
		known[i] = chunk.Chunk{Text: rec.Text, Identity: rec.Identity}
	}

	pending := chunk.MessagesSince(msgs, known, chunk.SinceOptions{
		SkipSystem:    true,
		LookbackGuard: c.cfg.Chunk.LookbackGuard,
	})

	chunks := chunk.Split(msgs, chunk.SplitOptions{
		MaxTokens:   c.cfg.Chunk.MaxTokens,
		MaxMessages: c.cfg.Chunk.MaxMessages,
	})

	seen := make(map[string]struct{}, len(memLog))
	for _, rec := range memLog {
		seen[rec.Identity] = struct{}{}
	}

	var fresh []discussion.Record
	for _, ch := range chunks {
		if _, ok := seen[ch.Identity]; ok {
			continue
		}
		fresh = append(fresh, discussion.Record{Text: ch.Text, Identity: ch.Identity})
	}

	if err := store.AppendMemory(fresh...); err != nil {
		return fmt.Errorf("appending memory log: %w", err)
	}

	vstore, err := vectormem.Open(store, vectormem.Config{
		DecayRate:   c.cfg.Recency.DecayRate,
		MaxBoost:    c.cfg.Recency.MaxBoost,
		MaxKeywords: c.cfg.Search.MaxKeywords,
	}, c.logger)
	if err != nil {
		return fmt.Errorf("opening vector store: %w", err)
	}
	defer vstore.Close()

	cmd.SilenceUsage = true
	out := cmd.OutOrStdout()

	var indexed int
	_ = cliui.Step(out, "indexing chunks", func() error {
		indexed = vstore.IndexChunks(context.Background(), chunks)
		return nil
	})

	fmt.Fprintf(out,
		"%d messages since last known chunk, %d new chunks logged, %d indexed\n",
		pending, len(fresh), indexed)

	return nil
}

func loadMessages(path string) ([]chat.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading messages: %w", err)
	}

	var msgs []chat.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("parsing messages: %w", err)
	}

	return msgs, nil
}
