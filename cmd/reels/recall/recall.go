// Package recallcmder provides the recall command for printing a
// discussion's memory context.
package recallcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reelworks/reels/pkg/chunk"
	"github.com/reelworks/reels/pkg/config"
	"github.com/reelworks/reels/pkg/discussion"
	"github.com/reelworks/reels/pkg/logger"
	"github.com/reelworks/reels/pkg/memory"
)

type recallCommander struct {
	discussionID string
	maxChunks    int
	all          bool

	configDir string
	cfg       *config.Config
}

const recallLongDesc string = `Print the recalled memory context for a discussion.

Shows the most recent persisted memory chunks, the same context the memory
service would hand to a prompt. Use --all to dump every chunk.

Example:
  reels recall 4f1f9f2a
  reels recall 4f1f9f2a --all`

const recallShortDesc string = "Show recalled memory context"

func NewRecallCmd() *cobra.Command {
	cmder := &recallCommander{}

	cmd := &cobra.Command{
		Use:   "recall <discussion-id>",
		Short: recallShortDesc,
		Long:  recallLongDesc,
		Args:  cobra.ExactArgs(1),
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
			return cmder.run(cmd)
		},
	}

	cmd.Flags().IntVar(&cmder.maxChunks, "chunks", 0, "Number of recent chunks to show (0 for default)")
	cmd.Flags().BoolVar(&cmder.all, "all", false, "Show every persisted memory chunk")

	return cmd
}

func (c *recallCommander) run(cmd *cobra.Command) error {
	debug, _ := cmd.Flags().GetBool("debug")
	log := logger.NewLogger(debug)
	defer func() { _ = log.Sync() }()

	rootDir := c.cfg.Storage.RootDir
	if rootDir == "" {
		rootDir = c.configDir
	}

	svc := memory.NewService(
		discussion.NewResolver(rootDir),
		chunk.SplitOptions{
			MaxTokens:   c.cfg.Chunk.MaxTokens,
			MaxMessages: c.cfg.Chunk.MaxMessages,
		},
		log,
	)

	limit := c.maxChunks
	if c.all {
		limit = -1
	}

	cmd.SilenceUsage = true
	fmt.Fprintln(cmd.OutOrStdout(),
		svc.RecentMemories(nil, c.discussionID, c.cfg.Memory.MaxTurns, limit, c.cfg.Memory.LookbackStart))

	return nil
}
