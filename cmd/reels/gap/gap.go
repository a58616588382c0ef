// Package gapcmder provides the gap command for showing memory chunks not
// yet consumed by a summarizer.
package gapcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reelworks/reels/pkg/chunk"
	"github.com/reelworks/reels/pkg/cliui"
	"github.com/reelworks/reels/pkg/config"
	"github.com/reelworks/reels/pkg/discussion"
	"github.com/reelworks/reels/pkg/logger"
	"github.com/reelworks/reels/pkg/memory"
	"github.com/reelworks/reels/pkg/utils"
)

type gapCommander struct {
	discussionID string

	configDir string
	cfg       *config.Config
}

const gapLongDesc string = `Show the memory chunks produced since the last summary.

These are exactly the chunks a summarizer has not consumed yet. An empty
output means the discussion is fully caught up.

Example:
  reels gap 4f1f9f2a`

const gapShortDesc string = "Show unsummarized memory chunks"

func NewGapCmd() *cobra.Command {
	cmder := &gapCommander{}

	cmd := &cobra.Command{
		Use:   "gap <discussion-id>",
		Short: gapShortDesc,
		Long:  gapLongDesc,
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

	return cmd
}

func (c *gapCommander) run(cmd *cobra.Command) error {
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

	gap := svc.GapSinceLastSummary(c.discussionID)

	cmd.SilenceUsage = true
	out := cmd.OutOrStdout()

	if len(gap) == 0 {
		fmt.Fprintln(out, cliui.DimStyle.Render("fully caught up"))
		return nil
	}

	for _, rec := range gap {
		fmt.Fprintf(out, "%s %s\n",
			cliui.DateStyle.Render(rec.Identity[:12]),
			cliui.PreviewStyle.Render(utils.Truncate(rec.Text, 120)),
		)
	}

	return nil
}
