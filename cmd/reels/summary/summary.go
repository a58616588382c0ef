// Package summarycmder provides the summary command for reading and
// appending discussion summaries.
package summarycmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/reelworks/reels/pkg/chunk"
	"github.com/reelworks/reels/pkg/config"
	"github.com/reelworks/reels/pkg/discussion"
	"github.com/reelworks/reels/pkg/logger"
	"github.com/reelworks/reels/pkg/memory"
)

type summaryCommander struct {
	discussionID string

	configDir string
	cfg       *config.Config
}

const summaryLongDesc string = `Show the most recent summary for a discussion.

With "add", append a summary produced by an external summarizer. The new
summary's boundary identity is taken from the last unsummarized memory
chunk, so a following "reels gap" reports the discussion as caught up.

Example:
  reels summary 4f1f9f2a
  reels summary add 4f1f9f2a < summary.txt`

const summaryShortDesc string = "Show or append a discussion summary"

func NewSummaryCmd() *cobra.Command {
	cmder := &summaryCommander{}

	cmd := &cobra.Command{
		Use:     "summary <discussion-id>",
		Short:   summaryShortDesc,
		Long:    summaryLongDesc,
		Args:    cobra.ExactArgs(1),
		PreRunE: cmder.loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.discussionID = args[0]
			return cmder.show(cmd)
		},
	}

	addCmd := &cobra.Command{
		Use:     "add <discussion-id>",
		Short:   "Append a summary read from stdin",
		Args:    cobra.ExactArgs(1),
		PreRunE: cmder.loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.discussionID = args[0]
			return cmder.add(cmd)
		},
	}
	cmd.AddCommand(addCmd)

	return cmd
}

func (c *summaryCommander) loadConfig(cmd *cobra.Command, _ []string) error {
	c.configDir, _ = cmd.Flags().GetString("config-dir")

	cfger, err := config.NewConfiger(c.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	c.cfg, err = cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	return nil
}

func (c *summaryCommander) rootDir() string {
	if c.cfg.Storage.RootDir != "" {
		return c.cfg.Storage.RootDir
	}
	return c.configDir
}

func (c *summaryCommander) service(cmd *cobra.Command) *memory.Service {
	debug, _ := cmd.Flags().GetBool("debug")

	return memory.NewService(
		discussion.NewResolver(c.rootDir()),
		chunk.SplitOptions{
			MaxTokens:   c.cfg.Chunk.MaxTokens,
			MaxMessages: c.cfg.Chunk.MaxMessages,
		},
		logger.NewLogger(debug),
	)
}

func (c *summaryCommander) show(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	fmt.Fprintln(cmd.OutOrStdout(), c.service(cmd).CurrentSummary(c.discussionID))
	return nil
}

func (c *summaryCommander) add(cmd *cobra.Command) error {
	svc := c.service(cmd)

	gap := svc.GapSinceLastSummary(c.discussionID)
	if len(gap) == 0 {
		return fmt.Errorf("nothing to summarize for discussion %s", c.discussionID)
	}

	text, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("reading summary from stdin: %w", err)
	}
	if len(text) == 0 {
		return fmt.Errorf("empty summary")
	}

	store, err := discussion.NewResolver(c.rootDir()).Open(c.discussionID)
	if err != nil {
		return fmt.Errorf("opening discussion: %w", err)
	}

	// Boundary identity comes from the last gap chunk: the summary is
	// declared to have consumed everything up to and including it.
	boundary := gap[len(gap)-1].Identity
	if err := store.AppendSummary(discussion.Record{
		Text:     string(text),
		Identity: boundary,
	}); err != nil {
		return fmt.Errorf("appending summary: %w", err)
	}

	cmd.SilenceUsage = true
	fmt.Fprintf(cmd.OutOrStdout(), "summary recorded at boundary %s\n", boundary[:12])

	return nil
}
