// Package searchcmder provides the search command for keyword search over a
// discussion's indexed memories.
package searchcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reelworks/reels/pkg/cliui"
	"github.com/reelworks/reels/pkg/config"
	"github.com/reelworks/reels/pkg/discussion"
	"github.com/reelworks/reels/pkg/logger"
	"github.com/reelworks/reels/pkg/utils"
	"github.com/reelworks/reels/pkg/vectormem"
)

type searchCommander struct {
	discussionID string
	query        string
	limit        int

	configDir string
	debug     bool
	logger    *zap.Logger
	cfg       *config.Config
}

const searchLongDesc string = `Keyword search over a discussion's indexed memories.

The query is a semicolon-delimited list of keyword phrases, OR-combined and
ranked by full-text relevance weighted by recency: recent memories rank
higher than equally-relevant old ones.

Example:
  reels search 4f1f9f2a "database migration; sqlite"
  reels search 4f1f9f2a "error handling" --limit 10`

const searchShortDesc string = "Search a discussion's memories"

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <discussion-id> <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
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
			cmder.query = args[1]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd)
		},
	}

	cmd.Flags().IntVarP(&cmder.limit, "limit", "n", 5, "Number of results to return")

	return cmd
}

func (c *searchCommander) run(cmd *cobra.Command) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	rootDir := c.cfg.Storage.RootDir
	if rootDir == "" {
		rootDir = c.configDir
	}

	store, err := discussion.NewResolver(rootDir).Open(c.discussionID)
	if err != nil {
		return fmt.Errorf("opening discussion: %w", err)
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

	results := vstore.Search(context.Background(), c.query, c.limit)

	cmd.SilenceUsage = true
	out := cmd.OutOrStdout()

	if len(results) == 0 {
		fmt.Fprintln(out, cliui.DimStyle.Render("no results"))
		return nil
	}

	for i, r := range results {
		fmt.Fprintf(out, "%s %s %s\n",
			cliui.RankStyle.Render(fmt.Sprintf("%d.", i+1)),
			cliui.DateStyle.Render(r.DateAdded),
			cliui.ScoreStyle.Render(fmt.Sprintf("score=%.3f", r.Score)),
		)
		fmt.Fprintf(out, "   %s\n", cliui.PreviewStyle.Render(utils.Truncate(r.Text, 160)))
	}

	return nil
}
