// Package reelscmder
package reelscmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/reelworks/reels/cmd/reels/config"
	gapcmder "github.com/reelworks/reels/cmd/reels/gap"
	indexcmder "github.com/reelworks/reels/cmd/reels/index"
	initcmder "github.com/reelworks/reels/cmd/reels/init"
	recallcmder "github.com/reelworks/reels/cmd/reels/recall"
	searchcmder "github.com/reelworks/reels/cmd/reels/search"
	summarycmder "github.com/reelworks/reels/cmd/reels/summary"
	versioncmder "github.com/reelworks/reels/cmd/reels/version"
)

const reelsLongDesc string = `Reels is the conversational-memory layer for LLM middleware.

Work with a discussion's memory using:
  reels init             Mint a new discussion id
  reels index            Fold new conversation chunks into a discussion's memory
  reels search           Keyword search over a discussion's indexed memories
  reels recall           Show recalled memory context for a discussion
  reels gap              Show memory chunks not yet summarized
  reels summary          Show or append a discussion summary
  reels config           Manage persistent reels configuration`

const reelsShortDesc string = "Reels - Conversational Memory"

func NewReelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reels",
		Short: reelsShortDesc,
		Long:  reelsLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .reels/ directory")

	// Add subcommands
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(indexcmder.NewIndexCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(recallcmder.NewRecallCmd())
	cmd.AddCommand(gapcmder.NewGapCmd())
	cmd.AddCommand(summarycmder.NewSummaryCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
