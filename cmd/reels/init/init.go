// Package initcmder provides the init command for minting a new discussion.
package initcmder

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/reelworks/reels/pkg/discussion"
)

const initLongDesc string = `Mint a new discussion id and create its storage directory.

The id is printed to stdout so it can be captured and passed to the other
reels commands:

  id=$(reels init)
  reels index "$id" messages.json`

const initShortDesc string = "Mint a new discussion id"

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			id := uuid.NewString()
			resolver := discussion.NewResolver(configDir)
			store, err := resolver.Open(id)
			if err != nil {
				return fmt.Errorf("creating discussion: %w", err)
			}

			cmd.SilenceUsage = true
			fmt.Fprintln(cmd.OutOrStdout(), store.ID())

			return nil
		},
	}

	return cmd
}
