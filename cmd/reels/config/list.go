package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reelworks/reels/pkg/config"
)

const listLongDesc string = `List all effective configuration values.

Displays every configuration key with the value that commands will actually
use, after merging defaults, the config.toml file in the .reels/ directory,
and REELS_-prefixed environment variables.

Examples:
  reels config list
  REELS_SEARCH_MAX_KEYWORDS=10 reels config list`

const listShortDesc string = "List all effective configuration values"

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runList(configDir)
		},
	}

	return cmd
}

func runList(configDir string) error {
	v, err := config.InitViper(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if used := v.ConfigFileUsed(); used != "" {
		fmt.Printf("Using config file: %s\n\n", used)
	} else {
		fmt.Print("No config file found. Using default config.\n\n")
	}

	keys := config.ValidConfigKeys()

	// Find the longest key name for alignment.
	maxLen := 0
	for _, k := range keys {
		if len(k) > maxLen {
			maxLen = len(k)
		}
	}

	for _, key := range keys {
		value := v.GetString(key)
		if value == "" {
			fmt.Printf("%-*s = <not set>\n", maxLen, key)
		} else {
			fmt.Printf("%-*s = %q\n", maxLen, key, value)
		}
	}

	return nil
}
