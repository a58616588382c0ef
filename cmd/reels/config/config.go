// Package configcmder provides the config command for managing persistent
// reels configuration stored in the .reels/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent reels configuration.

Configuration is stored as config.toml in the .reels/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  storage.root_dir,
  chunk.max_tokens, chunk.max_messages, chunk.lookback_guard,
  memory.max_turns, memory.max_chunks_from_file, memory.lookback_start,
  search.max_keywords,
  recency.decay_rate, recency.max_boost

Use subcommands to get, set, or list configuration values:
  reels config set <key> <value>    Set a configuration value
  reels config get <key>            Get a configuration value
  reels config list                 List all effective configuration values

Examples:
  reels config set chunk.max_tokens 600
  reels config set recency.decay_rate 0.02
  reels config get search.max_keywords
  reels config list`

const configShortDesc string = "Manage persistent reels configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
