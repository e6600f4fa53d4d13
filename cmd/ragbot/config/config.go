// Package configcmder provides the config command for managing persistent
// ragbot configuration stored in the .ragbot/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent ragbot configuration.

Configuration is stored as config.toml in the .ragbot/ directory and provides
default values for command flags. Environment variables with the RAGBOT_
prefix always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  api.listen,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  vector_store.provider, vector_store.target, vector_store.collection,
  generation.provider, generation.model,
  ingest.docs_root, retrieval.top_k

Use subcommands to get, set, or list configuration values:
  ragbot config set <key> <value>    Set a configuration value
  ragbot config get <key>            Get a configuration value
  ragbot config list                 List all configuration values

Examples:
  ragbot config set embedding.provider cohere
  ragbot config set vector_store.target https://qdrant.example.com:6334
  ragbot config get generation.model
  ragbot config list`

const configShortDesc string = "Manage persistent ragbot configuration"

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
