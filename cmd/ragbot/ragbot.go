// Package ragbotcmder provides the root ragbot command.
package ragbotcmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/smartydani12345/physical-ai-humanoid-robotics/cmd/ragbot/ask"
	configcmder "github.com/smartydani12345/physical-ai-humanoid-robotics/cmd/ragbot/config"
	indexcmder "github.com/smartydani12345/physical-ai-humanoid-robotics/cmd/ragbot/index"
	servecmder "github.com/smartydani12345/physical-ai-humanoid-robotics/cmd/ragbot/serve"
	statscmder "github.com/smartydani12345/physical-ai-humanoid-robotics/cmd/ragbot/stats"
	versioncmder "github.com/smartydani12345/physical-ai-humanoid-robotics/cmd/ragbot/version"
)

const ragbotLongDesc string = `Ragbot answers questions about the Physical AI and Humanoid Robotics
textbook using retrieval-augmented generation.

Common workflows:
  ragbot index         Chunk, embed, and index the textbook
  ragbot serve         Run the chat API server
  ragbot ask           Ask a question from the terminal
  ragbot stats         Show vector collection statistics
  ragbot config list   Show configuration keys`

const ragbotShortDesc string = "Ragbot - textbook question answering"

func NewRagbotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ragbot",
		Short: ragbotShortDesc,
		Long:  ragbotLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().StringP("config", "c", "", "Config directory (default: ~/.ragbot)")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(indexcmder.NewIndexCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(statscmder.NewStatsCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
