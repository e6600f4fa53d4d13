// Package versioncmder provides the version command.
package versioncmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/utils"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ragbot version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("ragbot %s (%s, built %s)\n", utils.Version, utils.Sha, utils.Buildtime)
		},
	}
}
