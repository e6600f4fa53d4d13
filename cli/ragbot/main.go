package main

import (
	"os"

	ragbotcmder "github.com/smartydani12345/physical-ai-humanoid-robotics/cmd/ragbot"
)

func main() {
	cmd := ragbotcmder.NewRagbotCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
