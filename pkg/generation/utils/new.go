// Package utils constructs the configured generation driver.
package utils

import (
	"fmt"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/config"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/generation"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/generation/ollama"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/generation/openai"
)

// New builds the generator named by cfg.Generation.Provider. The gemini and
// grok providers are the openai driver pointed at their compatible endpoints;
// an explicit target overrides the provider's stock base URL.
func New(cfg *config.Config) (generation.Generator, error) {
	gen := cfg.Generation

	switch gen.Provider {
	case "gemini", "grok", "openai":
		target := gen.Target
		if target == "" {
			switch gen.Provider {
			case "gemini":
				target = openai.GeminiBaseURL
			case "grok":
				target = openai.GrokBaseURL
			}
		}
		return openai.New(openai.Config{
			Target:      target,
			APIKey:      gen.APIKey,
			Model:       gen.Model,
			MaxTokens:   gen.MaxTokens,
			Temperature: gen.Temperature,
		})
	case "ollama":
		return ollama.New(ollama.Config{
			Target:      gen.Target,
			Model:       gen.Model,
			MaxTokens:   gen.MaxTokens,
			Temperature: gen.Temperature,
		})
	default:
		return nil, fmt.Errorf("unknown generation provider: %q", gen.Provider)
	}
}
