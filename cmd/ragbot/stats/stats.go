// Package statscmder provides the stats command for inspecting the vector
// collection.
package statscmder

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/cmd/ragbot/wire"
)

const statsShortDesc string = "Show vector collection statistics"

func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: statsShortDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := wire.Load(cmd)
			if err != nil {
				return err
			}

			store, err := wire.VectorStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := store.Healthy(ctx); err != nil {
				return fmt.Errorf("vector store not ready: %w", err)
			}

			stats, err := store.Stats(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("collection: %s\n", cfg.VectorStore.Collection)
			fmt.Printf("points:     %d\n", stats.Count)
			fmt.Printf("status:     %s\n", stats.Status)
			return nil
		},
	}

	return cmd
}
