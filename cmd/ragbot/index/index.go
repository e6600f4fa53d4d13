// Package indexcmder provides the index command for building the vector
// collection from the textbook sources.
package indexcmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/cmd/ragbot/wire"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/cliui"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/ingest"
)

type indexCommander struct {
	reindex bool
	docs    string
}

const indexLongDesc string = `Chunk, embed, and index the textbook's markdown sources.

By default new chunks are upserted into the existing collection. With
--reindex the collection is dropped and rebuilt from scratch.`

const indexShortDesc string = "Index the textbook into the vector store"

func NewIndexCmd() *cobra.Command {
	cmder := &indexCommander{}

	cmd := &cobra.Command{
		Use:   "index",
		Short: indexShortDesc,
		Long:  indexLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := wire.Load(cmd)
			if err != nil {
				return err
			}

			if cmder.docs != "" {
				cfg.Ingest.DocsRoot = cmder.docs
			}

			indexer, embedder, store, err := wire.Indexer(cfg, log)
			if err != nil {
				return err
			}
			defer embedder.Close()
			defer store.Close()

			ctx := context.Background()

			msg := "Indexing textbook"
			if cmder.reindex {
				msg = "Rebuilding collection"
			}

			var report ingest.Report
			err = cliui.Step(os.Stdout, msg, func() error {
				var stepErr error
				if cmder.reindex {
					report, stepErr = indexer.Reindex(ctx)
				} else {
					report, stepErr = indexer.IngestAll(ctx)
				}
				return stepErr
			})
			if err != nil {
				return err
			}

			fmt.Printf("documents processed: %d\n", report.DocumentsProcessed)
			fmt.Printf("chunks created:      %d\n", report.ChunksCreated)
			fmt.Printf("chunks indexed:      %d\n", report.ChunksIndexed)
			for _, e := range report.Errors {
				fmt.Printf("error: %s\n", e)
			}

			if len(report.Errors) > 0 {
				return fmt.Errorf("%d batch(es) failed", len(report.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&cmder.reindex, "reindex", "r", false, "Drop and rebuild the collection")
	cmd.Flags().StringVar(&cmder.docs, "docs", "", "Docs directory (default: config ingest.docs_root)")

	return cmd
}
