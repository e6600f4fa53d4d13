// Package servecmder provides the serve command running the chat API server.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/spf13/cobra"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/api"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/api/mcp"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/cmd/ragbot/wire"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/config"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/convo"
	convomem "github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/convo/inmemory"
	convopg "github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/convo/postgres"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/eventstream"
	eventkafka "github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/eventstream/kafka"
	genutils "github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/generation/utils"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/logger"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/prompt"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/rag"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/retrieval"
)

type serveCommander struct {
	listen  string
	noMCP   bool
	logFile string
	logger  *slog.Logger
}

const serveLongDesc string = `Run the ragbot chat API server.

Serves the chat, conversation, and content management endpoints, plus an MCP
endpoint at /mcp for agent clients.`

const serveShortDesc string = "Run the chat API server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := wire.Load(cmd)
			if err != nil {
				return err
			}
			cmder.logger = log

			if cmder.logFile != "" {
				f, err := os.OpenFile(cmder.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
				defer f.Close()
				cmder.logger = logger.Multi(log, logger.New(
					logger.WithJSON(true),
					logger.WithWriter(f),
				))
			}

			return cmder.run(cfg)
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address to listen on (default: config api.listen)")
	cmd.Flags().BoolVar(&cmder.noMCP, "no-mcp", false, "Disable the MCP endpoint")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

func (c *serveCommander) run(cfg *config.Config) error {
	log := c.logger

	listen := c.listen
	if listen == "" {
		listen = cfg.API.Listen
	}

	indexer, embedder, store, err := wire.Indexer(cfg, log)
	if err != nil {
		return err
	}
	defer embedder.Close()
	defer store.Close()

	generator, err := genutils.New(cfg)
	if err != nil {
		return fmt.Errorf("creating generator: %w", err)
	}
	defer generator.Close()

	conversations, err := c.newConversationStore(cfg)
	if err != nil {
		return err
	}
	defer conversations.Close()

	events := c.newPublisher(cfg)
	defer events.Close()

	retriever := retrieval.New(embedder, store)

	service := rag.New(rag.Config{
		Retriever: retriever,
		Assembler: prompt.New(cfg.Retrieval.MinScore, cfg.Retrieval.MaxContextChars),
		Generator: generator,
		Store:     conversations,
		Events:    events,
		Vectors:   store,
		TopK:      cfg.Retrieval.TopK,
		Logger:    log,
	})

	server := api.New(api.Config{
		ListenAddr: listen,
		Token:      cfg.API.Token,
	}, api.Deps{
		RAG:           service,
		Search:        retriever,
		Ingest:        indexer,
		Conversations: conversations,
		Logger:        log,
	})

	if !c.noMCP {
		mcpServer, err := mcp.NewServer(mcp.Config{
			Retriever: retriever,
			RAG:       service,
			Logger:    log,
		})
		if err != nil {
			return fmt.Errorf("creating MCP server: %w", err)
		}
		server.Mount("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))
		log.Info("mcp endpoint enabled", "path", "/mcp")
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.Listen(); err != nil {
			errChan <- fmt.Errorf("api server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}
}

func (c *serveCommander) newConversationStore(cfg *config.Config) (convo.Store, error) {
	if cfg.Database.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		store, err := convopg.New(ctx, convopg.Config{
			URL:     cfg.Database.URL,
			PoolMin: cfg.Database.PoolMin,
			PoolMax: cfg.Database.PoolMax,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		c.logger.Info("using postgres conversation store")
		return store, nil
	}

	c.logger.Info("using in-memory conversation store")
	return convomem.New(), nil
}

func (c *serveCommander) newPublisher(cfg *config.Config) eventstream.Publisher {
	if cfg.EventStream.Brokers == "" {
		return eventstream.Nop{}
	}

	publisher, err := eventkafka.New(eventkafka.Config{
		Brokers: cfg.EventStream.Brokers,
		Topic:   cfg.EventStream.Topic,
	})
	if err != nil {
		c.logger.Warn("event stream disabled", "error", err)
		return eventstream.Nop{}
	}

	c.logger.Info("publishing turn events", "brokers", cfg.EventStream.Brokers)
	return publisher
}
