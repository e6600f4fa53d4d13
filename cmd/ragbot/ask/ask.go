// Package askcmder provides the ask command for querying the textbook from
// the terminal without running the API server.
package askcmder

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/cmd/ragbot/wire"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/cliui"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/config"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/generation"
	genutils "github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/generation/utils"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/prompt"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/rag"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/retrieval"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("ragbot> ")
)

type askCommander struct {
	topK     int
	selected string
	plain    bool

	logger *slog.Logger
}

const askLongDesc string = `Ask the textbook a question directly from the terminal.

Builds the retrieval pipeline in-process: the question is embedded, matching
chunks are fetched from the vector store, and the answer is generated with
the retrieved context. With no question argument an interactive session
starts, keeping the conversation history across turns.

Examples:
  ragbot ask "What is physical AI?"
  ragbot ask --selected "Robots sense and act." "Summarize this passage"
  ragbot ask`

const askShortDesc string = "Ask the textbook a question"

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := wire.Load(cmd)
			if err != nil {
				return err
			}
			cmder.logger = log

			question := ""
			if len(args) == 1 {
				question = args[0]
			}
			return cmder.run(cfg, question)
		},
	}

	cmd.Flags().IntVarP(&cmder.topK, "top-k", "k", 0, "Chunks to retrieve (default: config retrieval.top_k)")
	cmd.Flags().StringVar(&cmder.selected, "selected", "", "Answer about this passage instead of retrieving")
	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Print the answer without markdown rendering")

	return cmd
}

func (c *askCommander) run(cfg *config.Config, question string) error {
	embedder, err := wire.Embedder(cfg)
	if err != nil {
		return err
	}
	defer embedder.Close()

	store, err := wire.VectorStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	generator, err := genutils.New(cfg)
	if err != nil {
		return fmt.Errorf("creating generator: %w", err)
	}
	defer generator.Close()

	topK := c.topK
	if topK <= 0 {
		topK = cfg.Retrieval.TopK
	}

	service := rag.New(rag.Config{
		Retriever: retrieval.New(embedder, store),
		Assembler: prompt.New(cfg.Retrieval.MinScore, cfg.Retrieval.MaxContextChars),
		Generator: generator,
		Vectors:   store,
		TopK:      topK,
		Logger:    c.logger,
	})

	if question != "" {
		_, err := c.answer(service, nil, question)
		return err
	}
	return c.interactive(cfg, service)
}

func (c *askCommander) interactive(cfg *config.Config, service *rag.Service) error {
	fmt.Println()
	fmt.Printf("  %s %s\n",
		cliui.KeyStyle.Render("Model:"),
		cliui.ValueStyle.Render(cfg.Generation.Model),
	)
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your question and press Enter. /exit or Ctrl+D to quit."))

	var history []generation.Message
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		answer, err := c.answer(service, history, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			continue
		}

		history = append(history,
			generation.Message{Role: generation.RoleUser, Content: input},
			generation.Message{Role: generation.RoleAssistant, Content: answer},
		)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

// answer runs one turn and prints the result, returning the answer text so
// interactive sessions can extend the history.
func (c *askCommander) answer(service *rag.Service, history []generation.Message, question string) (string, error) {
	ctx := context.Background()
	query := rag.Query{
		Text:         question,
		SelectedText: c.selected,
		History:      history,
	}

	fmt.Print(assistantPrompt)

	if c.plain {
		result, err := service.AnswerStream(ctx, query, func(delta string) error {
			fmt.Print(delta)
			return nil
		})
		if err != nil {
			return "", err
		}
		fmt.Println()
		fmt.Println()
		return result.Response, nil
	}

	result, err := service.Answer(ctx, query)
	if err != nil {
		return "", err
	}

	rendered, err := cliui.RenderMarkdown(result.Response)
	if err != nil {
		rendered = result.Response + "\n"
	}
	fmt.Print(rendered)

	printSources(result.Sources)
	return result.Response, nil
}

func printSources(sources []prompt.Source) {
	if len(sources) == 0 {
		return
	}

	fmt.Printf("  %s\n", cliui.KeyStyle.Render("Sources:"))
	for _, s := range sources {
		label := s.Chapter
		if s.Section != "" {
			label += " > " + s.Section
		}
		fmt.Printf("  %s %s %s\n",
			cliui.DimStyle.Render("-"),
			cliui.ValueStyle.Render(label),
			cliui.DimStyle.Render(fmt.Sprintf("(%.2f)", s.Score)),
		)
	}
	fmt.Println()
}
