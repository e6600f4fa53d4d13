// Package prompt assembles retrieved chunks, selected text, and chat history
// into the transcript handed to the generation backend.
package prompt

import (
	"fmt"
	"strings"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/generation"
	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/retrieval"
)

// InsufficientInformationAnswer is the deterministic reply the orchestrator
// returns when no relevant context survives filtering. It never reaches the
// generation backend.
const InsufficientInformationAnswer = "I don't have enough information in the textbook to answer that question. " +
	"Try rephrasing it, or ask about a topic covered in the book."

const baseSystemPrompt = "You are a teaching assistant for the Physical AI and Humanoid Robotics textbook. " +
	"Answer using only the provided textbook context. Cite chapters when relevant. " +
	"If the context does not contain the answer, say so instead of guessing."

const selectedTextDirective = "The student selected a passage from the textbook. Answer only from the selected " +
	"passage below. If the answer is not contained within it, say so explicitly and do not use outside knowledge."

// Source is one citation entry surfaced alongside an answer.
type Source struct {
	Chapter   string  `json:"chapter"`
	Section   string  `json:"section"`
	SourceURL string  `json:"source_url"`
	Score     float64 `json:"score"`
}

// Assembled is the outcome of context assembly.
type Assembled struct {
	// Context is the text block handed to the generator.
	Context string

	// Sources lists the cited chunks in rank order, deduplicated by URL.
	Sources []Source

	// Empty means nothing survived filtering; the orchestrator must answer
	// with InsufficientInformationAnswer instead of generating.
	Empty bool

	// SelectedOnly means the context is the student's selected passage and
	// retrieval results were ignored.
	SelectedOnly bool
}

// Assembler builds contexts under a size budget.
type Assembler struct {
	minScore        float64
	maxContextChars int
}

// New creates an Assembler. A non-positive maxContextChars disables the
// budget.
func New(minScore float64, maxContextChars int) *Assembler {
	return &Assembler{minScore: minScore, maxContextChars: maxContextChars}
}

// Assemble builds the context. Selected text overrides retrieval entirely.
// Otherwise chunks are kept in rank order, dropped when below the minimum
// score, and cut off at the character budget without ever splitting a chunk.
func (a *Assembler) Assemble(docs []retrieval.RetrievedDocument, selectedText string) Assembled {
	if strings.TrimSpace(selectedText) != "" {
		return Assembled{
			Context:      strings.TrimSpace(selectedText),
			SelectedOnly: true,
		}
	}

	var (
		blocks  []string
		sources []Source
		seen    = map[string]bool{}
		used    int
	)

	for _, doc := range docs {
		if doc.Score < a.minScore {
			continue
		}

		block := fmt.Sprintf("[%s > %s]\n%s", doc.Metadata.Chapter, doc.Metadata.Section, doc.Content)
		if a.maxContextChars > 0 && used+len(block) > a.maxContextChars && len(blocks) > 0 {
			break
		}

		blocks = append(blocks, block)
		used += len(block)

		key := doc.Metadata.SourceURL
		if key == "" {
			key = doc.ID
		}
		if !seen[key] {
			seen[key] = true
			sources = append(sources, Source{
				Chapter:   doc.Metadata.Chapter,
				Section:   doc.Metadata.Section,
				SourceURL: doc.Metadata.SourceURL,
				Score:     doc.Score,
			})
		}
	}

	if len(blocks) == 0 {
		return Assembled{Empty: true}
	}

	return Assembled{
		Context: strings.Join(blocks, "\n\n"),
		Sources: sources,
	}
}

// BuildMessages produces the system prompt and transcript for generation.
// History is passed through unfiltered, oldest first, followed by the
// question as the final user turn.
func BuildMessages(assembled Assembled, history []generation.Message, question string) (string, []generation.Message) {
	var system strings.Builder
	system.WriteString(baseSystemPrompt)

	if assembled.SelectedOnly {
		system.WriteString("\n\n")
		system.WriteString(selectedTextDirective)
		system.WriteString("\n\nSelected passage:\n")
		system.WriteString(assembled.Context)
	} else {
		system.WriteString("\n\nTextbook context:\n")
		system.WriteString(assembled.Context)
	}

	messages := make([]generation.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, generation.Message{
		Role:    generation.RoleUser,
		Content: question,
	})

	return system.String(), messages
}
