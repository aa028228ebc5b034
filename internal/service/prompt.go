package service

import (
	"fmt"
	"strings"

	"procqa/internal/domain"
)

// historyPlaceholder is rendered into the prompt when no turns have been
// logged yet.
const historyPlaceholder = "No prior conversation."

const answerTemplate = `You are an expert assistant for querying a procedure manual.
Use only the provided CONTEXT to answer (excerpts, paragraphs, sections).
Do not guess beyond the context; if the information does not appear in the
context, state clearly that it was not found and suggest terms or sections
to search for.

Answer guidelines:
- Concise summary (4-6 sentences) of the answer.
- If the question asks for a procedure, provide a NUMBERED list of steps.
- After the answer, add a "Sources" section listing the files/sections used.
- State a short confidence level (High / Medium / Low) and the reason.
- If the question is ambiguous or lacks detail, ask up to 2 clarifying questions.
- Answer in the language of the documents.

Context: %s

Conversation history:
%s

Question: %s

Answer:`

// buildPrompt fills the fixed template with context, history and question.
func buildPrompt(contextBlock, historyBlock, question string) string {
	return fmt.Sprintf(answerTemplate, contextBlock, historyBlock, question)
}

// formatContext joins retrieved chunk texts with blank-line separators.
func formatContext(results []domain.SearchResult) string {
	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Chunk.Text)
	}
	return strings.Join(texts, "\n\n")
}

// formatHistory renders turns as "role: content" lines, oldest first.
func formatHistory(turns []domain.Turn) string {
	if len(turns) == 0 {
		return historyPlaceholder
	}
	var b strings.Builder
	for _, turn := range turns {
		b.WriteString(turn.Role)
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	return b.String()
}
