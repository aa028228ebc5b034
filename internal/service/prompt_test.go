package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"procqa/internal/domain"
)

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, historyPlaceholder, formatHistory(nil))

	got := formatHistory([]domain.Turn{
		{Role: domain.RoleUser, Content: "hello"},
		{Role: domain.RoleAssistant, Content: "hi there"},
	})
	assert.Equal(t, "user: hello\nassistant: hi there\n", got)
}

func TestFormatContext(t *testing.T) {
	assert.Equal(t, "", formatContext(nil))

	got := formatContext([]domain.SearchResult{
		{Chunk: domain.Chunk{Text: "first"}},
		{Chunk: domain.Chunk{Text: "second"}},
	})
	assert.Equal(t, "first\n\nsecond", got)
}

func TestBuildPromptLayout(t *testing.T) {
	prompt := buildPrompt("CTX", "HIST", "Q")

	assert.Contains(t, prompt, "Context: CTX")
	assert.Contains(t, prompt, "Conversation history:\nHIST")
	assert.Contains(t, prompt, "Question: Q")
	assert.True(t, strings.HasSuffix(prompt, "Answer:"))
	// The instruction block precedes the filled sections.
	assert.Less(t, strings.Index(prompt, "procedure manual"), strings.Index(prompt, "Context: CTX"))
}
