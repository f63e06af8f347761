package prompt

import (
	"strings"
	"testing"

	"ai-docchat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

func TestBuildWithContext(t *testing.T) {
	history := []llm.Message{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}

	messages := NewCompletionBuilder("first excerpt\n---\nsecond excerpt", "what does chapter two say?", history).Build()

	assert.Len(t, messages, 4)
	assert.Equal(t, "system", messages[0].Role)
	assert.Contains(t, messages[0].Content, "<reference_material>")
	assert.Contains(t, messages[0].Content, "first excerpt")
	assert.Contains(t, messages[0].Content, "second excerpt")

	assert.Equal(t, history[0], messages[1])
	assert.Equal(t, history[1], messages[2])

	last := messages[len(messages)-1]
	assert.Equal(t, "user", last.Role)
	assert.Equal(t, "what does chapter two say?", last.Content)
}

func TestBuildWithoutContext(t *testing.T) {
	messages := NewCompletionBuilder("", "hello", nil).Build()

	assert.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].Role)
	assert.False(t, strings.Contains(messages[0].Content, "<reference_material>"))
	assert.Contains(t, messages[0].Content, "No document excerpts were retrieved")
	assert.Equal(t, llm.Message{Role: "user", Content: "hello"}, messages[1])
}
