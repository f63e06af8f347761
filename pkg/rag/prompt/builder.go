package prompt

import (
	"strings"

	"ai-docchat-be/pkg/llm"
)

// CompletionBuilder assembles the message list for a chat completion,
// prepending retrieved document context as a system message when present.
type CompletionBuilder struct {
	contextBlock string
	question     string
	history      []llm.Message
}

func NewCompletionBuilder(contextBlock, question string, history []llm.Message) *CompletionBuilder {
	return &CompletionBuilder{
		contextBlock: contextBlock,
		question:     question,
		history:      history,
	}
}

// Build returns the full message list: system preamble, prior history,
// then the user's question.
func (b *CompletionBuilder) Build() []llm.Message {
	messages := make([]llm.Message, 0, len(b.history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: b.buildSystemMessage()})
	messages = append(messages, b.history...)
	messages = append(messages, llm.Message{Role: "user", Content: b.question})
	return messages
}

func (b *CompletionBuilder) buildSystemMessage() string {
	var prompt strings.Builder

	prompt.WriteString("You are an assistant answering questions about the user's uploaded documents.\n")

	if b.contextBlock != "" {
		prompt.WriteString("\n<reference_material>\n")
		prompt.WriteString(b.contextBlock)
		prompt.WriteString("\n</reference_material>\n\n")
		prompt.WriteString("Base your answer on the reference material above. ")
		prompt.WriteString("If the material does not contain what is being asked, say so honestly.\n")
	} else {
		prompt.WriteString("No document excerpts were retrieved for this question. ")
		prompt.WriteString("Answer from the conversation alone and mention that the documents did not cover it when relevant.\n")
	}

	return prompt.String()
}
