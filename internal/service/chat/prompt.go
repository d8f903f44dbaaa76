package chat

import (
	"os"

	"github.com/sandevgo/ragchat/internal/core"
)

// ContextDelimiter separates retrieved fragments inside the context block.
// Multi-character on purpose so it cannot be confused with the single
// newlines that occur naturally in document text.
const ContextDelimiter = "\n\n---\n\n"

const defaultInstruction = "You are a helpful assistant. Answer questions based on the provided context from the documents. If the context doesn't contain relevant information to answer the question, say so clearly."

// SysPrompt renders the grounded system block. The instruction text can be
// overridden by a SYSTEM.md file in the runtime directory.
type SysPrompt struct {
	instruction string
}

func NewSysPrompt(overridePath string) *SysPrompt {
	instruction := defaultInstruction
	if content, err := os.ReadFile(overridePath); err == nil && len(content) > 0 {
		instruction = string(content)
	}
	return &SysPrompt{instruction: instruction}
}

// Assemble builds the structured prompt in its load-bearing order: the
// system block embedding the context, the prior turns unmodified, then the
// new user question as the final turn.
func (p *SysPrompt) Assemble(contextBlock string, history []core.Message, question string) []core.Message {
	messages := make([]core.Message, 0, len(history)+2)
	messages = append(messages, core.Message{
		Role:    core.RoleSystem,
		Content: p.instruction + "\n\nContext from documents:\n" + contextBlock + "\n",
	})
	messages = append(messages, history...)
	messages = append(messages, core.Message{Role: core.RoleUser, Content: question})
	return messages
}
