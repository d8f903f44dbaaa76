package core

const (
	AppName    = "ragchat"
	AppVersion = "0.1.0"

	// DefaultConversationID scopes requests that arrive without an
	// explicit conversation id.
	DefaultConversationID = "defaultConversation"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Document is one embeddable chunk of source text held by a vector store.
type Document struct {
	ID        string
	Source    string
	Content   string
	Embedding []float32
}

// Fragment is a retrieved piece of context. Retrievers return fragments
// ranked by relevance, best first; consumers must not re-rank them.
type Fragment struct {
	Content string
	Source  string
	Score   float32
}
