// Package memory keeps bounded, per-conversation message histories in
// process memory. Entries live for the process lifetime; nothing is
// persisted across restarts.
package memory

import (
	"context"
	"sync"

	"github.com/sandevgo/ragchat/internal/core"
	"github.com/sandevgo/ragchat/pkg/log"
)

const DefaultMaxMessages = 20

// Window is a message-window store keyed by conversation id. Each
// conversation holds at most maxMessages messages; appending past the
// bound evicts the oldest messages first.
//
// Independent conversations never block each other: the outer lock only
// guards the map, slice mutations happen under a per-conversation lock.
type Window struct {
	maxMessages int

	mu            sync.RWMutex
	conversations map[string]*conversation
}

type conversation struct {
	mu       sync.Mutex
	messages []core.Message
}

func NewWindow(maxMessages int) *Window {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	return &Window{
		maxMessages:   maxMessages,
		conversations: make(map[string]*conversation),
	}
}

// getOrCreate makes create-on-miss an explicit contract: looking up an
// unknown conversation id registers an empty conversation instead of
// failing.
func (w *Window) getOrCreate(conversationID string) *conversation {
	w.mu.RLock()
	conv, ok := w.conversations[conversationID]
	w.mu.RUnlock()
	if ok {
		return conv
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if conv, ok := w.conversations[conversationID]; ok {
		return conv
	}
	conv = &conversation{}
	w.conversations[conversationID] = conv
	return conv
}

// History returns a snapshot of the conversation in chronological order,
// oldest first. Unknown ids yield an empty history, never an error.
func (w *Window) History(ctx context.Context, conversationID string) []core.Message {
	conv := w.getOrCreate(conversationID)

	conv.mu.Lock()
	defer conv.mu.Unlock()

	snapshot := make([]core.Message, len(conv.messages))
	copy(snapshot, conv.messages)
	return snapshot
}

// AppendExchange appends the user message followed by the assistant
// message, then trims the oldest messages until the window bound holds.
// The append and the trim are one critical section: no reader can observe
// a history longer than the configured maximum.
func (w *Window) AppendExchange(ctx context.Context, conversationID, userText, assistantText string) {
	conv := w.getOrCreate(conversationID)

	conv.mu.Lock()
	defer conv.mu.Unlock()

	conv.messages = append(conv.messages,
		core.Message{Role: core.RoleUser, Content: userText},
		core.Message{Role: core.RoleAssistant, Content: assistantText},
	)
	if overflow := len(conv.messages) - w.maxMessages; overflow > 0 {
		conv.messages = append(conv.messages[:0:0], conv.messages[overflow:]...)
	}

	log.FromCtx(ctx).Debug().
		Str("conversation_id", conversationID).
		Int("message_count", len(conv.messages)).
		Msg("updated conversation memory")
}

// Clear removes the conversation entirely, returning the id to its
// not-yet-created state. Clearing an unknown id is a no-op.
func (w *Window) Clear(ctx context.Context, conversationID string) {
	w.mu.Lock()
	_, existed := w.conversations[conversationID]
	delete(w.conversations, conversationID)
	w.mu.Unlock()

	if existed {
		log.FromCtx(ctx).Info().
			Str("conversation_id", conversationID).
			Msg("cleared conversation memory")
	}
}

// ConversationIDs lists ids that hold at least one message. Ordering is
// unspecified.
func (w *Window) ConversationIDs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	ids := make([]string, 0, len(w.conversations))
	for id, conv := range w.conversations {
		conv.mu.Lock()
		n := len(conv.messages)
		conv.mu.Unlock()
		if n > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
