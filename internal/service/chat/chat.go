// Package chat composes retrieval, prompt grounding, generation and
// conversation memory into a single ask operation.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/sandevgo/ragchat/internal/config"
	"github.com/sandevgo/ragchat/internal/core"
	"github.com/sandevgo/ragchat/pkg/log"
)

type Generator interface {
	Chat(ctx context.Context, messages []core.Message) (core.Message, error)
}

type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]core.Fragment, error)
}

type History interface {
	History(ctx context.Context, conversationID string) []core.Message
	AppendExchange(ctx context.Context, conversationID, userText, assistantText string)
}

type Service struct {
	ai        Generator
	retriever Retriever
	memory    History
	prompt    *SysPrompt

	retrievalK      int
	strictRetrieval bool

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewService(
	cfg *config.AppConfig,
	ai Generator,
	retriever Retriever,
	memory History,
	prompt *SysPrompt,
) *Service {
	return &Service{
		ai:              ai,
		retriever:       retriever,
		memory:          memory,
		prompt:          prompt,
		retrievalK:      cfg.RetrievalK,
		strictRetrieval: cfg.StrictRetrieval,
		locks:           make(map[string]*sync.Mutex),
	}
}

// Ask answers a question grounded in retrieved document context, injecting
// the conversation's prior turns and folding the new exchange back into
// memory. Calls for the same conversation id are serialized; different
// conversations run in parallel.
//
// The exchange is only committed after generation succeeds: a failed or
// cancelled request leaves the history untouched.
func (s *Service) Ask(ctx context.Context, question, conversationID string) (string, error) {
	logger := log.FromCtx(ctx)

	if strings.TrimSpace(question) == "" {
		return "", core.ErrEmptyQuestion
	}
	if conversationID == "" {
		conversationID = core.DefaultConversationID
	}

	unlock := s.lockConversation(conversationID)
	defer unlock()

	logger.Info().
		Str("conversation_id", conversationID).
		Str("question", truncate(question, 100)).
		Msg("processing question")

	history := s.memory.History(ctx, conversationID)

	contextBlock, err := s.retrieveContext(ctx, question)
	if err != nil {
		return "", err
	}

	messages := s.prompt.Assemble(contextBlock, history, question)

	reply, err := s.ai.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrGeneration, err)
	}

	if err := ctx.Err(); err != nil {
		// Cancelled after generation: do not commit a partial exchange.
		return "", err
	}

	s.memory.AppendExchange(ctx, conversationID, question, reply.Content)

	logger.Info().
		Str("conversation_id", conversationID).
		Int("answer_length", len(reply.Content)).
		Msg("generated answer")

	return reply.Content, nil
}

// retrieveContext fetches the top-k fragments for the question and joins
// them into one context block. Retrieval is best-effort by default: on
// failure, or when nothing matches, the request proceeds with an empty
// block unless strict retrieval is configured.
func (s *Service) retrieveContext(ctx context.Context, question string) (string, error) {
	fragments, err := s.retriever.Retrieve(ctx, question, s.retrievalK)
	if err == nil && len(fragments) == 0 {
		err = errors.New("no fragments found")
	}
	if err != nil {
		if s.strictRetrieval {
			return "", fmt.Errorf("%w: %w", core.ErrRetrieval, err)
		}
		log.FromCtx(ctx).Warn().Err(err).Msg("retrieval failed, answering with empty context")
		return "", nil
	}

	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		parts = append(parts, f.Content)
	}
	block := strings.Join(parts, ContextDelimiter)

	log.FromCtx(ctx).Debug().
		Int("fragment_count", len(fragments)).
		Int("context_length", len(block)).
		Msg("retrieved context")

	return block, nil
}

func (s *Service) lockConversation(conversationID string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[conversationID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[conversationID] = l
	}
	s.locksMu.Unlock()

	l.Lock()
	return l.Unlock
}

// truncate shortens s to at most maxLen bytes without cutting a rune in
// half, so logged text stays valid UTF-8.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
