package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/ragchat/internal/core"
)

func TestWindow_AppendAndTrim(t *testing.T) {
	ctx := context.Background()
	w := NewWindow(4)

	w.AppendExchange(ctx, "id", "q1", "a1")
	require.Equal(t, []core.Message{
		{Role: core.RoleUser, Content: "q1"},
		{Role: core.RoleAssistant, Content: "a1"},
	}, w.History(ctx, "id"))

	w.AppendExchange(ctx, "id", "q2", "a2")
	require.Len(t, w.History(ctx, "id"), 4)

	// At the bound: adding a third exchange evicts the oldest pair.
	w.AppendExchange(ctx, "id", "q3", "a3")
	require.Equal(t, []core.Message{
		{Role: core.RoleUser, Content: "q2"},
		{Role: core.RoleAssistant, Content: "a2"},
		{Role: core.RoleUser, Content: "q3"},
		{Role: core.RoleAssistant, Content: "a3"},
	}, w.History(ctx, "id"))
}

func TestWindow_BoundHoldsAfterEveryAppend(t *testing.T) {
	ctx := context.Background()
	const max = 6
	w := NewWindow(max)

	for i := 0; i < 20; i++ {
		w.AppendExchange(ctx, "id", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		assert.LessOrEqual(t, len(w.History(ctx, "id")), max)
	}

	// The retained messages are exactly the most recent ones, in order.
	history := w.History(ctx, "id")
	require.Len(t, history, max)
	assert.Equal(t, core.Message{Role: core.RoleUser, Content: "q17"}, history[0])
	assert.Equal(t, core.Message{Role: core.RoleAssistant, Content: "a19"}, history[max-1])
}

func TestWindow_OddMaximumSplitsPair(t *testing.T) {
	ctx := context.Background()
	w := NewWindow(3)

	w.AppendExchange(ctx, "id", "q1", "a1")
	w.AppendExchange(ctx, "id", "q2", "a2")

	// Exchanges arrive in pairs, so an odd bound splits one on first trim.
	require.Equal(t, []core.Message{
		{Role: core.RoleAssistant, Content: "a1"},
		{Role: core.RoleUser, Content: "q2"},
		{Role: core.RoleAssistant, Content: "a2"},
	}, w.History(ctx, "id"))
}

func TestWindow_Isolation(t *testing.T) {
	ctx := context.Background()
	w := NewWindow(4)

	w.AppendExchange(ctx, "alpha", "qa", "aa")
	before := w.History(ctx, "beta")

	w.AppendExchange(ctx, "alpha", "qb", "ab")
	assert.Equal(t, before, w.History(ctx, "beta"))
	assert.Len(t, w.History(ctx, "alpha"), 4)
}

func TestWindow_LazyCreation(t *testing.T) {
	ctx := context.Background()
	w := NewWindow(4)

	assert.Empty(t, w.History(ctx, "never-seen"))
	// A read does not make the id visible as an active conversation.
	assert.Empty(t, w.ConversationIDs())
}

func TestWindow_ClearSemantics(t *testing.T) {
	ctx := context.Background()
	w := NewWindow(4)

	// Clearing an unknown id does not fail.
	w.Clear(ctx, "ghost")

	w.AppendExchange(ctx, "id", "q1", "a1")
	require.NotEmpty(t, w.History(ctx, "id"))

	w.Clear(ctx, "id")
	assert.Empty(t, w.History(ctx, "id"))
	assert.Empty(t, w.ConversationIDs())
}

func TestWindow_ConversationIDs(t *testing.T) {
	ctx := context.Background()
	w := NewWindow(4)

	w.AppendExchange(ctx, "one", "q", "a")
	w.AppendExchange(ctx, "two", "q", "a")

	assert.ElementsMatch(t, []string{"one", "two"}, w.ConversationIDs())
}

func TestWindow_ConcurrentConversations(t *testing.T) {
	ctx := context.Background()
	const max = 10
	w := NewWindow(max)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			id := fmt.Sprintf("conv-%d", g)
			for i := 0; i < 50; i++ {
				w.AppendExchange(ctx, id, "q", "a")
				assert.LessOrEqual(t, len(w.History(ctx, id)), max)
			}
		}(g)
	}
	wg.Wait()

	assert.Len(t, w.ConversationIDs(), 8)
}
