package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/ragchat/internal/core"
)

type fakeAsker struct {
	answer         string
	err            error
	question       string
	conversationID string
}

func (f *fakeAsker) Ask(_ context.Context, question, conversationID string) (string, error) {
	f.question = question
	f.conversationID = conversationID
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fakeConversations struct {
	ids     []string
	cleared []string
}

func (f *fakeConversations) ConversationIDs() []string { return f.ids }

func (f *fakeConversations) Clear(_ context.Context, conversationID string) {
	f.cleared = append(f.cleared, conversationID)
}

func newTestServer(asker Asker, conversations Conversations) *httptest.Server {
	return httptest.NewServer(NewServer(":0", asker, conversations).Handler())
}

func TestAsk(t *testing.T) {
	asker := &fakeAsker{answer: "grounded answer"}
	ts := newTestServer(asker, &fakeConversations{})
	defer ts.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/ask", strings.NewReader(`{"question":"What is Go?"}`))
	require.NoError(t, err)
	req.Header.Set(ConversationIDHeader, "conv-42")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "grounded answer", body["answer"])

	assert.Equal(t, "What is Go?", asker.question)
	assert.Equal(t, "conv-42", asker.conversationID)
}

func TestAskWithoutConversationHeader(t *testing.T) {
	asker := &fakeAsker{answer: "ok"}
	ts := newTestServer(asker, &fakeConversations{})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/ask", "application/json", strings.NewReader(`{"question":"hi"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, asker.conversationID)
}

func TestAskErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "empty question",
			err:            core.ErrEmptyQuestion,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "empty_question",
		},
		{
			name:           "generation failure",
			err:            core.ErrGeneration,
			expectedStatus: http.StatusBadGateway,
			expectedCode:   "upstream_error",
		},
		{
			name:           "strict retrieval failure",
			err:            core.ErrRetrieval,
			expectedStatus: http.StatusBadGateway,
			expectedCode:   "upstream_error",
		},
		{
			name:           "unexpected failure",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "internal_error",
		},
		{
			name:           "cancelled request",
			err:            context.Canceled,
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   "cancelled",
		},
		{
			name:           "deadline exceeded",
			err:            context.DeadlineExceeded,
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   "cancelled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(&fakeAsker{err: tt.err}, &fakeConversations{})
			defer ts.Close()

			resp, err := http.Post(ts.URL+"/ask", "application/json", strings.NewReader(`{"question":"q"}`))
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.expectedCode, body["error"])
		})
	}
}

func TestAskInvalidBody(t *testing.T) {
	ts := newTestServer(&fakeAsker{}, &fakeConversations{})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/ask", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(&fakeAsker{}, &fakeConversations{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestListConversations(t *testing.T) {
	tests := []struct {
		name     string
		ids      []string
		expected []any
	}{
		{
			name:     "empty",
			ids:      nil,
			expected: []any{},
		},
		{
			name:     "populated",
			ids:      []string{"a", "b"},
			expected: []any{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(&fakeAsker{}, &fakeConversations{ids: tt.ids})
			defer ts.Close()

			resp, err := http.Get(ts.URL + "/conversations")
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusOK, resp.StatusCode)

			var body map[string][]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.expected, body["conversations"])
		})
	}
}

func TestDeleteConversation(t *testing.T) {
	conversations := &fakeConversations{}
	ts := newTestServer(&fakeAsker{}, conversations)
	defer ts.Close()

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/conversations/conv-7", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []string{"conv-7"}, conversations.cleared)
}
