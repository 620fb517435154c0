package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeChatCreator struct {
	mu    sync.Mutex
	calls []chatCallRecord
	queue map[string][]fakeChatResponse
}

type chatCallRecord struct {
	model  string
	config *genai.GenerateContentConfig
	chat   *fakeChat
}

type fakeChatResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeChat struct {
	mu       sync.Mutex
	response fakeChatResponse
	messages []string
}

func (f *fakeChat) SendMessage(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, part := range parts {
		f.messages = append(f.messages, part.Text)
	}
	return f.response.resp, f.response.err
}

func newFakeChatCreator() *fakeChatCreator {
	return &fakeChatCreator{queue: make(map[string][]fakeChatResponse)}
}

func (f *fakeChatCreator) enqueue(model string, resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue[model] = append(f.queue[model], fakeChatResponse{resp: resp, err: err})
}

func (f *fakeChatCreator) Create(_ context.Context, model string, config *genai.GenerateContentConfig, _ []*genai.Content) (chatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	responses := f.queue[model]
	if len(responses) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := responses[0]
	f.queue[model] = responses[1:]
	chat := &fakeChat{response: res}
	f.calls = append(f.calls, chatCallRecord{model: model, config: config, chat: chat})
	return chat, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

// stubWait replaces the retry wait and records requested delays.
func stubWait(t *testing.T) *[]time.Duration {
	t.Helper()

	var delays []time.Duration
	original := wait
	wait = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	t.Cleanup(func() { wait = original })
	return &delays
}

func newTestGenerator(chats chatCreator, maxRetries int) *Generator {
	return &Generator{
		chats:      chats,
		model:      "gemini-pro",
		maxRetries: maxRetries,
		logger:     zap.NewNop(),
	}
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	delays := stubWait(t)

	chats := newFakeChatCreator()
	chats.enqueue("gemini-pro", nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	chats.enqueue("gemini-pro", textResponse(`{"ok": true}`), nil)

	g := newTestGenerator(chats, 2)

	output, err := g.GenerateContent(context.Background(), "system", "message")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output != `{"ok": true}` {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}
	if len(*delays) != 1 || (*delays)[0] != retryBaseDelay {
		t.Fatalf("expected a single %v backoff, got %v", retryBaseDelay, *delays)
	}

	for _, call := range chats.calls {
		if call.config == nil || call.config.SystemInstruction == nil {
			t.Fatalf("expected system instruction to be set")
		}
		if got := call.config.SystemInstruction.Parts[0].Text; got != "system" {
			t.Fatalf("unexpected system instruction: %q", got)
		}
		if call.config.ResponseMIMEType != "application/json" {
			t.Fatalf("expected json response type, got %q", call.config.ResponseMIMEType)
		}
		if len(call.chat.messages) != 1 || call.chat.messages[0] != "message" {
			t.Fatalf("unexpected chat message: %+v", call.chat.messages)
		}
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	stubWait(t)

	chats := newFakeChatCreator()
	tempErr := genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	chats.enqueue("gemini-pro", nil, tempErr)
	chats.enqueue("gemini-pro", nil, tempErr)

	g := newTestGenerator(chats, 2)

	_, err := g.GenerateContent(context.Background(), "sys", "msg")
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected wrapped api error, got %v", err)
	}

	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}
}

func TestGeneratorDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	delays := stubWait(t)

	chats := newFakeChatCreator()
	chats.enqueue("gemini-pro", nil, genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	})

	g := newTestGenerator(chats, 3)

	if _, err := g.GenerateContent(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error when quota delay too long")
	}

	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
	if len(*delays) != 0 {
		t.Fatalf("expected no wait, got %v", *delays)
	}
}

func TestGeneratorHonoursRetryInfoDelay(t *testing.T) {
	delays := stubWait(t)

	chats := newFakeChatCreator()
	chats.enqueue("gemini-pro", nil, genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Details: []map[string]any{{"@type": "type.googleapis.com/google.rpc.RetryInfo", "retryDelay": "7s"}},
	})
	chats.enqueue("gemini-pro", textResponse("{}"), nil)

	g := newTestGenerator(chats, 3)

	if _, err := g.GenerateContent(context.Background(), "sys", "msg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(*delays) != 1 || (*delays)[0] != 7*time.Second {
		t.Fatalf("expected server delay of 7s, got %v", *delays)
	}
}

func TestGeneratorDoesNotRetryOtherErrors(t *testing.T) {
	stubWait(t)

	cases := map[string]error{
		"plain":       errors.New("connection reset"),
		"bad request": genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"},
	}

	for name, callErr := range cases {
		t.Run(name, func(t *testing.T) {
			chats := newFakeChatCreator()
			chats.enqueue("gemini-pro", nil, callErr)

			g := newTestGenerator(chats, 3)

			if _, err := g.GenerateContent(context.Background(), "sys", "msg"); err == nil {
				t.Fatal("expected error")
			}
			if len(chats.calls) != 1 {
				t.Fatalf("expected single call, got %d", len(chats.calls))
			}
		})
	}
}

func TestGeneratorStopsWhenWaitIsCancelled(t *testing.T) {
	original := wait
	wait = func(context.Context, time.Duration) error { return context.Canceled }
	defer func() { wait = original }()

	chats := newFakeChatCreator()
	chats.enqueue("gemini-pro", nil, genai.APIError{Code: http.StatusInternalServerError})

	g := newTestGenerator(chats, 3)

	if _, err := g.GenerateContent(context.Background(), "sys", "msg"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGeneratorEmptyResponse(t *testing.T) {
	chats := newFakeChatCreator()
	chats.enqueue("gemini-pro", &genai.GenerateContentResponse{}, nil)

	g := newTestGenerator(chats, 1)

	_, err := g.GenerateContent(context.Background(), "", "msg")
	if err == nil || !strings.Contains(err.Error(), "empty response") {
		t.Fatalf("expected empty response error, got %v", err)
	}
	if chats.calls[0].config.SystemInstruction != nil {
		t.Fatalf("expected no system instruction for blank system prompt")
	}
}

func TestGeneratorRejectsEmptyMessage(t *testing.T) {
	g := newTestGenerator(newFakeChatCreator(), 1)

	if _, err := g.GenerateContent(context.Background(), "sys", "   "); err == nil {
		t.Fatal("expected error for empty message")
	}

	var nilGen *Generator
	if _, err := nilGen.GenerateContent(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error for nil generator")
	}
	if nilGen.Model() != "" {
		t.Fatal("expected empty model for nil generator")
	}
}
