package answers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/novahq/nova/internal/services"
	"github.com/novahq/nova/internal/services/answers"
)

func completionServer(t *testing.T, content string, gotRequest *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if gotRequest != nil {
			if err := json.NewDecoder(r.Body).Decode(gotRequest); err != nil {
				t.Errorf("decoding request: %v", err)
			}
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}))
}

func TestAsk(t *testing.T) {
	var got map[string]any
	server := completionServer(t, "  Blue light scatters more.  ", &got)
	defer server.Close()

	client := answers.New(server.URL, "test-model", time.Second)
	answer, err := client.Ask(context.Background(), "why is the sky blue")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	if answer != "Blue light scatters more." {
		t.Errorf("expected trimmed answer, got %q", answer)
	}
	if got["model"] != "test-model" {
		t.Errorf("expected configured model in request, got %v", got["model"])
	}
	messages, _ := got["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected system + user messages, got %v", got["messages"])
	}
}

func TestDefine(t *testing.T) {
	server := completionServer(t, "A measure of disorder.", nil)
	defer server.Close()

	client := answers.New(server.URL, "test-model", time.Second)
	definition, err := client.Define(context.Background(), "entropy")
	if err != nil {
		t.Fatalf("Define failed: %v", err)
	}
	if definition != "A measure of disorder." {
		t.Errorf("unexpected definition %q", definition)
	}
}

func TestAsk_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, services.ErrInvalidKey},
		{"rate limited", http.StatusTooManyRequests, services.ErrRateLimited},
		{"server error", http.StatusBadGateway, services.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := answers.New(server.URL, "m", time.Second)
			_, err := client.Ask(context.Background(), "q")
			if !errors.Is(err, tt.want) {
				t.Errorf("status %d: expected %v, got %v", tt.status, tt.want, err)
			}
		})
	}
}

func TestAsk_EmptyCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := answers.New(server.URL, "m", time.Second)
	_, err := client.Ask(context.Background(), "q")
	if !errors.Is(err, services.ErrService) {
		t.Errorf("expected ErrService for empty completion, got %v", err)
	}
}
