package weather_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/novahq/nova/internal/services"
	"github.com/novahq/nova/internal/services/weather"
)

func TestCurrent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "London" {
			t.Errorf("expected city 'London', got %q", got)
		}
		if got := r.URL.Query().Get("appid"); got != "test-key" {
			t.Errorf("expected api key to be sent, got %q", got)
		}
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("expected metric units, got %q", got)
		}
		w.Write([]byte(`{
			"name": "London",
			"weather": [{"description": "light rain"}],
			"main": {"temp": 12.3, "feels_like": 10.1, "humidity": 81}
		}`))
	}))
	defer server.Close()

	client := weather.New(server.URL, "test-key", time.Second)
	report, err := client.Current(context.Background(), "London")
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}

	for _, want := range []string{"London", "light rain", "12.3", "10.1", "81%"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q: %s", want, report)
		}
	}
}

func TestCurrent_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, services.ErrInvalidKey},
		{"forbidden", http.StatusForbidden, services.ErrInvalidKey},
		{"rate limited", http.StatusTooManyRequests, services.ErrRateLimited},
		{"unknown city", http.StatusNotFound, services.ErrService},
		{"server error", http.StatusInternalServerError, services.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := weather.New(server.URL, "k", time.Second)
			_, err := client.Current(context.Background(), "Nowhere")
			if !errors.Is(err, tt.want) {
				t.Errorf("status %d: expected %v, got %v", tt.status, tt.want, err)
			}
			// Every failure is also a tagged service error.
			if !errors.Is(err, services.ErrService) {
				t.Errorf("status %d: error not tagged as service error: %v", tt.status, err)
			}
		})
	}
}

func TestCurrent_UnreachableHost(t *testing.T) {
	client := weather.New("http://127.0.0.1:1", "k", 100*time.Millisecond)

	_, err := client.Current(context.Background(), "London")
	if !errors.Is(err, services.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for unreachable host, got %v", err)
	}
}

func TestCurrent_MissingFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"main": {"temp": 5}}`))
	}))
	defer server.Close()

	client := weather.New(server.URL, "k", time.Second)
	report, err := client.Current(context.Background(), "Springfield")
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	// Falls back to the requested city and a generic description.
	if !strings.Contains(report, "Springfield") || !strings.Contains(report, "unknown conditions") {
		t.Errorf("unexpected report: %s", report)
	}
}
