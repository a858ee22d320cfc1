package intent_test

import (
	"testing"

	"github.com/novahq/nova/internal/intent"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases and trims", "  Nova TIME  ", "time"},
		{"collapses whitespace", "nova   open    firefox", "open firefox"},
		{"wake word alone", "nova", ""},
		{"wake word only as leading token", "supernova time", "supernova time"},
		{"rewrites spoken weather form", "nova what is the weather in london", "weather london"},
		{"rewrites spoken time form", "tell me the time", "time"},
		{"rewrites spoken date form", "nova tell me today's date", "date"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := intent.Normalize(tt.in, "nova")
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		text string
		kind intent.Kind
		arg  string
	}{
		{"", intent.KindNone, ""},
		{"help", intent.KindHelp, ""},
		{"functions", intent.KindFunctions, ""},
		{"status", intent.KindSystemStatus, ""},
		{"connection", intent.KindConnection, ""},
		{"history", intent.KindHistory, ""},
		{"history start", intent.KindHistoryStart, ""},
		{"history stop", intent.KindHistoryStop, ""},
		{"clear history", intent.KindHistoryClear, ""},
		{"search weather", intent.KindHistorySearch, "weather"},
		{"ask why is the sky blue", intent.KindAsk, "why is the sky blue"},
		{"define entropy", intent.KindDefine, "entropy"},
		{"calculate 2 + 2", intent.KindCalculate, "2 + 2"},
		{"weather london", intent.KindWeather, "london"},
		{"weather of london", intent.KindWeather, "london"},
		{"weather in new york", intent.KindWeather, "new york"},
		{"weather", intent.KindWeather, ""},
		{"open github.com", intent.KindOpen, "github.com"},
		{"open calculator", intent.KindOpen, "calculator"},
		{"time", intent.KindTime, ""},
		{"what time is it", intent.KindTime, ""},
		{"date", intent.KindDate, ""},
		{"thanks", intent.KindThanks, ""},
		{"thank you", intent.KindThanks, ""},
		{"make me a sandwich", intent.KindUnrecognized, "make me a sandwich"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := intent.Resolve(tt.text)
			if got.Kind != tt.kind {
				t.Errorf("Resolve(%q).Kind = %q, want %q", tt.text, got.Kind, tt.kind)
			}
			if got.Arg != tt.arg {
				t.Errorf("Resolve(%q).Arg = %q, want %q", tt.text, got.Arg, tt.arg)
			}
		})
	}
}

func TestResolve_MediaBeforeGenericOpen(t *testing.T) {
	got := intent.Resolve("open bohemian rhapsody song on spotify")
	if got.Kind != intent.KindPlayMedia {
		t.Fatalf("expected play_media, got %q", got.Kind)
	}
	if got.Arg != "bohemian rhapsody" {
		t.Errorf("unexpected query %q", got.Arg)
	}
	if got.Meta["media"] != "song" || got.Meta["platform"] != "spotify" {
		t.Errorf("unexpected meta %v", got.Meta)
	}

	video := intent.Resolve("open lofi beats video on youtube")
	if video.Kind != intent.KindPlayMedia || video.Meta["platform"] != "youtube" {
		t.Errorf("unexpected resolution: %+v", video)
	}

	// Without the trailing platform clause it is a plain open.
	plain := intent.Resolve("open bohemian rhapsody song")
	if plain.Kind != intent.KindOpen {
		t.Errorf("expected open, got %q", plain.Kind)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	first := intent.Resolve("weather in london")
	second := intent.Resolve("weather in london")
	if first.Kind != second.Kind || first.Arg != second.Arg {
		t.Errorf("resolution not deterministic: %+v vs %+v", first, second)
	}
}

func TestRecognized(t *testing.T) {
	if (intent.Intent{Kind: intent.KindNone}).Recognized() {
		t.Error("none should not be recognized")
	}
	if (intent.Intent{Kind: intent.KindUnrecognized}).Recognized() {
		t.Error("unrecognized should not be recognized")
	}
	if !(intent.Intent{Kind: intent.KindTime}).Recognized() {
		t.Error("time should be recognized")
	}
}
