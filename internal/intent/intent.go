// Package intent maps normalized input text to a bounded set of command
// intents. Resolution is a pure function over an explicit ordered rule
// table; there is no scoring and no learned model.
package intent

// Kind identifies a command intent.
type Kind string

const (
	// KindNone is blank input: not a command, never dispatched or recorded.
	KindNone Kind = "none"
	// KindUnrecognized is non-blank input no rule matched.
	KindUnrecognized Kind = "unrecognized"

	KindHelp          Kind = "help"
	KindFunctions     Kind = "functions"
	KindSystemStatus  Kind = "system_status"
	KindConnection    Kind = "connection_status"
	KindHistory       Kind = "history"
	KindHistoryStart  Kind = "history_start"
	KindHistoryStop   Kind = "history_stop"
	KindHistoryClear  Kind = "history_clear"
	KindHistorySearch Kind = "history_search"
	KindAsk           Kind = "ask"
	KindDefine        Kind = "define"
	KindCalculate     Kind = "calculate"
	KindWeather       Kind = "weather"
	KindPlayMedia     Kind = "play_media"
	KindOpen          Kind = "open"
	KindTime          Kind = "time"
	KindDate          Kind = "date"
	KindThanks        Kind = "thanks"
)

// Intent is a classified command with its extracted arguments.
type Intent struct {
	Kind Kind
	// Arg is the primary argument: city, expression, search term, target.
	Arg string
	// Meta carries secondary arguments, e.g. media type and platform.
	Meta map[string]string
}

// Recognized reports whether the intent can be dispatched to a handler.
func (in Intent) Recognized() bool {
	return in.Kind != KindNone && in.Kind != KindUnrecognized
}
