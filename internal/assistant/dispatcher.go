// Package assistant orchestrates one command pass: resolve the intent,
// invoke the handler, record the outcome, return the response. One bad
// command must never take the loop down.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/novahq/nova/internal/intent"
	"github.com/novahq/nova/internal/launcher"
	"github.com/novahq/nova/internal/services"
	"github.com/novahq/nova/internal/storage"
)

// Handler executes one intent and returns the spoken response plus a
// structured context payload for the history record. Expected failures
// come back as typed errors; the dispatcher does the classifying.
type Handler func(ctx context.Context, in intent.Intent) (string, storage.Document, error)

// WeatherService fetches current conditions for a city.
type WeatherService interface {
	Current(ctx context.Context, city string) (string, error)
}

// AnswerService answers questions and defines terms.
type AnswerService interface {
	Ask(ctx context.Context, question string) (string, error)
	Define(ctx context.Context, term string) (string, error)
}

// Launcher performs OS open actions.
type Launcher interface {
	OpenWebsite(url string) error
	OpenApp(name string) error
	PlayMedia(query, mediaType, platform string) (string, error)
}

// SystemMonitor reports host and connectivity status.
type SystemMonitor interface {
	SystemStatus(ctx context.Context) (string, error)
	ConnectionStatus(ctx context.Context) (string, error)
}

// Services bundles the dispatcher's external collaborators.
type Services struct {
	Weather  WeatherService
	Answers  AnswerService
	Launcher Launcher
	System   SystemMonitor

	// Confirm guards irreversible meta-commands (clear history). The REPL
	// plugs in an interactive prompt; the default declines.
	Confirm func(prompt string) bool
	// Clock is swappable for tests.
	Clock func() time.Time
}

// Result is the outcome of one dispatch pass.
type Result struct {
	Intent    intent.Intent
	Response  string
	Status    storage.Status
	Err       error
	HistoryID int64
	Recorded  bool
}

// Dispatcher runs the Idle → Resolving → Executing → Recording cycle for
// each input. It holds no session state beyond the user it acts for and
// the history-recording toggle.
type Dispatcher struct {
	store     *storage.Store
	log       *log.Logger
	userID    int64
	wakeWord  string
	svc       Services
	handlers  map[intent.Kind]Handler
	recording bool
}

// New builds a dispatcher with the full handler table registered.
func New(store *storage.Store, logger *log.Logger, userID int64, wakeWord string, svc Services) *Dispatcher {
	if svc.Clock == nil {
		svc.Clock = time.Now
	}
	if svc.Confirm == nil {
		svc.Confirm = func(string) bool { return false }
	}

	d := &Dispatcher{
		store:     store,
		log:       logger,
		userID:    userID,
		wakeWord:  wakeWord,
		svc:       svc,
		recording: true,
	}

	d.handlers = map[intent.Kind]Handler{
		intent.KindTime:          d.handleTime,
		intent.KindDate:          d.handleDate,
		intent.KindCalculate:     d.handleCalculate,
		intent.KindWeather:       d.handleWeather,
		intent.KindOpen:          d.handleOpen,
		intent.KindPlayMedia:     d.handlePlayMedia,
		intent.KindAsk:           d.handleAsk,
		intent.KindDefine:        d.handleDefine,
		intent.KindHelp:          d.handleHelp,
		intent.KindFunctions:     d.handleFunctions,
		intent.KindThanks:        d.handleThanks,
		intent.KindSystemStatus:  d.handleSystemStatus,
		intent.KindConnection:    d.handleConnectionStatus,
		intent.KindHistory:       d.handleHistory,
		intent.KindHistorySearch: d.handleHistorySearch,
		intent.KindHistoryClear:  d.handleHistoryClear,
		intent.KindHistoryStart:  d.handleHistoryStart,
		intent.KindHistoryStop:   d.handleHistoryStop,
	}
	return d
}

// Recording reports whether history recording is currently on.
func (d *Dispatcher) Recording() bool {
	return d.recording
}

// Dispatch processes one raw input line end to end. Every recognized or
// unrecognized command yields exactly one history row; blank input yields
// none. Errors never escape: the worst outcome is an error-status row and
// a fallback response.
func (d *Dispatcher) Dispatch(ctx context.Context, raw string) Result {
	// Snapshot so that "history stop" itself is still recorded and
	// "history start" is not (recording was off when it arrived).
	wasRecording := d.recording

	in := intent.Resolve(intent.Normalize(raw, d.wakeWord))

	if in.Kind == intent.KindNone {
		// Not a command; nothing to execute or persist.
		return Result{Intent: in, Response: responsePrompt}
	}

	res := Result{Intent: in}

	handler := d.handlers[in.Kind]
	if in.Kind == intent.KindUnrecognized || handler == nil {
		res.Status = storage.StatusFailure
		res.Response = responseUnrecognized
		d.record(ctx, raw, &res, storage.Document{
			"intent": string(intent.KindUnrecognized),
			"reason": "command not understood",
		}, wasRecording)
		return res
	}

	response, doc, err := d.execute(ctx, handler, in)
	switch {
	case err == nil:
		res.Status = storage.StatusSuccess
		res.Response = response
	case isDomainError(err):
		res.Status = storage.StatusFailure
		res.Err = err
		res.Response = failureResponse(err)
	default:
		res.Status = storage.StatusError
		res.Err = err
		res.Response = responseUnexpected
		d.log.Error("command failed unexpectedly", "intent", in.Kind, "err", err)
	}

	if doc == nil {
		doc = storage.Document{}
	}
	doc["intent"] = string(in.Kind)
	if err != nil {
		doc["error"] = err.Error()
	}

	d.record(ctx, raw, &res, doc, wasRecording)
	return res
}

// execute isolates the handler call so a panicking handler degrades into
// an error-status history row instead of killing the process.
func (d *Dispatcher) execute(ctx context.Context, h Handler, in intent.Intent) (response string, doc storage.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, in)
}

func (d *Dispatcher) record(ctx context.Context, raw string, res *Result, doc storage.Document, wasRecording bool) {
	if !wasRecording {
		return
	}
	id, err := d.store.RecordCommand(ctx, storage.CommandEvent{
		UserID:   d.userID,
		Command:  raw,
		Status:   res.Status,
		Response: res.Response,
		Context:  doc,
	})
	if err != nil {
		// The response still goes out; losing one log line beats crashing.
		d.log.Error("failed to record command", "err", err)
		return
	}
	res.HistoryID = id
	res.Recorded = true
}

// isDomainError separates expected failures (failure status) from
// unexpected ones (error status).
func isDomainError(err error) bool {
	return errors.Is(err, storage.ErrNotFound) ||
		errors.Is(err, storage.ErrValidation) ||
		errors.Is(err, storage.ErrStorage) ||
		errors.Is(err, services.ErrService) ||
		errors.Is(err, launcher.ErrLaunch)
}

func failureResponse(err error) string {
	switch {
	case errors.Is(err, storage.ErrValidation):
		return err.Error()
	case errors.Is(err, storage.ErrNotFound):
		return "I could not find that."
	case errors.Is(err, services.ErrRateLimited):
		return "The service is busy right now, please try again in a moment."
	case errors.Is(err, services.ErrInvalidKey):
		return "The service rejected the configured API key."
	case errors.Is(err, services.ErrService):
		return "The service is unavailable right now."
	case errors.Is(err, launcher.ErrLaunch):
		return "I was not able to open that."
	default:
		return "Something went wrong while talking to the database."
	}
}
