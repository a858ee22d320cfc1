package assistant

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/novahq/nova/internal/intent"
	"github.com/novahq/nova/internal/storage"
)

const (
	responsePrompt       = `Say something like "nova tell me the time", or "help" for the full list.`
	responseUnrecognized = `I did not understand that. Say "help" to see what I can do.`
	responseUnexpected   = "Something unexpected went wrong, but I am still here."

	helpText = `I understand these commands:
  time / date              current time or date
  calculate <expression>   arithmetic, e.g. "calculate 2 + 2"
  weather <city>           current weather
  open <target>            open a website or application
  open <name> song on spotify
  open <name> video on youtube
  ask <question>           ask a question
  define <term>            define a term
  status / connection      system and network status
  history                  recent commands
  search <term>            search command history
  history start/stop       toggle history recording
  clear history            delete command history
Prefix any command with the wake word or type it directly.`
)

func (d *Dispatcher) handleTime(ctx context.Context, in intent.Intent) (string, storage.Document, error) {
	now := d.svc.Clock()
	clock := now.Format("15:04")
	return "The current time is " + clock + ".", storage.Document{"time": clock}, nil
}

func (d *Dispatcher) handleDate(ctx context.Context, in intent.Intent) (string, storage.Document, error) {
	now := d.svc.Clock()
	date := now.Format("Monday, January 2, 2006")
	return "Today is " + date + ".", storage.Document{"date": now.Format("2006-01-02")}, nil
}

// calcCharset bounds what reaches the expression evaluator. Anything else
// is a user mistake, not an expression.
const calcCharset = "0123456789+-*/(). "

func (d *Dispatcher) handleCalculate(ctx context.Context, in intent.Intent) (string, storage.Document, error) {
	expr := in.Arg
	if expr == "" {
		return "", nil, fmt.Errorf(`%w: please provide a calculation, e.g. "calculate 2 + 2"`, storage.ErrValidation)
	}
	for _, r := range expr {
		if !strings.ContainsRune(calcCharset, r) {
			return "", nil, fmt.Errorf("%w: I can only calculate with numbers and + - * / ( )", storage.ErrValidation)
		}
	}

	parsed, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return "", nil, fmt.Errorf("%w: that is not a valid expression", storage.ErrValidation)
	}
	value, err := parsed.Evaluate(nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: I could not evaluate that: %s", storage.ErrValidation, err)
	}
	result, ok := value.(float64)
	if !ok {
		return "", nil, fmt.Errorf("%w: that did not evaluate to a number", storage.ErrValidation)
	}

	formatted := strconv.FormatFloat(result, 'f', -1, 64)
	doc := storage.Document{"expression": expr, "result": result}
	return "The result is " + formatted + ".", doc, nil
}

func (d *Dispatcher) handleWeather(ctx context.Context, in intent.Intent) (string, storage.Document, error) {
	city := in.Arg
	if city == "" {
		return "", nil, fmt.Errorf(`%w: please name a city, e.g. "weather London"`, storage.ErrValidation)
	}
	report, err := d.svc.Weather.Current(ctx, city)
	if err != nil {
		return "", storage.Document{"city": city}, err
	}
	return report, storage.Document{"city": city}, nil
}

func (d *Dispatcher) handleOpen(ctx context.Context, in intent.Intent) (string, storage.Document, error) {
	target := in.Arg
	if target == "" {
		return "", nil, fmt.Errorf(`%w: please name what to open, e.g. "open github.com"`, storage.ErrValidation)
	}

	// A dot means a domain; everything else is treated as an application.
	if strings.Contains(target, ".") {
		doc := storage.Document{"target": target, "kind": "website"}
		if err := d.svc.Launcher.OpenWebsite(target); err != nil {
			return "", doc, err
		}
		return "Opening " + target + " in your browser.", doc, nil
	}

	doc := storage.Document{"target": target, "kind": "app"}
	if err := d.svc.Launcher.OpenApp(target); err != nil {
		return "", doc, err
	}
	return "Opening " + target + ".", doc, nil
}

func (d *Dispatcher) handlePlayMedia(ctx context.Context, in intent.Intent) (string, storage.Document, error) {
	doc := storage.Document{
		"query":    in.Arg,
		"media":    in.Meta["media"],
		"platform": in.Meta["platform"],
	}
	response, err := d.svc.Launcher.PlayMedia(in.Arg, in.Meta["media"], in.Meta["platform"])
	if err != nil {
		return "", doc, err
	}
	return response, doc, nil
}

func (d *Dispatcher) handleAsk(ctx context.Context, in intent.Intent) (string, storage.Document, error) {
	if in.Arg == "" {
		return "", nil, fmt.Errorf(`%w: please ask a question, e.g. "ask why the sky is blue"`, storage.ErrValidation)
	}
	answer, err := d.svc.Answers.Ask(ctx, in.Arg)
	if err != nil {
		return "", storage.Document{"question": in.Arg}, err
	}
	return answer, storage.Document{"question": in.Arg}, nil
}

func (d *Dispatcher) handleDefine(ctx context.Context, in intent.Intent) (string, storage.Document, error) {
	if in.Arg == "" {
		return "", nil, fmt.Errorf(`%w: please name a term, e.g. "define entropy"`, storage.ErrValidation)
	}
	definition, err := d.svc.Answers.Define(ctx, in.Arg)
	if err != nil {
		return "", storage.Document{"term": in.Arg}, err
	}
	return definition, storage.Document{"term": in.Arg}, nil
}

func (d *Dispatcher) handleHelp(ctx context.Context, in intent.Intent) (string, storage.Document, error) {
	return helpText, nil, nil
}

func (d *Dispatcher) handleFunctions(ctx context.Context, in intent.Intent) (string, storage.Document, error) {
	n := len(d.handlers)
	return fmt.Sprintf("I currently support %d commands. Say \"help\" for details.", n),
		storage.Document{"commands": n}, nil
}

func (d *Dispatcher) handleThanks(ctx context.Context, in intent.Intent) (string, storage.Document, error) {
	return "You're welcome!", nil, nil
}

func (d *Dispatcher) handleSystemStatus(ctx context.Context, in intent.Intent) (string, storage.Document, error) {
	report, err := d.svc.System.SystemStatus(ctx)
	if err != nil {
		return "", nil, err
	}
	return report, nil, nil
}

func (d *Dispatcher) handleConnectionStatus(ctx context.Context, in intent.Intent) (string, storage.Document, error) {
	report, err := d.svc.System.ConnectionStatus(ctx)
	if err != nil {
		return "", nil, err
	}
	return report, nil, nil
}

func (d *Dispatcher) handleHistory(ctx context.Context, in intent.Intent) (string, storage.Document, error) {
	entries, err := d.store.ListHistory(ctx, storage.HistoryFilter{UserID: d.userID, Limit: 10})
	if err != nil {
		return "", nil, err
	}
	if len(entries) == 0 {
		return "Your command history is empty.", storage.Document{"entries": 0}, nil
	}
	return formatHistory("Recent commands:", entries), storage.Document{"entries": len(entries)}, nil
}

func (d *Dispatcher) handleHistorySearch(ctx context.Context, in intent.Intent) (string, storage.Document, error) {
	term := in.Arg
	if term == "" {
		return "", nil, fmt.Errorf(`%w: please provide a search term, e.g. "search weather"`, storage.ErrValidation)
	}
	entries, err := d.store.SearchHistory(ctx, d.userID, term, 10)
	if err != nil {
		return "", storage.Document{"term": term}, err
	}
	doc := storage.Document{"term": term, "matches": len(entries)}
	if len(entries) == 0 {
		return fmt.Sprintf("No history entries match %q.", term), doc, nil
	}
	return formatHistory(fmt.Sprintf("History matching %q:", term), entries), doc, nil
}

func (d *Dispatcher) handleHistoryClear(ctx context.Context, in intent.Intent) (string, storage.Document, error) {
	if !d.svc.Confirm("This permanently deletes your command history. Continue?") {
		return "History was not cleared.", storage.Document{"cleared": false}, nil
	}
	n, err := d.store.ClearHistory(ctx, d.userID)
	if err != nil {
		return "", storage.Document{"cleared": false}, err
	}
	return fmt.Sprintf("Cleared %d history entries.", n),
		storage.Document{"cleared": true, "deleted": n}, nil
}

func (d *Dispatcher) handleHistoryStart(ctx context.Context, in intent.Intent) (string, storage.Document, error) {
	d.recording = true
	return "Command history recording is on.", nil, nil
}

func (d *Dispatcher) handleHistoryStop(ctx context.Context, in intent.Intent) (string, storage.Document, error) {
	d.recording = false
	return "Command history recording is off.", nil, nil
}

func formatHistory(header string, entries []*storage.HistoryEntry) string {
	var b strings.Builder
	b.WriteString(header)
	for i, e := range entries {
		fmt.Fprintf(&b, "\n  %d. [%s] %s (%s)",
			i+1, e.Timestamp.Format("2006-01-02 15:04"), e.Command, e.Status)
	}
	return b.String()
}
