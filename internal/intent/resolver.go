package intent

import (
	"regexp"
	"strings"
)

// phraseRewrites folds spoken long forms into canonical command words.
// Applied in order during normalization, before rule matching.
var phraseRewrites = [][2]string{
	{"tell me the weather of", "weather"},
	{"tell me the weather in", "weather"},
	{"tell me weather of", "weather"},
	{"tell me weather in", "weather"},
	{"what is the weather in", "weather"},
	{"what is the weather of", "weather"},
	{"tell me the time", "time"},
	{"what is the time", "time"},
	{"tell me the date", "date"},
	{"what is the date", "date"},
	{"tell me today's date", "date"},
}

// Normalize lower-cases, trims, collapses whitespace, strips a leading
// wake-word token and applies the phrase rewrites.
func Normalize(raw, wakeWord string) string {
	text := strings.ToLower(strings.TrimSpace(raw))
	text = strings.Join(strings.Fields(text), " ")

	if wakeWord != "" {
		wake := strings.ToLower(wakeWord)
		if text == wake {
			text = ""
		} else if strings.HasPrefix(text, wake+" ") {
			text = strings.TrimSpace(text[len(wake)+1:])
		}
	}

	for _, rw := range phraseRewrites {
		text = strings.ReplaceAll(text, rw[0], rw[1])
	}
	return strings.Join(strings.Fields(text), " ")
}

// rule pairs a matcher with an intent constructor. The table below is
// iterated in order and the FIRST match wins; overlapping patterns (the
// media form of "open" before the generic one, prefixes before bare
// keywords) are resolved purely by their position here.
type rule struct {
	match func(text string) (Intent, bool)
}

var mediaPattern = regexp.MustCompile(`^open (.+) (song|video) on (spotify|youtube)$`)

var rules = []rule{
	{exact("help", KindHelp)},
	{exact("functions", KindFunctions)},
	{exact("status", KindSystemStatus)},
	{exact("connection", KindConnection)},
	{exact("history start", KindHistoryStart)},
	{exact("history stop", KindHistoryStop)},
	{exact("history", KindHistory)},
	{exact("clear history", KindHistoryClear)},
	{prefix("search ", KindHistorySearch)},
	{prefix("ask ", KindAsk)},
	{prefix("define ", KindDefine)},
	{prefix("calculate ", KindCalculate)},
	{matchWeather},
	{matchMedia},
	{prefix("open ", KindOpen)},
	{keyword("time", KindTime)},
	{keyword("date", KindDate)},
	{matchThanks},
}

// Resolve maps normalized text to an intent. Pure and deterministic: the
// same input always yields the same intent. Empty input is KindNone, which
// the dispatcher treats as a no-op rather than a failed command.
func Resolve(text string) Intent {
	if text == "" {
		return Intent{Kind: KindNone}
	}
	for _, r := range rules {
		if in, ok := r.match(text); ok {
			return in
		}
	}
	return Intent{Kind: KindUnrecognized, Arg: text}
}

func exact(pattern string, kind Kind) func(string) (Intent, bool) {
	return func(text string) (Intent, bool) {
		if text == pattern {
			return Intent{Kind: kind}, true
		}
		return Intent{}, false
	}
}

func prefix(pattern string, kind Kind) func(string) (Intent, bool) {
	return func(text string) (Intent, bool) {
		if strings.HasPrefix(text, pattern) {
			return Intent{Kind: kind, Arg: strings.TrimSpace(text[len(pattern):])}, true
		}
		return Intent{}, false
	}
}

func keyword(word string, kind Kind) func(string) (Intent, bool) {
	return func(text string) (Intent, bool) {
		for _, f := range strings.Fields(text) {
			if f == word {
				return Intent{Kind: kind}, true
			}
		}
		return Intent{}, false
	}
}

// matchWeather accepts "weather <city>" with an optional "of"/"in"
// separator left over from the spoken forms.
func matchWeather(text string) (Intent, bool) {
	if text != "weather" && !strings.HasPrefix(text, "weather ") {
		return Intent{}, false
	}
	city := strings.TrimSpace(strings.TrimPrefix(text, "weather"))
	for _, sep := range []string{"of ", "in "} {
		if strings.HasPrefix(city, sep) {
			city = strings.TrimSpace(city[len(sep):])
			break
		}
	}
	return Intent{Kind: KindWeather, Arg: city}, true
}

// matchMedia accepts "open <name> song|video on spotify|youtube". Must sit
// before the generic "open " prefix rule.
func matchMedia(text string) (Intent, bool) {
	m := mediaPattern.FindStringSubmatch(text)
	if m == nil {
		return Intent{}, false
	}
	return Intent{
		Kind: KindPlayMedia,
		Arg:  strings.TrimSpace(m[1]),
		Meta: map[string]string{"media": m[2], "platform": m[3]},
	}, true
}

func matchThanks(text string) (Intent, bool) {
	if text == "thanks" || text == "thank you" {
		return Intent{Kind: KindThanks}, true
	}
	return Intent{}, false
}
