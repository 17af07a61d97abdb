package crisis

import "strings"

// #region level

// Level is the safety classification for a single user message.
type Level string

const (
	Green  Level = "green"
	Yellow Level = "yellow"
	Red    Level = "red"
)

// #endregion level

// #region keywords

// redKeywords indicate acute risk. Any match forces a red classification,
// regardless of what else appears in the message.
var redKeywords = []string{
	"suicide",
	"suicidal",
	"kill myself",
	"end my life",
	"end it all",
	"want to die",
	"wish i was dead",
	"don't want to be here",
	"hurt myself",
	"harm myself",
	"self-harm",
	"no reason to live",
	"better off without me",
	"better off dead",
	"hopeless",
	"can't go on",
	"no way out",
}

// yellowKeywords indicate elevated distress that warrants grounding
// but not a full override.
var yellowKeywords = []string{
	"overwhelmed",
	"overwhelming",
	"panic",
	"panicking",
	"falling apart",
	"can't cope",
	"can't handle",
	"breaking down",
	"breakdown",
	"spiraling",
	"spiralling",
	"desperate",
	"terrified",
	"worthless",
	"so alone",
	"completely lost",
	"numb",
	"can't breathe",
}

// #endregion keywords

// #region detect

// Detect classifies raw message text into a crisis level. Pure and
// stage-independent: red keywords are checked first and win over yellow
// even when both appear; no match at all means green.
func Detect(text string) Level {
	lower := strings.ToLower(text)
	for _, kw := range redKeywords {
		if strings.Contains(lower, kw) {
			return Red
		}
	}
	for _, kw := range yellowKeywords {
		if strings.Contains(lower, kw) {
			return Yellow
		}
	}
	return Green
}

// #endregion detect
