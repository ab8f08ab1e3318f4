package inbound

import "strings"

// Intent is the classified meaning of an inbound SMS body.
type Intent string

const (
	IntentAccept       Intent = "ACCEPT"
	IntentReject       Intent = "REJECT"
	IntentUnrecognized Intent = "UNRECOGNIZED"
)

// Reply digits take priority over keyword matching; outbound messages ask
// drivers to reply 1 or 2.
const (
	replyAccept = "1"
	replyReject = "2"
)

var acceptPhrases = []string{"got it", "on my way"}

var acceptWords = map[string]struct{}{
	"confirm":   {},
	"confirmed": {},
	"accept":    {},
	"accepted":  {},
	"yes":       {},
	"ok":        {},
	"okay":      {},
	"yep":       {},
}

var rejectPhrases = []string{"not available", "cant make it", "can not"}

var rejectWords = map[string]struct{}{
	"reject":   {},
	"rejected": {},
	"decline":  {},
	"declined": {},
	"no":       {},
	"nope":     {},
	"cant":     {},
	"cannot":   {},
	"busy":     {},
}

// ClassifyIntent maps a free-form SMS body to an intent. An exact "1" or "2"
// reply wins outright; otherwise keyword families are checked. A body that
// matches both families is unrecognized rather than guessed at.
func ClassifyIntent(body string) Intent {
	trimmed := strings.TrimSpace(body)
	switch trimmed {
	case replyAccept:
		return IntentAccept
	case replyReject:
		return IntentReject
	}

	normalized := normalizeBody(trimmed)
	tokens := strings.Fields(normalized)

	accept := matchesFamily(normalized, tokens, acceptPhrases, acceptWords)
	reject := matchesFamily(normalized, tokens, rejectPhrases, rejectWords)

	switch {
	case accept && reject:
		return IntentUnrecognized
	case accept:
		return IntentAccept
	case reject:
		return IntentReject
	}
	return IntentUnrecognized
}

func matchesFamily(normalized string, tokens []string, phrases []string, words map[string]struct{}) bool {
	for _, p := range phrases {
		if strings.Contains(normalized, p) {
			return true
		}
	}
	for _, tok := range tokens {
		if _, ok := words[tok]; ok {
			return true
		}
	}
	return false
}

// normalizeBody lowercases the text and strips punctuation so "OK!" and
// "can't" match their keyword forms.
func normalizeBody(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n':
			b.WriteByte(' ')
		case r == '\'' || r == '’':
			// drop apostrophes so "can't" becomes "cant"
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
