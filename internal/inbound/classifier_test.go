package inbound

import "testing"

func TestClassifyIntentReplyDigits(t *testing.T) {
	if got := ClassifyIntent("1"); got != IntentAccept {
		t.Fatalf(`"1" should be ACCEPT, got %s`, got)
	}
	if got := ClassifyIntent(" 2 "); got != IntentReject {
		t.Fatalf(`" 2 " should be REJECT, got %s`, got)
	}
	// digits inside longer text are not reply digits
	if got := ClassifyIntent("pickup at 1"); got != IntentUnrecognized {
		t.Fatalf(`"pickup at 1" should be UNRECOGNIZED, got %s`, got)
	}
}

func TestClassifyIntentAcceptKeywords(t *testing.T) {
	cases := []string{
		"yes",
		"YES",
		"ok",
		"OK!",
		"okay",
		"accept",
		"Confirm",
		"got it",
		"Got it, see you there",
		"on my way",
		"I'm on my way now",
	}
	for _, body := range cases {
		if got := ClassifyIntent(body); got != IntentAccept {
			t.Errorf("ClassifyIntent(%q) = %s, want ACCEPT", body, got)
		}
	}
}

func TestClassifyIntentRejectKeywords(t *testing.T) {
	cases := []string{
		"no",
		"No thanks",
		"reject",
		"decline",
		"can't",
		"cant",
		"I'm busy",
		"not available",
		"sorry, not available this week",
	}
	for _, body := range cases {
		if got := ClassifyIntent(body); got != IntentReject {
			t.Errorf("ClassifyIntent(%q) = %s, want REJECT", body, got)
		}
	}
}

func TestClassifyIntentUnrecognized(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"what load is this?",
		"call me",
		"12",
		"maybe",
	}
	for _, body := range cases {
		if got := ClassifyIntent(body); got != IntentUnrecognized {
			t.Errorf("ClassifyIntent(%q) = %s, want UNRECOGNIZED", body, got)
		}
	}
}

func TestClassifyIntentConflictingKeywords(t *testing.T) {
	// Both families present: do not guess.
	if got := ClassifyIntent("yes no"); got != IntentUnrecognized {
		t.Fatalf(`"yes no" should be UNRECOGNIZED, got %s`, got)
	}
	if got := ClassifyIntent("ok but I'm busy"); got != IntentUnrecognized {
		t.Fatalf(`"ok but I'm busy" should be UNRECOGNIZED, got %s`, got)
	}
}
