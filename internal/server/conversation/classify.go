// Package conversation implements the message-handling core of mealbot: it
// decides what an inbound message means, drives the collaborators, and keeps
// the per-sender pending meal.
package conversation

import (
	"slices"
	"strings"
)

// Intent is the classified meaning of one inbound message.
type Intent int

const (
	IntentEmpty Intent = iota
	IntentSummary
	IntentConfirm
	IntentReject
	IntentExtract
)

func (i Intent) String() string {
	switch i {
	case IntentSummary:
		return "summary"
	case IntentConfirm:
		return "confirm"
	case IntentReject:
		return "reject"
	case IntentExtract:
		return "extract"
	default:
		return "empty"
	}
}

// Keyword sets. Summary keywords match as substrings, the others only as the
// whole normalized message.
var (
	SummaryKeywords      = []string{"/summary", "summary", "today", "how much today?", "what did i eat"}
	ConfirmationKeywords = []string{"yes", "y", "ok", "save", "yeah", "yup"}
	RejectionKeywords    = []string{"no", "n", "nope", "cancel", "discard"}
)

// NormalizeText lowercases and trims a message body or transcript.
func NormalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeSender trims and lower-cases the provider's sender address. The
// result is the key for pending state, sender locks and stored rows.
func NormalizeSender(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Classify applies the fixed priority order
// summary > confirmation > rejection > extraction > empty to normalized text.
func Classify(text string, hasPending bool) Intent {
	if IsSummaryRequest(text) {
		return IntentSummary
	}
	if hasPending && slices.Contains(ConfirmationKeywords, text) {
		return IntentConfirm
	}
	if hasPending && slices.Contains(RejectionKeywords, text) {
		return IntentReject
	}
	if text != "" {
		return IntentExtract
	}
	return IntentEmpty
}

func IsSummaryRequest(text string) bool {
	for _, k := range SummaryKeywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
