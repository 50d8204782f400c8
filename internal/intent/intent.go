// Package intent classifies inbound messages into a small fixed set of
// scam-pressure categories using deterministic keyword matching.
package intent

import "strings"

// Intent is the mutually-exclusive classification of a single message.
type Intent string

const (
	Financial  Intent = "FINANCIAL"
	Credential Intent = "CREDENTIAL"
	Urgency    Intent = "URGENCY"
	General    Intent = "GENERAL"
)

// keywordGroups are checked in fixed priority order, and the order is
// part of the contract: a message carrying both a payment lure and an
// OTP request classifies as FINANCIAL. Reordering the groups changes
// which reply pool downstream consumers pick.
var keywordGroups = []struct {
	intent   Intent
	keywords []string
}{
	{Financial, []string{"upi", "pay", "vpa", "transfer"}},
	{Credential, []string{"otp", "code", "sms", "verify"}},
	{Urgency, []string{"block", "kyc", "urgent", "police", "bank"}},
}

// Classify resolves the intent of a message by case-insensitive
// substring search. The first group with any keyword present wins;
// GENERAL is the fallback when nothing matches.
func Classify(text string) Intent {
	lower := strings.ToLower(text)
	for _, g := range keywordGroups {
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				return g.intent
			}
		}
	}
	return General
}
