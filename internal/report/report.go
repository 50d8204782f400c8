// Package report assembles the final intelligence payload for a
// finished session. Assembly is a pure function of the session record;
// looking the record up (and failing loudly on an unknown id) is the
// store's job.
package report

import (
	"github.com/snarelabs/decoy/internal/session"
)

// Final is the fixed-shape report forwarded to the evaluation service
// when a session closes.
type Final struct {
	SessionID              string       `json:"sessionId"`
	ScamDetected           bool         `json:"scamDetected"`
	TotalMessagesExchanged int          `json:"totalMessagesExchanged"`
	ExtractedIntelligence  Intelligence `json:"extractedIntelligence"`
}

// Intelligence is the wire shape of the four artifact categories. All
// arrays serialize as [] rather than null.
type Intelligence struct {
	UPIIDs        []string `json:"upiIds"`
	PhishingLinks []string `json:"phishingLinks"`
	PhoneNumbers  []string `json:"phoneNumbers"`
	BankAccounts  []string `json:"bankAccounts"`
}

// IntelligenceFrom converts accumulated session intel to the wire
// shape, guaranteeing non-nil arrays.
func IntelligenceFrom(i session.Intel) Intelligence {
	return Intelligence{
		UPIIDs:        orEmpty(i.Handles),
		PhishingLinks: orEmpty(i.URLs),
		PhoneNumbers:  orEmpty(i.Phones),
		BankAccounts:  orEmpty(i.Accounts),
	}
}

// Detected is the pinned scam-detection policy: a session is flagged
// when any artifact was extracted or any message classified as
// something other than GENERAL.
func Detected(rec *session.Record) bool {
	return !rec.Intel.Empty() || rec.SuspectIntent
}

// Assemble builds the final report from a session record.
func Assemble(rec *session.Record) *Final {
	return &Final{
		SessionID:              rec.SessionID,
		ScamDetected:           Detected(rec),
		TotalMessagesExchanged: rec.TurnCount,
		ExtractedIntelligence:  IntelligenceFrom(rec.Intel),
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
