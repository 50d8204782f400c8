// Package extract pulls candidate intelligence artifacts out of raw
// scammer messages: payment handles, phishing links, phone numbers and
// account-like digit runs. Everything here is a pure text scan — no
// state, no I/O, and no failure modes.
package extract

import "regexp"

// Result holds the artifacts found in a single message, deduplicated
// within each category. Categories are not deduplicated against each
// other: a 10-digit mobile number that also satisfies the account shape
// shows up in both. Downstream consumers treat every entry as a
// candidate, not a verified identifier.
type Result struct {
	Handles  []string `json:"handles"`
	URLs     []string `json:"urls"`
	Phones   []string `json:"phones"`
	Accounts []string `json:"accounts"`
}

var (
	// handleRe intentionally overmatches: it catches UPI VPAs like
	// rahul@okaxis as well as plain email-shaped tokens.
	handleRe = regexp.MustCompile(`[\w.-]{2,256}@[A-Za-z]{2,64}`)

	urlRe = regexp.MustCompile(`https?://(?:%[0-9A-Fa-f]{2}|[\w./-])+`)

	// Indian mobile numbering: optional +91 or trunk 0, first digit 6-9.
	phoneRe = regexp.MustCompile(`(?:\+91|0)?[6-9][0-9]{9}`)

	accountRe = regexp.MustCompile(`\b[0-9]{9,18}\b`)
)

// Scan extracts all candidate artifacts from text. It never fails;
// empty text yields four empty, non-nil sets.
func Scan(text string) Result {
	return Result{
		Handles:  dedupe(handleRe.FindAllString(text, -1)),
		URLs:     dedupe(urlRe.FindAllString(text, -1)),
		Phones:   dedupe(findPhones(text)),
		Accounts: dedupe(accountRe.FindAllString(text, -1)),
	}
}

// findPhones applies phoneRe and then rejects matches embedded in a
// longer digit run, so a 12-digit account number does not shed a bogus
// 10-digit "phone" from its tail.
func findPhones(text string) []string {
	var out []string
	for _, loc := range phoneRe.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && isDigit(text[start-1]) {
			continue
		}
		if end < len(text) && isDigit(text[end]) {
			continue
		}
		out = append(out, text[start:end])
	}
	return out
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// Empty reports whether the scan found nothing in any category.
func (r Result) Empty() bool {
	return len(r.Handles) == 0 && len(r.URLs) == 0 && len(r.Phones) == 0 && len(r.Accounts) == 0
}

// Count returns the total number of artifacts across all categories.
func (r Result) Count() int {
	return len(r.Handles) + len(r.URLs) + len(r.Phones) + len(r.Accounts)
}

func dedupe(matches []string) []string {
	out := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
