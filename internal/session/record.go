// Package session owns the per-conversation state of the decoy: one
// record per session id, holding the turn counter, narrative stage,
// persona and accumulated intelligence. Records are only ever mutated
// through a Store, which serializes writers per session id.
package session

import (
	"hash/fnv"
	"time"

	"github.com/snarelabs/decoy/internal/extract"
	"github.com/snarelabs/decoy/internal/intent"
)

// Persona is the decoy character a session speaks as. It is fixed at
// session creation and only flavors replies — it never affects stage
// progression.
type Persona string

const (
	PersonaElderly Persona = "elderly"
	PersonaAnxious Persona = "anxious"
	PersonaBusy    Persona = "busy"
)

var personas = []Persona{PersonaElderly, PersonaAnxious, PersonaBusy}

// AssignPersona picks the persona for a new session by hashing the
// session id, so the same session always gets the same persona even
// across restarts with a persistent store.
func AssignPersona(sessionID string) Persona {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return personas[h.Sum32()%uint32(len(personas))]
}

// Record is the full state of one decoy conversation.
type Record struct {
	SessionID     string
	TurnCount     int
	Stage         Stage
	Persona       Persona
	Intel         Intel
	LastIntent    intent.Intent
	SuspectIntent bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewRecord allocates the initial state for a first-seen session id:
// zero turns, CONFUSION stage, a persona, and empty intelligence.
func NewRecord(sessionID string, now time.Time) *Record {
	return &Record{
		SessionID: sessionID,
		Stage:     StageConfusion,
		Persona:   AssignPersona(sessionID),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy safe to read after the per-session lock is
// released.
func (r *Record) Clone() *Record {
	c := *r
	c.Intel = r.Intel.Clone()
	return &c
}

// Intel is the accumulated artifact set for a session, one
// insertion-ordered set per category. It only ever grows.
type Intel struct {
	Handles  []string `json:"handles"`
	URLs     []string `json:"urls"`
	Phones   []string `json:"phones"`
	Accounts []string `json:"accounts"`
}

// Merge unions a single extraction into the accumulated set, skipping
// artifacts already recorded in their category.
func (i *Intel) Merge(r extract.Result) {
	i.Handles = union(i.Handles, r.Handles)
	i.URLs = union(i.URLs, r.URLs)
	i.Phones = union(i.Phones, r.Phones)
	i.Accounts = union(i.Accounts, r.Accounts)
}

// Empty reports whether no artifact has been recorded in any category.
func (i Intel) Empty() bool {
	return len(i.Handles) == 0 && len(i.URLs) == 0 && len(i.Phones) == 0 && len(i.Accounts) == 0
}

// Count returns the total number of recorded artifacts.
func (i Intel) Count() int {
	return len(i.Handles) + len(i.URLs) + len(i.Phones) + len(i.Accounts)
}

// Clone copies the underlying slices so callers cannot alias the
// store's state.
func (i Intel) Clone() Intel {
	return Intel{
		Handles:  append([]string(nil), i.Handles...),
		URLs:     append([]string(nil), i.URLs...),
		Phones:   append([]string(nil), i.Phones...),
		Accounts: append([]string(nil), i.Accounts...),
	}
}

func union(have, add []string) []string {
	if len(add) == 0 {
		return have
	}
	seen := make(map[string]struct{}, len(have))
	for _, v := range have {
		seen[v] = struct{}{}
	}
	for _, v := range add {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		have = append(have, v)
	}
	return have
}
