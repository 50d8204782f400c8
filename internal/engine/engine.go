// Package engine drives one decoy conversation turn end to end:
// extract artifacts, classify intent, advance the session under its
// lock, then pick the staged reply. The reply and any event publishing
// happen after state is committed, so slow consumers never serialize
// unrelated turns.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/snarelabs/decoy/internal/events"
	"github.com/snarelabs/decoy/internal/extract"
	"github.com/snarelabs/decoy/internal/intent"
	"github.com/snarelabs/decoy/internal/report"
	"github.com/snarelabs/decoy/internal/session"
)

type Engine struct {
	sessions session.Store
	events   *events.Publisher
	logger   *slog.Logger
}

func New(sessions session.Store, publisher *events.Publisher, logger *slog.Logger) *Engine {
	return &Engine{sessions: sessions, events: publisher, logger: logger}
}

// Turn is the outcome of one processed message.
type Turn struct {
	SessionID    string
	Reply        string
	TurnCount    int
	Stage        session.Stage
	Persona      session.Persona
	Intent       intent.Intent
	ScamDetected bool
	Extracted    extract.Result
	Intel        session.Intel
}

// Process handles one inbound message. Callers normalize malformed
// message content to an empty string before getting here; an empty
// message still advances the turn counter and earns a reply. The only
// failure mode is the store itself.
func (e *Engine) Process(ctx context.Context, sessionID, text string) (*Turn, error) {
	extracted := extract.Scan(text)
	msgIntent := intent.Classify(text)

	rec, err := e.sessions.Mutate(ctx, sessionID, func(r *session.Record) {
		r.TurnCount++
		r.Stage = session.StageFor(r.TurnCount)
		r.Intel.Merge(extracted)
		r.LastIntent = msgIntent
		if msgIntent != intent.General {
			r.SuspectIntent = true
		}
	})
	if err != nil {
		return nil, fmt.Errorf("advance session %s: %w", sessionID, err)
	}

	offset := rec.TurnCount - session.StageStart(rec.Stage)
	reply := replyFor(rec.Persona, rec.Stage, offset)

	e.logger.Info("turn processed",
		"session_id", sessionID,
		"turn", rec.TurnCount,
		"stage", rec.Stage,
		"persona", rec.Persona,
		"intent", msgIntent,
		"artifacts", extracted.Count(),
	)

	if !extracted.Empty() {
		e.events.PublishTurn(events.TurnEvent{
			SessionID: sessionID,
			Turn:      rec.TurnCount,
			Stage:     string(rec.Stage),
			Intent:    string(msgIntent),
			Extracted: extracted,
		})
	}

	return &Turn{
		SessionID:    sessionID,
		Reply:        reply,
		TurnCount:    rec.TurnCount,
		Stage:        rec.Stage,
		Persona:      rec.Persona,
		Intent:       msgIntent,
		ScamDetected: report.Detected(rec),
		Extracted:    extracted,
		Intel:        rec.Intel,
	}, nil
}

// FinalReport assembles the intelligence report for a session. Unknown
// session ids surface session.ErrNotFound untouched so the transport
// can answer 404 instead of an empty report.
func (e *Engine) FinalReport(ctx context.Context, sessionID string) (*report.Final, error) {
	rec, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	final := report.Assemble(rec)

	e.logger.Info("final report assembled",
		"session_id", sessionID,
		"turns", final.TotalMessagesExchanged,
		"scam_detected", final.ScamDetected,
		"artifacts", rec.Intel.Count(),
	)

	e.events.PublishReport(final)
	return final, nil
}
