// Package events publishes decoy intelligence onto NATS for downstream
// consumers (dashboards, correlation jobs). The engine works the same
// with or without a broker: a nil Publisher drops everything.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/snarelabs/decoy/internal/extract"
	"github.com/snarelabs/decoy/internal/report"
)

// Subjects published by the decoy agent.
const (
	SubjectTurn   = "decoy.intel.turn"
	SubjectReport = "decoy.session.report"
)

// TurnEvent is the payload for SubjectTurn, emitted after a turn that
// extracted new candidate artifacts.
type TurnEvent struct {
	SessionID string         `json:"sessionId"`
	Turn      int            `json:"turn"`
	Stage     string         `json:"stage"`
	Intent    string         `json:"intent"`
	Extracted extract.Result `json:"extracted"`
}

type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func Connect(url, token string, logger *slog.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Publisher{conn: nc, logger: logger}, nil
}

func (p *Publisher) PublishTurn(evt TurnEvent) {
	if p == nil {
		return
	}
	p.publish(SubjectTurn, evt)
}

func (p *Publisher) PublishReport(final *report.Final) {
	if p == nil {
		return
	}
	p.publish(SubjectReport, final)
}

// publish marshals and fires the event. Event loss is logged, never
// surfaced: intelligence delivery must not fail the conversation.
func (p *Publisher) publish(subject string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		p.logger.Error("marshal event", "subject", subject, "error", err)
		return
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.Warn("publish failed", "subject", subject, "error", err)
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.conn.Close()
}
