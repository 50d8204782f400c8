package api

import "encoding/json"

// MessageField accepts the two wire shapes scammer platforms send: a
// bare string, or an object carrying the text under a "text" key.
// Anything else (numbers, null, arrays, missing key) normalizes to the
// empty string — malformed content is coerced, never rejected.
type MessageField struct {
	Text string
}

func (m *MessageField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		m.Text = s
		return nil
	}

	var obj struct {
		Text any `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		if s, ok := obj.Text.(string); ok {
			m.Text = s
		}
	}
	return nil
}

// turnRequest is the inbound turn payload. Extra fields the platform
// sends (sender, timestamp, conversationHistory, metadata) are ignored.
type turnRequest struct {
	SessionID      string       `json:"sessionId"`
	SessionIDSnake string       `json:"session_id"`
	Message        MessageField `json:"message"`
}

func (r turnRequest) sessionID() string {
	if r.SessionID != "" {
		return r.SessionID
	}
	return r.SessionIDSnake
}

type finalRequest struct {
	SessionID      string `json:"sessionId"`
	SessionIDSnake string `json:"session_id"`
}

func (r finalRequest) sessionID() string {
	if r.SessionID != "" {
		return r.SessionID
	}
	return r.SessionIDSnake
}
