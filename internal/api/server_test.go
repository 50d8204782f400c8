package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/snarelabs/decoy/internal/engine"
	"github.com/snarelabs/decoy/internal/session"
)

const testAPIKey = "sk-test-key"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer() *Server {
	eng := engine.New(session.NewMemory(), nil, discardLogger())
	return NewServer(8750, testAPIKey, []string{"*"}, eng, nil, discardLogger())
}

func postJSON(srv *Server, path, body string, withKey bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if withKey {
		req.Header.Set("x-api-key", testAPIKey)
	}
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestLivenessEndpoints(t *testing.T) {
	srv := newTestServer()

	for _, tt := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodHead, "/"},
		{http.MethodGet, "/api/honeypot"},
		{http.MethodHead, "/api/honeypot"},
	} {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("%s %s = %d, want 200 without auth", tt.method, tt.path, w.Code)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/decoy/status", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["agent"] != "decoy" {
		t.Errorf("agent = %q, want decoy", body["agent"])
	}
}

func TestTurn_RequiresAPIKey(t *testing.T) {
	srv := newTestServer()

	w := postJSON(srv, "/api/honeypot", `{"sessionId":"s1","message":"hello"}`, false)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] != "unauthorized" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestTurn_StringMessage(t *testing.T) {
	srv := newTestServer()

	w := postJSON(srv, "/api/honeypot", `{"sessionId":"s1","message":"pay me at rahul@okaxis"}`, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp turnResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("status = %q", resp.Status)
	}
	if resp.SessionID != "s1" {
		t.Errorf("sessionId = %q, want s1", resp.SessionID)
	}
	if resp.Reply == "" {
		t.Error("expected a non-empty reply")
	}
	if !resp.ScamDetected {
		t.Error("payment lure with a handle should flag the session")
	}
	if len(resp.ExtractedIntelligence.UPIIDs) != 1 || resp.ExtractedIntelligence.UPIIDs[0] != "rahul@okaxis" {
		t.Errorf("upiIds = %v", resp.ExtractedIntelligence.UPIIDs)
	}
}

func TestTurn_ObjectMessage(t *testing.T) {
	srv := newTestServer()

	body := `{"sessionId":"s2","message":{"sender":"scammer","text":"call 9876543210","timestamp":"2026-01-31T10:00:00Z"}}`
	w := postJSON(srv, "/api/honeypot", body, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp turnResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.ExtractedIntelligence.PhoneNumbers) != 1 {
		t.Errorf("phoneNumbers = %v", resp.ExtractedIntelligence.PhoneNumbers)
	}
}

func TestTurn_MissingSessionIDMintsOne(t *testing.T) {
	srv := newTestServer()

	w := postJSON(srv, "/api/honeypot", `{"message":"hello"}`, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp turnResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("expected a minted session id")
	}
}

func TestTurn_MalformedBodyStillReplies(t *testing.T) {
	srv := newTestServer()

	w := postJSON(srv, "/api/honeypot", `{not json`, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for malformed body, got %d", w.Code)
	}

	var resp turnResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reply == "" {
		t.Error("expected a reply even for a malformed body")
	}
}

func TestTurn_SnakeCaseSessionID(t *testing.T) {
	srv := newTestServer()

	w := postJSON(srv, "/api/honeypot", `{"session_id":"legacy","message":"hi"}`, true)
	var resp turnResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID != "legacy" {
		t.Errorf("sessionId = %q, want legacy", resp.SessionID)
	}
}

func TestFinal_UnknownSession(t *testing.T) {
	srv := newTestServer()

	w := postJSON(srv, "/api/honeypot/final", `{"sessionId":"never-seen"}`, true)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] != "session not found" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestFinal_MissingSessionID(t *testing.T) {
	srv := newTestServer()

	w := postJSON(srv, "/api/honeypot/final", `{}`, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestFullConversationFlow(t *testing.T) {
	srv := newTestServer()

	messages := []string{
		"Your bank account will be blocked today. Verify immediately.",
		"Share your UPI ID rahul.k-99@okaxis to avoid suspension.",
		"Or call 9876543210, link http://bit.ly/x",
	}
	for i, msg := range messages {
		payload, _ := json.Marshal(map[string]any{
			"sessionId": "flow-1",
			"message":   map[string]string{"sender": "scammer", "text": msg},
		})
		w := postJSON(srv, "/api/honeypot", string(payload), true)
		if w.Code != http.StatusOK {
			t.Fatalf("turn %d: %d", i+1, w.Code)
		}
	}

	w := postJSON(srv, "/api/honeypot/final", `{"sessionId":"flow-1"}`, true)
	if w.Code != http.StatusOK {
		t.Fatalf("final: %d: %s", w.Code, w.Body.String())
	}

	var final struct {
		SessionID              string `json:"sessionId"`
		ScamDetected           bool   `json:"scamDetected"`
		TotalMessagesExchanged int    `json:"totalMessagesExchanged"`
		ExtractedIntelligence  struct {
			UPIIDs        []string `json:"upiIds"`
			PhishingLinks []string `json:"phishingLinks"`
			PhoneNumbers  []string `json:"phoneNumbers"`
			BankAccounts  []string `json:"bankAccounts"`
		} `json:"extractedIntelligence"`
	}
	if err := json.NewDecoder(w.Body).Decode(&final); err != nil {
		t.Fatalf("decode final: %v", err)
	}
	if final.TotalMessagesExchanged != 3 {
		t.Errorf("total messages = %d, want 3", final.TotalMessagesExchanged)
	}
	if !final.ScamDetected {
		t.Error("expected scamDetected")
	}
	if len(final.ExtractedIntelligence.UPIIDs) != 1 {
		t.Errorf("upiIds = %v", final.ExtractedIntelligence.UPIIDs)
	}
	if len(final.ExtractedIntelligence.PhishingLinks) != 1 {
		t.Errorf("phishingLinks = %v", final.ExtractedIntelligence.PhishingLinks)
	}
	if len(final.ExtractedIntelligence.PhoneNumbers) != 1 {
		t.Errorf("phoneNumbers = %v", final.ExtractedIntelligence.PhoneNumbers)
	}
}

func TestCORS_Preflight(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodOptions, "/api/honeypot", nil)
	req.Header.Set("Origin", "https://portal.example")
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("preflight = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://portal.example" {
		t.Errorf("allow-origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(got, "x-api-key") {
		t.Errorf("allow-headers = %q, want x-api-key included", got)
	}
}

func TestNotFoundRoute(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
