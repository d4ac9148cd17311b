package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func panicHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
}

func TestJSONRecoverer_Production(t *testing.T) {
	mw := JSONRecoverer(zap.NewNop(), false)
	handler := mw(panicHandler())

	req := httptest.NewRequest("POST", "/api/generate-summary", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusInternalServerError)
	}

	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] != "internal error" {
		t.Errorf("error: got %q", body["error"])
	}
	if body["status"] != "error" {
		t.Errorf("status field: got %q", body["status"])
	}
	if _, ok := body["details"]; ok {
		t.Error("details must be absent outside development mode")
	}
}

func TestJSONRecoverer_Development(t *testing.T) {
	mw := JSONRecoverer(zap.NewNop(), true)
	handler := mw(panicHandler())

	req := httptest.NewRequest("POST", "/api/generate-summary", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusInternalServerError)
	}

	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	details, ok := body["details"].(map[string]any)
	if !ok {
		t.Fatalf("details must be present in development mode, body: %v", body)
	}
	if details["errorType"] != "panic" {
		t.Errorf("errorType: got %q, want %q", details["errorType"], "panic")
	}
	if details["stack"] == "" {
		t.Error("stack must be present in development mode")
	}
}

func TestJSONRecoverer_NoPanicPassthrough(t *testing.T) {
	mw := JSONRecoverer(zap.NewNop(), false)
	handler := mw(okHandler())

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestRequestLogger_SetsRequestIDHeader(t *testing.T) {
	mw := RequestLogger(zap.NewNop())
	handler := mw(okHandler())

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	// Without chi's RequestID middleware the header stays unset.
	if got := rr.Header().Get("X-Request-ID"); got != "" {
		t.Errorf("unexpected X-Request-ID without RequestID middleware: %q", got)
	}
}
