package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/en9inerd/httpkit/router"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(body))
	})
}

func TestLoggerRecordsRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Logger(logger)(okHandler("hello"))
	for i := 0; i < 2; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/things", nil))
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %q", len(lines), buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("bad log line: %v", err)
	}
	if rec["msg"] != "request" || rec["method"] != "POST" || rec["path"] != "/things" {
		t.Errorf("unexpected record: %v", rec)
	}
	if rec["status"] != float64(http.StatusCreated) || rec["size"] != float64(5) {
		t.Errorf("status/size = %v/%v, want 201/5", rec["status"], rec["size"])
	}
	if rec["seq"] != float64(2) {
		t.Errorf("seq = %v, want 2", rec["seq"])
	}
	if _, ok := rec["route"]; ok {
		t.Errorf("route logged without a route result")
	}
}

func TestLoggerIncludesRouteResult(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Logger(logger)(okHandler("x"))
	req := router.WithResult(httptest.NewRequest(http.MethodGet, "/", nil), router.Success{Action: "home"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("bad log line: %v", err)
	}
	if rec["route"] != "success" || rec["action"] != "home" {
		t.Errorf("route/action = %v/%v", rec["route"], rec["action"])
	}
}

func TestRecoverer(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := Recoverer(logger, true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Type"), "application/json") {
		t.Errorf("expected JSON error body, got %q", rec.Header().Get("Content-Type"))
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Errorf("panic value leaked into response: %q", rec.Body.String())
	}
	out := buf.String()
	if !strings.Contains(out, "panic recovered") || !strings.Contains(out, "boom") || !strings.Contains(out, "stack=") {
		t.Errorf("unexpected log output: %q", out)
	}
}

func TestRecovererRepanicsAbortHandler(t *testing.T) {
	h := Recoverer(slog.New(slog.DiscardHandler), false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if r := recover(); r != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler to propagate, got %v", r)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestHeaders(t *testing.T) {
	h := Headers(
		"X-Frame-Options: DENY",
		"malformed",
		"X-Bad: a\r\nInjected: yes",
		" X-Spaced :  value ",
	)(okHandler("x"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := rec.Header().Get("X-Spaced"); got != "value" {
		t.Errorf("X-Spaced = %q", got)
	}
	if rec.Header().Get("X-Bad") != "" || rec.Header().Get("Injected") != "" {
		t.Errorf("unsafe header was set")
	}
}

func TestDefaultContentType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		accept      string
		reqType     string
		reqAccept   string
		wantType    string
		wantAccept  string
	}{
		{"fills both", "application/json", "application/json", "", "", "application/json", "application/json"},
		{"keeps client values", "application/json", "application/json", "text/csv", "text/html", "text/csv", "text/html"},
		{"type only", "application/json", "", "", "", "application/json", ""},
		{"accept only", "", "text/plain", "", "", "", "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *http.Request
			h := DefaultContentType(tt.contentType, tt.accept)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = r
			}))

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.reqType != "" {
				req.Header.Set("Content-Type", tt.reqType)
			}
			if tt.reqAccept != "" {
				req.Header.Set("Accept", tt.reqAccept)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got := seen.Header.Get("Content-Type"); got != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", got, tt.wantType)
			}
			if got := seen.Header.Get("Accept"); got != tt.wantAccept {
				t.Errorf("Accept = %q, want %q", got, tt.wantAccept)
			}
			if tt.reqType == "" && req.Header.Get("Content-Type") != "" {
				t.Errorf("original request was modified")
			}
		})
	}
}

func TestEnforceHead(t *testing.T) {
	h := EnforceHead()(okHandler("body"))

	tests := []struct {
		method   string
		wantBody string
	}{
		{http.MethodGet, "body"},
		{http.MethodHead, ""},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, "/", nil))
			if rec.Code != http.StatusCreated {
				t.Errorf("status = %d, want 201", rec.Code)
			}
			if rec.Header().Get("Content-Type") != "text/plain" {
				t.Errorf("headers were not kept")
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestStatusWriterDefaults(t *testing.T) {
	sw := &statusWriter{ResponseWriter: httptest.NewRecorder()}
	if sw.Status() != http.StatusOK {
		t.Errorf("default status = %d, want 200", sw.Status())
	}
	sw.WriteHeader(http.StatusTeapot)
	sw.WriteHeader(http.StatusOK)
	if sw.Status() != http.StatusTeapot {
		t.Errorf("status = %d, want first written 418", sw.Status())
	}
	if sw.Unwrap() == nil {
		t.Errorf("Unwrap returned nil")
	}
}

func TestLoggerOutsideRouterStage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	rm := router.NewMiddleware(router.RouterFunc(func(*http.Request) router.Result {
		return router.Success{Action: "users.list"}
	}))
	h := Logger(logger)(rm.Handler(okHandler("x")))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users", nil))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("bad log line: %v", err)
	}
	if rec["route"] != "success" || rec["action"] != "users.list" {
		t.Errorf("route/action = %v/%v", rec["route"], rec["action"])
	}
}
