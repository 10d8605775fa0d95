package respond

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"runtime"
	"strings"

	"github.com/en9inerd/httpkit/httperrors"
)

// JSON is a convenience alias for a generic JSON object
type JSON map[string]any

const jsonContentType = "application/json; charset=utf-8"

// encodeJSON encodes data to JSON with HTML escaping control
func encodeJSON(data any, escapeHTML bool) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(escapeHTML)
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("json encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteJSON encodes and writes data with HTTP 200
func WriteJSON(w http.ResponseWriter, data any) {
	WriteJSONWithStatus(w, http.StatusOK, data)
}

// WriteJSONWithStatus encodes and writes data with the given status code
func WriteJSONWithStatus(w http.ResponseWriter, code int, data any) {
	encoded, err := encodeJSON(data, true)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	WriteJSONBytes(w, code, encoded)
}

// WriteJSONBytes writes pre-encoded JSON with the given status code
func WriteJSONBytes(w http.ResponseWriter, code int, data []byte) {
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

// Error logs err with request details and sends msg as a JSON error body.
// A nil logger skips logging.
func Error(w http.ResponseWriter, r *http.Request, l *slog.Logger, code int, err error, msg string) {
	if l != nil {
		l.Error(msg, errAttrs(r, code, err)...)
	}
	httperrors.NewError(code, msg).WriteJSON(w)
}

func errAttrs(r *http.Request, code int, err error) []any {
	q := r.URL.String()
	if qun, e := url.QueryUnescape(q); e == nil {
		q = qun
	}

	remoteIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remoteIP); err == nil {
		remoteIP = host
	}
	if err == nil {
		err = errors.New("no error")
	}

	attrs := []any{
		slog.Any("error", err),
		slog.Int("code", code),
		slog.String("remote", remoteIP),
		slog.String("url", q),
	}
	if pc, file, line, ok := runtime.Caller(2); ok {
		fnameElems := strings.Split(file, "/")
		funcNameElems := strings.Split(runtime.FuncForPC(pc).Name(), "/")
		attrs = append(attrs, slog.String("caller", fmt.Sprintf("%s:%d %s",
			strings.Join(fnameElems[max(0, len(fnameElems)-3):], "/"),
			line, funcNameElems[len(funcNameElems)-1])))
	}
	return attrs
}
