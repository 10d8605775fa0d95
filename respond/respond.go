// Package respond provides helpers for writing common HTTP responses.
package respond

import (
	"io"
	"net/http"
	"strings"
)

// Write sends a response with the given status code and body.
// An empty contentType leaves the Content-Type header untouched.
func Write(w http.ResponseWriter, code int, body io.Reader, contentType string) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(code)
	if body != nil {
		_, _ = io.Copy(w, body)
	}
}

// String sends a response with a string body.
func String(w http.ResponseWriter, code int, body, contentType string) {
	Write(w, code, strings.NewReader(body), contentType)
}

// OK sends 200 with the given body.
func OK(w http.ResponseWriter, body, contentType string) {
	String(w, http.StatusOK, body, contentType)
}

// Created sends 201 pointing at the new resource.
func Created(w http.ResponseWriter, location string) {
	withLocation(w, http.StatusCreated, location)
}

// NoContent sends 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// NotModified sends 304, telling the client its cached copy is still valid.
func NotModified(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotModified)
}

// SeeOther sends 303; the client follows up with a GET to location.
func SeeOther(w http.ResponseWriter, location string) {
	withLocation(w, http.StatusSeeOther, location)
}

// TemporaryRedirect sends 307. Unlike 302 the client must keep the method.
func TemporaryRedirect(w http.ResponseWriter, location string) {
	withLocation(w, http.StatusTemporaryRedirect, location)
}

// PermanentRedirect sends 308. Unlike 301 the client must keep the method.
func PermanentRedirect(w http.ResponseWriter, location string) {
	withLocation(w, http.StatusPermanentRedirect, location)
}

// BadRequest sends 400.
func BadRequest(w http.ResponseWriter, body, contentType string) {
	String(w, http.StatusBadRequest, body, contentType)
}

// Forbidden sends 403: the client is known but lacks access.
func Forbidden(w http.ResponseWriter, body, contentType string) {
	String(w, http.StatusForbidden, body, contentType)
}

// NotFound sends 404.
func NotFound(w http.ResponseWriter, body, contentType string) {
	String(w, http.StatusNotFound, body, contentType)
}

// Gone sends 410: the resource was removed permanently.
func Gone(w http.ResponseWriter, body, contentType string) {
	String(w, http.StatusGone, body, contentType)
}

// MethodNotAllowed sends 405 with an Allow header listing allowed.
func MethodNotAllowed(w http.ResponseWriter, allowed []string) {
	w.Header().Set("Allow", AllowHeader(allowed))
	w.WriteHeader(http.StatusMethodNotAllowed)
}

// UnsupportedMediaType sends 415 with an Accept header listing the types
// the server can handle.
func UnsupportedMediaType(w http.ResponseWriter, types []string) {
	w.Header().Set("Accept", strings.Join(types, ", "))
	w.WriteHeader(http.StatusUnsupportedMediaType)
}

// AllowHeader formats methods for the Allow header.
func AllowHeader(methods []string) string {
	upper := make([]string, len(methods))
	for i, m := range methods {
		upper[i] = strings.ToUpper(m)
	}
	return strings.Join(upper, ", ")
}

func withLocation(w http.ResponseWriter, code int, location string) {
	w.Header().Set("Location", location)
	w.WriteHeader(code)
}
