package router

import "net/http"

// statusRecorder is used to probe mux responses.
type statusRecorder struct {
	header http.Header
	status int
}

func newStatusRecorder() *statusRecorder {
	return &statusRecorder{header: make(http.Header), status: http.StatusOK}
}

func (r *statusRecorder) Header() http.Header       { return r.header }
func (r *statusRecorder) Write([]byte) (int, error) { return 0, nil }
func (r *statusRecorder) WriteHeader(status int)    { r.status = status }
