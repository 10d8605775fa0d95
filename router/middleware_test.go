package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeNext records the request it received and answers according to the
// attached route result.
type fakeNext struct {
	request *http.Request
}

func (f *fakeNext) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.request = r
	res, _ := ResultFrom(r)
	switch res.(type) {
	case Success:
		w.WriteHeader(http.StatusOK)
	case NotFound:
		w.WriteHeader(http.StatusNotFound)
	case MethodNotAllowed:
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		panic("incomprehensible result")
	}
	_, _ = io.WriteString(w, "from next")
}

func fromHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, "from handler")
	})
}

func TestMiddlewareSuccessCallsNext(t *testing.T) {
	next := &fakeNext{}
	m := NewMiddleware(fixed(Success{Action: "success", Method: http.MethodGet}, nil)).
		WithNotFound(fromHandler(http.StatusNotFound)).
		WithMethodNotAllowed(fromHandler(http.StatusMethodNotAllowed))

	req := httptest.NewRequest(http.MethodGet, "/foo", nil)
	rec := httptest.NewRecorder()
	m.Process(rec, req, next)

	if rec.Code != http.StatusOK || rec.Body.String() != "from next" {
		t.Fatalf("got %d %q, want 200 from next", rec.Code, rec.Body.String())
	}
	if next.request == nil {
		t.Fatalf("next was not called")
	}
	if next.request == req {
		t.Errorf("next received the original request, want an augmented copy")
	}
	if _, ok := ResultFrom(req); ok {
		t.Errorf("original request was modified")
	}
	res, ok := ResultFrom(next.request)
	if !ok {
		t.Fatalf("no result attached")
	}
	if s := res.(Success); s.Action != "success" {
		t.Errorf("action = %q, want success", s.Action)
	}
}

func TestMiddlewareShortCircuits(t *testing.T) {
	tests := []struct {
		name       string
		result     Result
		notFound   http.Handler
		notAllowed http.Handler
		wantCode   int
		wantBody   string
		wantNext   bool
	}{
		{"not found without handler", NotFound{}, nil, nil, http.StatusNotFound, "from next", true},
		{"not found with handler", NotFound{}, fromHandler(http.StatusNotFound), nil, http.StatusNotFound, "from handler", false},
		{"not found ignores 405 handler", NotFound{}, nil, fromHandler(http.StatusTeapot), http.StatusNotFound, "from next", true},
		{"method not allowed without handler", MethodNotAllowed{Allowed: []string{"POST"}}, nil, nil, http.StatusMethodNotAllowed, "from next", true},
		{"method not allowed with handler", MethodNotAllowed{Allowed: []string{"POST"}}, nil, fromHandler(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed, "from handler", false},
		{"method not allowed ignores 404 handler", MethodNotAllowed{Allowed: []string{"POST"}}, fromHandler(http.StatusTeapot), nil, http.StatusMethodNotAllowed, "from next", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &fakeNext{}
			m := NewMiddleware(fixed(tt.result, nil))
			if tt.notFound != nil {
				m.WithNotFound(tt.notFound)
			}
			if tt.notAllowed != nil {
				m.WithMethodNotAllowed(tt.notAllowed)
			}

			rec := httptest.NewRecorder()
			m.Process(rec, httptest.NewRequest(http.MethodGet, "/foo", nil), next)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			if called := next.request != nil; called != tt.wantNext {
				t.Errorf("next called = %v, want %v", called, tt.wantNext)
			}
		})
	}
}

func TestMiddlewareDedicatedHandlerSeesResult(t *testing.T) {
	var got Result
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ResultFrom(r)
	})
	m := NewMiddleware(fixed(MethodNotAllowed{Allowed: []string{"GET", "HEAD"}}, nil)).WithMethodNotAllowed(h)
	m.Process(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil), &fakeNext{})

	mna, ok := got.(MethodNotAllowed)
	if !ok || len(mna.Allowed) != 2 {
		t.Fatalf("handler saw %#v, want MethodNotAllowed with 2 methods", got)
	}
}

func TestMiddlewareHandler(t *testing.T) {
	next := &fakeNext{}
	h := NewMiddleware(echo("x")).Handler(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || next.request == nil {
		t.Fatalf("expected next to serve 200, got %d", rec.Code)
	}
}

func TestResultFromEmptyRequest(t *testing.T) {
	if res, ok := ResultFrom(httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Errorf("expected no result, got %#v", res)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		res  Result
		want string
	}{
		{Success{}, "success"},
		{NotFound{}, "not_found"},
		{MethodNotAllowed{}, "method_not_allowed"},
		{nil, "none"},
	}
	for _, tt := range tests {
		if got := Outcome(tt.res); got != tt.want {
			t.Errorf("Outcome(%#v) = %q, want %q", tt.res, got, tt.want)
		}
	}
}

func TestMiddlewareRecordsTrace(t *testing.T) {
	m := NewMiddleware(RouterFunc(func(*http.Request) Result {
		return MethodNotAllowed{Allowed: []string{"GET"}}
	})).WithMethodNotAllowed(fromHandler(http.StatusMethodNotAllowed))

	req, trace := WithTrace(httptest.NewRequest(http.MethodPost, "/x", nil))
	if _, ok := trace.Result(); ok {
		t.Fatalf("fresh trace already holds a result")
	}

	m.Process(httptest.NewRecorder(), req, &fakeNext{})

	res, ok := trace.Result()
	if !ok {
		t.Fatalf("trace not filled by the router stage")
	}
	if Outcome(res) != "method_not_allowed" {
		t.Errorf("trace result = %v", res)
	}
	if _, ok := ResultFrom(req); ok {
		t.Errorf("outer request gained a result")
	}
}

func TestMiddlewareWithoutTrace(t *testing.T) {
	m := NewMiddleware(RouterFunc(func(*http.Request) Result { return NotFound{} }))
	rec := httptest.NewRecorder()
	m.Process(rec, httptest.NewRequest(http.MethodGet, "/", nil), &fakeNext{})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
