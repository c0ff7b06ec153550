package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestRecorder starts timing a request and returns the function that records its outcome.
type RequestRecorder interface {
	HTTPStarted() func(method, route string, status int)
}

// Metrics records request counts and latency labelled by route pattern.
type Metrics struct {
	recorder RequestRecorder
}

func NewMetrics(recorder RequestRecorder) *Metrics {
	return &Metrics{recorder: recorder}
}

// Handle must run inside the chi router so the matched route pattern is known once next returns.
func (m *Metrics) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		done := m.recorder.HTTPStarted()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		done(r.Method, routePattern(r), status)
	})
}

// routePattern keeps label cardinality bounded: ids in paths collapse into their pattern.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
