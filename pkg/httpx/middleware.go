package httpx

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fekuna/stockmanager/pkg/logger"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
)

const HeaderRequestID = "X-Request-Id"

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

type statusRecorder struct {
	h  http.ResponseWriter
	st int
	n  int
}

func (w *statusRecorder) Header() http.Header { return w.h.Header() }
func (w *statusRecorder) WriteHeader(code int) {
	w.st = code
	w.h.WriteHeader(code)
}
func (w *statusRecorder) Write(b []byte) (int, error) {
	n, err := w.h.Write(b)
	w.n += n
	return n, err
}

// WithRequestID propagates the caller's X-Request-Id or generates one.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID, reqID)))
	})
}

// WithLogging logs one line per request. Requests and latency are also recorded on the given
// vectors when they are not nil; both are labelled by method and route pattern, requests also
// by status.
func WithLogging(log logger.ZapLogger, requests *prometheus.CounterVec, latency *prometheus.HistogramVec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{h: w, st: http.StatusOK}
			next.ServeHTTP(sr, r)
			lat := time.Since(start)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			if requests != nil {
				requests.WithLabelValues(r.Method, route, strconv.Itoa(sr.st)).Inc()
			}
			if latency != nil {
				latency.WithLabelValues(r.Method, route).Observe(lat.Seconds())
			}

			log.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sr.st),
				zap.Int("bytes", sr.n),
				zap.Float64("latency_ms", float64(lat.Microseconds())/1000.0),
				zap.String("request_id", RequestIDFromContext(r.Context())),
			)
		})
	}
}
