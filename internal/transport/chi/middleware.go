package chi

import (
	"context"
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/solrdex/internal/logger"
)

type eventKey struct{}

// requestEvent collects what a handler did for the request log line.
// A nil event ignores every call.
type requestEvent struct {
	op      string
	hits    int
	counted bool
	err     error
}

func eventFrom(ctx context.Context) *requestEvent {
	e, _ := ctx.Value(eventKey{}).(*requestEvent)
	return e
}

func (e *requestEvent) setOp(op string) {
	if e != nil {
		e.op = op
	}
}

func (e *requestEvent) setHits(n int) {
	if e != nil {
		e.hits = n
		e.counted = true
	}
}

func (e *requestEvent) fail(err error) {
	if e != nil {
		e.err = err
	}
}

func (e *requestEvent) fields(index string) []zap.Field {
	if e == nil || e.op == "" {
		return nil
	}
	fields := []zap.Field{zap.String("index", index), zap.String("op", e.op)}
	if e.counted {
		fields = append(fields, zap.Int("hits", e.hits))
	}
	if e.err != nil {
		fields = append(fields, zap.String("error", e.err.Error()))
	}
	return fields
}

// Recoverer turns a handler panic into a JSON 500.
func Recoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLog writes one "http_request" line per request. Search routes add
// the index, the operation kind and the hit count their handler recorded.
// The request logger is attached to the context and X-Request-ID is echoed.
// Mount after chi's RequestID.
func RequestLog(logger *zap.Logger, index string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}
			reqLogger := logger.With(zap.String("request_id", requestID))

			ev := &requestEvent{}
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)
			ctx = context.WithValue(ctx, eventKey{}, ev)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			fields := append([]zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.Int("response_bytes", ww.BytesWritten()),
			}, ev.fields(index)...)
			reqLogger.Info("http_request", fields...)
		})
	}
}
