package log

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/verdict-ci/verdict/pkg/requestid"
)

// Logger returns chi middleware that logs one line per completed
// request through the given zap logger.
func Logger(l *zap.Logger, name string) func(next http.Handler) http.Handler {
	if l == nil {
		panic("log.Logger received a nil *zap.Logger")
	}

	logger := l.WithOptions(zap.AddCallerSkip(1)).Named(name)

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			t1 := time.Now()

			defer func() {
				statusCode := ww.Status()

				fields := []zap.Field{
					zap.String("type", "http_request"),
					zap.String("http_method", r.Method),
					zap.String("http_path", r.URL.Path),
					zap.Int("http_status_code", statusCode),
					zap.String("http_status_text", statusLabel(statusCode)),
					zap.Int64("response_bytes", int64(ww.BytesWritten())),
					zap.Duration("latency", time.Since(t1)),
				}
				if id := requestid.FromRequest(r); id != "" {
					fields = append(fields, zap.String("request_id", id))
				}

				msg := fmt.Sprintf("HTTP request completed: %s", r.URL.Path)

				switch {
				case statusCode >= 500:
					logger.Error(msg, fields...)
				case statusCode >= 400:
					logger.Warn(msg, fields...)
				default:
					logger.Info(msg, fields...)
				}
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}

func statusLabel(status int) string {
	switch {
	case status >= 100 && status < 300:
		return fmt.Sprintf("%d OK", status)
	case status >= 300 && status < 400:
		return fmt.Sprintf("%d Redirect", status)
	case status >= 400 && status < 500:
		return fmt.Sprintf("%d Client Error", status)
	case status >= 500:
		return fmt.Sprintf("%d Server Error", status)
	default:
		return fmt.Sprintf("%d Unknown", status)
	}
}
