package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recovery turns a panic in a handler into a logged error and whatever
// response onPanic writes. The route template is logged rather than the raw
// path so game ids do not fragment the logs.
func Recovery(logger *slog.Logger, onPanic func(w http.ResponseWriter)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.Error("panic recovered",
						slog.Any("error", err),
						slog.String("method", r.Method),
						slog.String("route", routeOf(r)),
						slog.String("stack", string(debug.Stack())),
					)
					onPanic(w)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
