package middleware

import (
	"net/http"

	"github.com/m04kA/SMC-BookingListing/internal/api/handlers"
)

// PanicLogger интерфейс для логирования паник
type PanicLogger interface {
	Error(format string, v ...interface{})
}

// Recovery перехватывает панику обработчика и отвечает 500
func Recovery(log PanicLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					id, _ := GetRequestID(r.Context())
					log.Error("%s %s - panic: %v, request_id=%s", r.Method, r.URL.Path, p, id)
					handlers.RespondInternalError(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
