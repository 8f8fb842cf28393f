package middleware

import (
	"net/http"
	"time"
)

// Logger интерфейс для логирования запросов
type Logger interface {
	Info(format string, v ...interface{})
}

// Logging пишет строку на каждый запрос с кодом ответа и идентификатором запроса
func Logging(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			id, _ := GetRequestID(r.Context())
			log.Info("%s %s - status=%d, duration=%s, request_id=%s",
				r.Method, r.URL.Path, rec.status, time.Since(start), id)
		})
	}
}
