package health

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/SMC-BookingListing/internal/api/handlers"
)

const msgDatabaseUnavailable = "база данных недоступна"

// Pinger проверка соединения с БД
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Logger interface {
	Warn(format string, v ...interface{})
}

type Handler struct {
	db     Pinger
	logger Logger
}

func NewHandler(db Pinger, logger Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Handle GET /health
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("GET /health - Database ping failed: %v", err)
		handlers.RespondError(w, http.StatusServiceUnavailable, msgDatabaseUnavailable)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
