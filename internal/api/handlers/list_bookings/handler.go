package list_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingListing/internal/api/handlers"
	uc "github.com/m04kA/SMC-BookingListing/internal/usecase/list_bookings"
)

const (
	msgInvalidParams = "некорректные параметры запроса"
	msgInvalidFilter = "некорректный фильтр листинга"
)

type Handler struct {
	useCase UseCase
	logger  Logger
}

func NewHandler(useCase UseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings
// Query params: booking_id, booking_type, approved, trash, sync, booking_date, booking_date2,
// modification_date, modification_date2, keyword, pay_status, cost_min, cost_max, sort, page, page_size
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := ToUseCaseRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, uc.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /bookings - Failed to list bookings: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings - Bookings listed successfully: total=%d, count=%d",
		result.Total, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
