package list_bookings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-BookingListing/internal/domain"
)

// validateFilter проверяет фильтр в строгом режиме.
// В обычном режиме некорректные значения приводятся, а не отклоняются
func (uc *UseCase) validateFilter(filter domain.ListingFilter) error {
	if err := uc.bookingDates.Validate(filter.BookingDates); err != nil {
		return fmt.Errorf("%w: booking dates: %v", ErrInvalidInput, err)
	}
	if err := uc.modificationDates.Validate(filter.ModificationDates); err != nil {
		return fmt.Errorf("%w: modification dates: %v", ErrInvalidInput, err)
	}

	if filter.HasBookingID() {
		raw := strings.NewReplacer("<", "", ">", "").Replace(filter.BookingID)
		for _, part := range strings.Split(raw, ",") {
			if !domain.IsInteger(part) {
				return fmt.Errorf("%w: booking id %q", ErrInvalidInput, filter.BookingID)
			}
		}
	}

	for name, raw := range map[string]string{"cost_min": filter.CostMin, "cost_max": filter.CostMax} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err != nil {
			return fmt.Errorf("%w: %s %q", ErrInvalidInput, name, raw)
		}
	}

	if filter.Page < 0 || filter.PageSize < 0 {
		return fmt.Errorf("%w: negative page or page size", ErrInvalidInput)
	}
	return nil
}
