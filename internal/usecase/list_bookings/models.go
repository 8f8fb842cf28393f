package list_bookings

import (
	"strings"

	"github.com/m04kA/SMC-BookingListing/internal/domain"
	"github.com/m04kA/SMC-BookingListing/pkg/ptr"
)

// Request модель запроса листинга. Значения приходят как есть из query строки
type Request struct {
	BookingID         string
	BookingType       string // "lost" или id ресурсов через запятую
	Approved          string // "1"/"true", "0"/"false" или пусто
	Trash             string
	Sync              string
	BookingDate       string // код фильтра или начало диапазона
	BookingDate2      string // число дней или конец диапазона
	ModificationDate  string
	ModificationDate2 string
	Keyword           string
	PayStatus         string
	CostMin           string
	CostMax           string
	Sort              string
	Page              int
	PageSize          int
}

// Response модель ответа листинга
type Response struct {
	Total    int64
	Page     int
	PageSize int
	Bookings []Booking
}

// Booking бронирование в ответе с короткой записью дат
type Booking struct {
	*domain.Booking
	ResourceTitle string
	Lost          bool
	ShortDays     domain.ShortDays
}

// ToDomainFilter формирует неизменяемый фильтр листинга
func (r *Request) ToDomainFilter() domain.ListingFilter {
	return domain.ListingFilter{
		BookingID:         strings.TrimSpace(r.BookingID),
		BookingType:       strings.TrimSpace(r.BookingType),
		Approved:          parseApproved(r.Approved),
		Trash:             domain.ParseTrashState(r.Trash),
		Sync:              domain.ParseSyncOrigin(r.Sync),
		BookingDates:      domain.NewDateFilter(r.BookingDate, r.BookingDate2),
		ModificationDates: domain.NewDateFilter(r.ModificationDate, r.ModificationDate2),
		Keyword:           r.Keyword,
		PayStatus:         r.PayStatus,
		CostMin:           r.CostMin,
		CostMax:           r.CostMax,
		Sort:              r.Sort,
		Page:              r.Page,
		PageSize:          r.PageSize,
	}
}

func parseApproved(raw string) *bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "approved":
		return ptr.Ptr(true)
	case "0", "false", "pending":
		return ptr.Ptr(false)
	default:
		return nil
	}
}
