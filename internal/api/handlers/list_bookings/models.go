package list_bookings

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-BookingListing/internal/domain"
	uc "github.com/m04kA/SMC-BookingListing/internal/usecase/list_bookings"
)

// ListResponse тело ответа листинга
type ListResponse struct {
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
	Bookings []BookingResponse `json:"bookings"`
}

// BookingResponse бронирование в ответе
type BookingResponse struct {
	ID               int64    `json:"id"`
	ResourceID       int64    `json:"resourceId"`
	ResourceTitle    string   `json:"resourceTitle"`
	Lost             bool     `json:"lost"`
	Approved         bool     `json:"approved"`
	Trash            bool     `json:"trash"`
	SyncGID          string   `json:"syncGid"`
	IsNew            bool     `json:"isNew"`
	Status           string   `json:"status"`
	ModificationDate *string  `json:"modificationDate"`
	Form             string   `json:"form"`
	Remark           string   `json:"remark"`
	Cost             float64  `json:"cost"`
	PayStatus        string   `json:"payStatus"`
	Dates            []string `json:"dates"`
	DatesShort       []string `json:"datesShort"`
	DatesShortID     []string `json:"datesShortId"`
}

// ToUseCaseRequest формирует запрос к use case из query параметров.
// Фильтры передаются как есть, числа страниц должны быть целыми
func ToUseCaseRequest(q url.Values) (*uc.Request, error) {
	req := &uc.Request{
		BookingID:         q.Get("booking_id"),
		BookingType:       q.Get("booking_type"),
		Approved:          q.Get("approved"),
		Trash:             q.Get("trash"),
		Sync:              q.Get("sync"),
		BookingDate:       q.Get("booking_date"),
		BookingDate2:      q.Get("booking_date2"),
		ModificationDate:  q.Get("modification_date"),
		ModificationDate2: q.Get("modification_date2"),
		Keyword:           q.Get("keyword"),
		PayStatus:         q.Get("pay_status"),
		CostMin:           q.Get("cost_min"),
		CostMax:           q.Get("cost_max"),
		Sort:              q.Get("sort"),
	}

	var err error
	if req.Page, err = parseOptionalInt(q.Get("page")); err != nil {
		return nil, err
	}
	if req.PageSize, err = parseOptionalInt(q.Get("page_size")); err != nil {
		return nil, err
	}
	return req, nil
}

func parseOptionalInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// FromUseCaseResponse конвертирует ответ use case в JSON модель
func FromUseCaseResponse(resp *uc.Response) ListResponse {
	out := ListResponse{
		Total:    resp.Total,
		Page:     resp.Page,
		PageSize: resp.PageSize,
		Bookings: make([]BookingResponse, 0, len(resp.Bookings)),
	}

	for _, b := range resp.Bookings {
		item := BookingResponse{
			ID:            b.ID,
			ResourceID:    b.ResourceID,
			ResourceTitle: b.ResourceTitle,
			Lost:          b.Lost,
			Approved:      b.Approved,
			Trash:         b.Trash,
			SyncGID:       b.SyncGID,
			IsNew:         b.IsNew,
			Status:        b.Status,
			Form:          b.Form,
			Remark:        b.Remark,
			Cost:          b.Cost,
			PayStatus:     b.PayStatus,
			Dates:         make([]string, 0, len(b.Dates)),
			DatesShort:    b.ShortDays.Values,
			DatesShortID:  b.ShortDays.TypeIDs,
		}
		if b.ModificationDate.Valid {
			s := b.ModificationDate.Time.Format(domain.DateTimeFormat)
			item.ModificationDate = &s
		}
		for _, d := range b.Dates {
			item.Dates = append(item.Dates, d.BookingDate.Format(domain.DateTimeFormat))
		}
		if item.DatesShort == nil {
			item.DatesShort = []string{}
			item.DatesShortID = []string{}
		}
		out.Bookings = append(out.Bookings, item)
	}
	return out
}
