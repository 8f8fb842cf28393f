package booking

import (
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingListing/internal/domain"
)

// DefaultHooks стандартные расширения фильтра листинга
func DefaultHooks() Hooks {
	return Hooks{
		Keyword:       KeywordHook,
		PayStatusCost: PayStatusCostHook,
		Resource:      ResourceHook,
	}
}

// KeywordHook ищет ключевое слово в данных формы и заметке
func KeywordHook(_ squirrel.Sqlizer, filter domain.ListingFilter) squirrel.Sqlizer {
	keyword := strings.TrimSpace(filter.Keyword)
	if keyword == "" {
		return nil
	}

	pattern := "%" + keyword + "%"
	return squirrel.Or{
		squirrel.Like{"bk.form": pattern},
		squirrel.Like{"bk.remark": pattern},
	}
}

// PayStatusCostHook фильтрует по группе статусов оплаты и границам стоимости
func PayStatusCostHook(_ squirrel.Sqlizer, filter domain.ListingFilter) squirrel.Sqlizer {
	parts := squirrel.And{}

	status := strings.TrimSpace(filter.PayStatus)
	switch {
	case status == "" || status == domain.PayStatusAll:
	case status == domain.PayStatusUnknown:
		known := make([]string, 0)
		for _, group := range []string{domain.PayStatusOK, domain.PayStatusPending, domain.PayStatusFailed} {
			known = append(known, domain.PayStatusGroups[group]...)
		}
		parts = append(parts, squirrel.NotEq{"bk.pay_status": known})
	default:
		if values, ok := domain.PayStatusGroups[status]; ok {
			parts = append(parts, squirrel.Eq{"bk.pay_status": values})
		} else {
			parts = append(parts, squirrel.Eq{"bk.pay_status": status})
		}
	}

	if v, ok := parseCost(filter.CostMin); ok {
		parts = append(parts, squirrel.GtOrEq{"bk.cost": v})
	}
	if v, ok := parseCost(filter.CostMax); ok {
		parts = append(parts, squirrel.LtOrEq{"bk.cost": v})
	}

	if len(parts) == 0 {
		return nil
	}
	return parts
}

// ResourceHook ограничивает листинг выбранными ресурсами
func ResourceHook(_ squirrel.Sqlizer, filter domain.ListingFilter) squirrel.Sqlizer {
	ids := filter.ResourceIDs()
	if len(ids) == 0 {
		return nil
	}
	return squirrel.Eq{"bk.booking_type": ids}
}

func parseCost(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
