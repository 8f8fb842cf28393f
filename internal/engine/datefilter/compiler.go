package datefilter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingListing/internal/domain"
)

// Выражения сдвигов, общие для таблиц кодов
const (
	exprSecondBack = "- INTERVAL '00:00:01' HOUR_SECOND"
	exprEndOfDay   = "+ INTERVAL '23:59:59' HOUR_SECOND"
	exprTwoDaysEnd = "+ INTERVAL '47:59:59' HOUR_SECOND"
	exprDayAhead   = "+ INTERVAL 1 DAY"
	exprDayBack    = "- INTERVAL 1 DAY"
)

const (
	bookingDateColumn      = "booking_date"
	modificationDateColumn = "modification_date"
)

type target int

const (
	targetBookingDates target = iota
	targetModificationDates
)

// Compiler компилирует код фильтра дат в фрагмент WHERE по одной колонке
type Compiler struct {
	translator Translator
	target     target
}

// NewBookingDates создает компилятор фильтра по датам бронирования
func NewBookingDates(translator Translator) *Compiler {
	return &Compiler{translator: translator, target: targetBookingDates}
}

// NewModificationDates создает компилятор фильтра по дате изменения бронирования.
// Поддерживает только TODAY, ALL, PRIOR и диапазон
func NewModificationDates(translator Translator) *Compiler {
	return &Compiler{translator: translator, target: targetModificationDates}
}

// Compile строит фрагмент для колонки с префиксом prefix ("dt.", "bk." или "")
func (c *Compiler) Compile(filter domain.DateFilter, prefix string) Fragment {
	if c.target == targetModificationDates {
		return c.compileModification(filter, prefix)
	}
	return c.compileBooking(filter, prefix)
}

func (c *Compiler) compileBooking(filter domain.DateFilter, prefix string) Fragment {
	column := prefix + bookingDateColumn
	f := Fragment{style: JoinLeading}

	switch filter.Code {
	case domain.DateFilterDefaultFuture:
		f.add(column + " >= (" + c.curdate(exprSecondBack) + ")")
	case domain.DateFilterToday:
		f.add(column + " <= (" + c.curdate(exprEndOfDay) + ")")
		f.add(column + " >= (" + c.curdate(exprSecondBack) + ")")
	case domain.DateFilterPrevious:
		f.add(column + " <= (" + c.curdate(exprSecondBack) + ")")
	case domain.DateFilterAll:
	case domain.DateFilterNext:
		f.add(column + " <= (" + c.curdate(daysExpr(domain.CoerceInt(filter.To))) + ")")
		f.add(column + " > (" + c.curdate("") + ")")
	case domain.DateFilterPrior:
		f.add(column + " >= (" + c.curdate(priorExpr(filter.To)) + ")")
		f.add(column + " <= (" + c.curdate(exprDayAhead) + ")")
	case domain.DateFilterCheckInSoon, domain.DateFilterCheckOutSoon:
		f.add(column + " <= (" + c.curdate(exprTwoDaysEnd) + ")")
		f.add(column + " >= (" + c.curdate(exprDayAhead) + ")")
	case domain.DateFilterTodayEither:
		f.add(column + " <= (" + c.curdate(exprDayAhead) + ")")
		f.add(column + " >= (" + c.curdate(exprDayBack) + ")")
	default:
		addRange(&f, column, filter)
	}
	return f
}

func (c *Compiler) compileModification(filter domain.DateFilter, prefix string) Fragment {
	column := prefix + modificationDateColumn
	f := Fragment{style: JoinTrailing}
	if prefix == domain.BookingAlias {
		f.style = JoinLeading
	}

	switch filter.Code {
	case domain.DateFilterToday:
		f.add(column + " >= (" + c.curdate(exprSecondBack) + ")")
	case domain.DateFilterAll:
	case domain.DateFilterPrior:
		f.add(column + " >= (" + c.curdate(priorExpr(filter.To)) + ")")
		f.add(column + " <= (" + c.curdate(exprDayAhead) + ")")
	default:
		addRange(&f, column, filter)
	}
	return f
}

// Validate проверяет фильтр в строгом режиме: число дней, границы диапазона и поддержку кода
func (c *Compiler) Validate(filter domain.DateFilter) error {
	code := filter.Code
	if c.target == targetModificationDates {
		switch code {
		case domain.DateFilterDefaultFuture, domain.DateFilterToday, domain.DateFilterAll, domain.DateFilterPrior, domain.DateFilterFixedRange:
		default:
			return fmt.Errorf("%w: %s", ErrUnsupportedCode, code)
		}
	}

	switch code {
	case domain.DateFilterNext:
		if !domain.IsInteger(filter.To) {
			return fmt.Errorf("%w: %q", ErrInvalidDayCount, filter.To)
		}
	case domain.DateFilterPrior:
		if !domain.IsInteger(strings.ReplaceAll(filter.To, "-", "")) {
			return fmt.Errorf("%w: %q", ErrInvalidDayCount, filter.To)
		}
	case domain.DateFilterFixedRange:
		for _, bound := range []string{filter.From, filter.To} {
			if bound != "" && !isDateBound(bound) {
				return fmt.Errorf("%w: %q", ErrInvalidBound, bound)
			}
		}
	}
	return nil
}

// curdate переводит сдвиг от текущей даты. В sqlite date() дает текст без времени,
// который сравнивается с DATETIME как строка, поэтому граница приводится к datetime()
func (c *Compiler) curdate(expr string) string {
	sql := c.translator.Translate(expr, domain.AnchorCurDate)
	if c.translator.Dialect() == domain.DialectSQLite && strings.HasPrefix(sql, "date(") {
		return "datetime(" + sql + ")"
	}
	return sql
}

// addRange добавляет сравнение с границами диапазона, границы передаются параметрами
func addRange(f *Fragment, column string, filter domain.DateFilter) {
	if filter.From != "" {
		f.add(column+" >= ?", withTime(filter.From, domain.DayStartSuffix))
	}
	if filter.To != "" {
		f.add(column+" <= ?", withTime(filter.To, domain.DayEndSuffix))
	}
}

func withTime(bound, suffix string) string {
	if strings.Contains(bound, ":") {
		return bound
	}
	return bound + suffix
}

func isDateBound(bound string) bool {
	if _, err := time.Parse(domain.DateFormat, bound); err == nil {
		return true
	}
	_, err := time.Parse(domain.DateTimeFormat, bound)
	return err == nil
}

// priorExpr сдвиг назад для PRIOR: дефисы в количестве дней отбрасываются
func priorExpr(raw string) string {
	n := domain.CoerceInt(strings.ReplaceAll(raw, "-", ""))
	return "- INTERVAL " + strconv.FormatInt(n, 10) + " DAY"
}

// daysExpr строит сдвиг на n дней, знак выносится перед INTERVAL
func daysExpr(n int64) string {
	if n < 0 {
		return "- INTERVAL " + strconv.FormatInt(-n, 10) + " DAY"
	}
	return "+ INTERVAL " + strconv.FormatInt(n, 10) + " DAY"
}
