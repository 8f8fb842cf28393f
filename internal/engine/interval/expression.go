package interval

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Unit единица интервала
type Unit string

const (
	UnitMicrosecond       Unit = "MICROSECOND"
	UnitSecond            Unit = "SECOND"
	UnitMinute            Unit = "MINUTE"
	UnitHour              Unit = "HOUR"
	UnitDay               Unit = "DAY"
	UnitWeek              Unit = "WEEK"
	UnitMonth             Unit = "MONTH"
	UnitQuarter           Unit = "QUARTER"
	UnitYear              Unit = "YEAR"
	UnitSecondMicrosecond Unit = "SECOND_MICROSECOND"
	UnitMinuteMicrosecond Unit = "MINUTE_MICROSECOND"
	UnitMinuteSecond      Unit = "MINUTE_SECOND"
	UnitHourMicrosecond   Unit = "HOUR_MICROSECOND"
	UnitHourSecond        Unit = "HOUR_SECOND"
	UnitHourMinute        Unit = "HOUR_MINUTE"
	UnitDayMicrosecond    Unit = "DAY_MICROSECOND"
	UnitDaySecond         Unit = "DAY_SECOND"
	UnitDayMinute         Unit = "DAY_MINUTE"
	UnitDayHour           Unit = "DAY_HOUR"
	UnitYearMonth         Unit = "YEAR_MONTH"
)

var knownUnits = map[Unit]bool{
	UnitMicrosecond: true, UnitSecond: true, UnitMinute: true, UnitHour: true,
	UnitDay: true, UnitWeek: true, UnitMonth: true, UnitQuarter: true, UnitYear: true,
	UnitSecondMicrosecond: true, UnitMinuteMicrosecond: true, UnitMinuteSecond: true,
	UnitHourMicrosecond: true, UnitHourSecond: true, UnitHourMinute: true,
	UnitDayMicrosecond: true, UnitDaySecond: true, UnitDayMinute: true,
	UnitDayHour: true, UnitYearMonth: true,
}

// единицы, которые sqlite умеет применять как модификатор
var modifierUnits = map[Unit]bool{
	UnitSecond: true, UnitMinute: true, UnitHour: true,
	UnitDay: true, UnitMonth: true, UnitYear: true,
	UnitHourSecond: true,
}

// Known возвращает true для единиц из словаря INTERVAL
func (u Unit) Known() bool {
	return knownUnits[u]
}

// countsSeconds возвращает true для единиц, величина которых переводится в секунды
func (u Unit) countsSeconds() bool {
	return u == UnitSecond || u == UnitHourSecond
}

var grammar = regexp.MustCompile(`(?i)^\s*([+-])?\s*INTERVAL\s+(?:'(\d+(?::\d+){0,2})'|(\d+(?::\d+){0,2}))\s+([A-Za-z_]+)\s*$`)

// Expression разобранное выражение интервала: знак, величина и единица
type Expression struct {
	Sign      string // "+" или "-"
	Magnitude string // целое число или часы:минуты:секунды
	Unit      Unit
}

// Parse разбирает выражение вида "[+|-] INTERVAL <величина> <UNIT>".
// Возвращает ErrUnknownUnit для единиц вне словаря
func Parse(expr string) (Expression, error) {
	e, err := parse(expr)
	if err != nil {
		return Expression{}, err
	}
	if !e.Unit.Known() {
		return Expression{}, fmt.Errorf("%w: %s", ErrUnknownUnit, e.Unit)
	}
	return e, nil
}

func parse(expr string) (Expression, error) {
	m := grammar.FindStringSubmatch(expr)
	if m == nil {
		return Expression{}, fmt.Errorf("%w: %q", ErrUnparsable, expr)
	}

	sign := m[1]
	if sign == "" {
		sign = "+"
	}
	magnitude := m[2]
	if magnitude == "" {
		magnitude = m[3]
	}

	return Expression{
		Sign:      sign,
		Magnitude: magnitude,
		Unit:      Unit(strings.ToUpper(m[4])),
	}, nil
}

// IsClock возвращает true, если величина записана как часы:минуты:секунды
func (e Expression) IsClock() bool {
	return strings.Contains(e.Magnitude, ":")
}

// HasTime возвращает true, если сдвиг меньше суток по точности
func (e Expression) HasTime() bool {
	u := string(e.Unit)
	return e.IsClock() ||
		strings.Contains(u, "HOUR") ||
		strings.Contains(u, "MINUTE") ||
		strings.Contains(u, "SECOND")
}

// Modifier возвращает модификатор date()/datetime() без кавычек, например "-1 days"
func (e Expression) Modifier() string {
	switch {
	case e.Unit == UnitDay:
		return e.Sign + e.Magnitude + " days"
	case e.Unit.countsSeconds():
		return e.Sign + strconv.FormatInt(clockSeconds(e.Magnitude), 10) + " seconds"
	default:
		return e.Sign + e.Magnitude + " " + strings.ToLower(string(e.Unit))
	}
}

// Supported возвращает ErrUnsupportedUnit, если модификатор не будет понят sqlite
func (e Expression) Supported() error {
	if !modifierUnits[e.Unit] {
		return fmt.Errorf("%w: %s", ErrUnsupportedUnit, e.Unit)
	}
	if e.IsClock() && !e.Unit.countsSeconds() {
		return fmt.Errorf("%w: clock value with %s", ErrUnsupportedUnit, e.Unit)
	}
	return nil
}

// Equivalent проверяет, что sqlite вычислит модификатор так же, как MySQL.
// MONTH и YEAR в sqlite переносят конец месяца вперед, а MySQL обрезает до последнего дня
func (e Expression) Equivalent() error {
	if err := e.Supported(); err != nil {
		return err
	}
	if e.Unit == UnitMonth || e.Unit == UnitYear {
		return fmt.Errorf("%w: %s differs at month end", ErrUnsupportedUnit, e.Unit)
	}
	return nil
}

// Apply применяет сдвиг к моменту t по правилам MySQL
func (e Expression) Apply(t time.Time) (time.Time, error) {
	if err := e.Supported(); err != nil {
		return t, err
	}

	sign := int64(1)
	if e.Sign == "-" {
		sign = -1
	}

	if e.Unit.countsSeconds() {
		return t.Add(time.Duration(sign*clockSeconds(e.Magnitude)) * time.Second), nil
	}

	n, err := strconv.ParseInt(e.Magnitude, 10, 64)
	if err != nil {
		return t, fmt.Errorf("%w: magnitude %q", ErrUnparsable, e.Magnitude)
	}
	n *= sign

	switch e.Unit {
	case UnitDay:
		return t.AddDate(0, 0, int(n)), nil
	case UnitMonth:
		return addMonths(t, int(n)), nil
	case UnitYear:
		return addMonths(t, int(n)*12), nil
	case UnitHour:
		return t.Add(time.Duration(n) * time.Hour), nil
	case UnitMinute:
		return t.Add(time.Duration(n) * time.Minute), nil
	}
	return t, fmt.Errorf("%w: %s", ErrUnsupportedUnit, e.Unit)
}

// addMonths сдвигает дату на месяцы, день обрезается до последнего дня целевого месяца
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

// clockSeconds переводит "H:M:S" или "M:S" в секунды, целое число считается секундами
func clockSeconds(magnitude string) int64 {
	parts := strings.Split(magnitude, ":")
	values := make([]int64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return 0
		}
		values[i] = v
	}

	switch len(values) {
	case 3:
		return values[0]*3600 + values[1]*60 + values[2]
	case 2:
		return values[0]*60 + values[1]
	default:
		return values[0]
	}
}
