package shortdays

import (
	"time"

	"github.com/m04kA/SMC-BookingListing/internal/domain"
)

// AdjacencyFunc решает, продолжает ли дата next серию, закончившуюся датой prev
type AdjacencyFunc func(prev, next time.Time) bool

// NextCalendarDay считает соседними даты в тот же или на следующий календарный день.
// Выезд и заезд в один день не разрывают серию
func NextCalendarDay(prev, next time.Time) bool {
	p := time.Date(prev.Year(), prev.Month(), prev.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)
	return n.Before(p.AddDate(0, 0, 2))
}

// Compressor сворачивает отсортированные даты бронирования в короткую запись
// с диапазонами ("-") и разрывами (","). Состояния между вызовами не хранит
type Compressor struct {
	adjacent   AdjacencyFunc
	layout     string
	typeBreaks bool
}

// Option настройка компрессора
type Option func(*Compressor)

// WithAdjacency задает предикат соседства дат
func WithAdjacency(fn AdjacencyFunc) Option {
	return func(c *Compressor) {
		if fn != nil {
			c.adjacent = fn
		}
	}
}

// WithLayout задает формат вывода дат
func WithLayout(layout string) Option {
	return func(c *Compressor) {
		if layout != "" {
			c.layout = layout
		}
	}
}

// WithTypeBreaks разрывает серию при смене type_id
func WithTypeBreaks(enabled bool) Option {
	return func(c *Compressor) {
		c.typeBreaks = enabled
	}
}

// New создает компрессор
func New(opts ...Option) *Compressor {
	c := &Compressor{
		adjacent: NextCalendarDay,
		layout:   domain.DateFormat,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// run состояние прохода по датам одного бронирования
type run struct {
	tokens    []domain.ShortDayToken
	lastDay   domain.BookingDate
	lastShown string
}

// Compress сворачивает даты одного бронирования
func (c *Compressor) Compress(rows []domain.BookingDate) []domain.ShortDayToken {
	if len(rows) == 0 {
		return []domain.ShortDayToken{}
	}

	r := c.start(rows[0])
	for _, row := range rows[1:] {
		c.step(r, row)
	}
	return c.finish(r)
}

// CompressAll сворачивает даты нескольких бронирований за один проход.
// Строки одного бронирования должны идти подряд
func (c *Compressor) CompressAll(rows []domain.BookingDate) map[int64]domain.ShortDays {
	result := make(map[int64]domain.ShortDays)
	if len(rows) == 0 {
		return result
	}

	current := rows[0].BookingID
	r := c.start(rows[0])
	for _, row := range rows[1:] {
		if row.BookingID != current {
			result[current] = domain.NewShortDays(c.finish(r))
			current = row.BookingID
			r = c.start(row)
			continue
		}
		c.step(r, row)
	}
	result[current] = domain.NewShortDays(c.finish(r))

	return result
}

func (c *Compressor) start(first domain.BookingDate) *run {
	r := &run{lastDay: first}
	r.lastShown = c.emitDate(r, first)
	return r
}

func (c *Compressor) step(r *run, row domain.BookingDate) {
	last := c.format(r.lastDay)

	if c.continues(r.lastDay, row) {
		if r.lastShown != domain.TokenDash {
			if r.lastShown != last {
				c.emitDate(r, r.lastDay)
			}
			c.emitSeparator(r, domain.TokenDash)
			r.lastShown = domain.TokenDash
		}
	} else {
		if r.lastShown != last {
			c.emitDate(r, r.lastDay)
		}
		c.emitSeparator(r, domain.TokenComma)
		r.lastShown = c.emitDate(r, row)
	}

	r.lastDay = row
}

func (c *Compressor) finish(r *run) []domain.ShortDayToken {
	if r.lastShown != c.format(r.lastDay) {
		c.emitDate(r, r.lastDay)
	}
	return r.tokens
}

func (c *Compressor) continues(prev, next domain.BookingDate) bool {
	if c.typeBreaks && prev.TypeIDString() != next.TypeIDString() {
		return false
	}
	return c.adjacent(prev.BookingDate, next.BookingDate)
}

// emitDate добавляет дату и возвращает ее отформатированное значение
func (c *Compressor) emitDate(r *run, row domain.BookingDate) string {
	value := c.format(row)
	r.tokens = append(r.tokens, domain.ShortDayToken{Value: value, TypeID: row.TypeIDString()})
	return value
}

// emitSeparator добавляет разделитель с type_id предшествующей даты
func (c *Compressor) emitSeparator(r *run, sep string) {
	r.tokens = append(r.tokens, domain.ShortDayToken{Value: sep, TypeID: r.lastDay.TypeIDString()})
}

func (c *Compressor) format(row domain.BookingDate) string {
	return row.BookingDate.Format(c.layout)
}
