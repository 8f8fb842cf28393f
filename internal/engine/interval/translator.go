package interval

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingListing/internal/domain"
)

// Translator переводит выражения INTERVAL в SQL выбранного диалекта.
// Не хранит состояния между вызовами и безопасен для конкурентного использования
type Translator struct {
	dialect domain.Dialect
	offset  time.Duration
	logger  Logger
}

// Option настройка транслятора
type Option func(*Translator)

// WithUTCOffset задает смещение часового пояса сайта относительно UTC.
// Для sqlite добавляется модификатором после 'now', для mysql задается через time_zone сессии
func WithUTCOffset(offset time.Duration) Option {
	return func(t *Translator) {
		t.offset = offset
	}
}

// WithLogger задает логгер для предупреждений о неразобранных выражениях
func WithLogger(logger Logger) Option {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// New создает транслятор для диалекта
func New(dialect domain.Dialect, opts ...Option) *Translator {
	t := &Translator{
		dialect: dialect,
		logger:  nopLogger{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Dialect возвращает диалект транслятора
func (t *Translator) Dialect() domain.Dialect {
	return t.dialect
}

// Translate возвращает SQL выражение "якорь плюс сдвиг".
// Пустое или неразобранное выражение дает голый якорь, ошибка не возвращается
func (t *Translator) Translate(expr string, anchor domain.Anchor) string {
	if strings.TrimSpace(expr) == "" {
		return t.bareAnchor(anchor)
	}

	e, err := parse(expr)
	if err != nil {
		t.logger.Warn("Translate: %v, using bare anchor", err)
		return t.bareAnchor(anchor)
	}

	return t.render(expr, e, anchor)
}

// TranslateStrict как Translate, но возвращает ошибку для неразобранных выражений,
// неизвестных единиц и единиц, которые диалект не может выразить
func (t *Translator) TranslateStrict(expr string, anchor domain.Anchor) (string, error) {
	if strings.TrimSpace(expr) == "" {
		return t.bareAnchor(anchor), nil
	}

	e, err := Parse(expr)
	if err != nil {
		return "", err
	}
	if t.dialect == domain.DialectSQLite {
		if err := e.Equivalent(); err != nil {
			return "", err
		}
	}

	return t.render(expr, e, anchor), nil
}

// Evaluate вычисляет в Go момент, в который SQL выражение разрешится при текущем времени now
func (t *Translator) Evaluate(expr string, anchor domain.Anchor, now time.Time) (time.Time, error) {
	base := now.UTC().Add(t.offset)
	if anchor.IsDateOnly() {
		base = time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, time.UTC)
	}

	if strings.TrimSpace(expr) == "" {
		return base, nil
	}

	e, err := Parse(expr)
	if err != nil {
		return base, err
	}
	return e.Apply(base)
}

func (t *Translator) render(expr string, e Expression, anchor domain.Anchor) string {
	if t.dialect == domain.DialectMySQL {
		return renderMySQL(expr, anchor)
	}
	return t.renderSQLite(e, anchor)
}

func renderMySQL(expr string, anchor domain.Anchor) string {
	expr = strings.TrimSpace(expr)
	if expr[0] != '+' && expr[0] != '-' {
		expr = "+ " + expr
	}
	return mysqlAnchor(anchor) + " " + expr
}

func (t *Translator) renderSQLite(e Expression, anchor domain.Anchor) string {
	modifiers := t.nowModifiers()

	fn := "datetime"
	if anchor.IsDateOnly() {
		fn = "date"
		if e.HasTime() {
			fn = "datetime"
			modifiers = append(modifiers, "'start of day'")
		}
	}
	modifiers = append(modifiers, quote(e.Modifier()))

	return fn + "(" + strings.Join(modifiers, ", ") + ")"
}

func (t *Translator) bareAnchor(anchor domain.Anchor) string {
	if t.dialect == domain.DialectMySQL {
		return mysqlAnchor(anchor)
	}

	fn := "datetime"
	if anchor.IsDateOnly() {
		fn = "date"
	}
	return fn + "(" + strings.Join(t.nowModifiers(), ", ") + ")"
}

// nowModifiers возвращает 'now' и, при ненулевом смещении, сдвиг часового пояса
func (t *Translator) nowModifiers() []string {
	modifiers := []string{"'now'"}
	if t.offset != 0 {
		seconds := int64(t.offset / time.Second)
		modifiers = append(modifiers, quote(fmt.Sprintf("%s%s seconds", signOf(seconds), strconv.FormatInt(abs(seconds), 10))))
	}
	return modifiers
}

func mysqlAnchor(anchor domain.Anchor) string {
	if anchor.IsDateOnly() {
		return "CURDATE()"
	}
	return "NOW()"
}

func quote(s string) string {
	return "'" + s + "'"
}

func signOf(v int64) string {
	if v < 0 {
		return "-"
	}
	return "+"
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
