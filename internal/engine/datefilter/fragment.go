package datefilter

import "strings"

// Clause одно условие WHERE со своими параметрами
type Clause struct {
	SQL  string
	Args []interface{}
}

// JoinStyle расстановка AND при склейке фрагмента в старом строковом виде
type JoinStyle int

const (
	// JoinLeading " AND (clause)" перед каждым условием
	JoinLeading JoinStyle = iota
	// JoinTrailing "(clause) AND " после каждого условия
	JoinTrailing
)

// Fragment набор условий по одной колонке дат.
// Реализует squirrel.Sqlizer, пустой фрагмент дает пустую строку
type Fragment struct {
	clauses []Clause
	style   JoinStyle
}

func (f *Fragment) add(sql string, args ...interface{}) {
	f.clauses = append(f.clauses, Clause{SQL: sql, Args: args})
}

// Empty возвращает true, если фрагмент не ограничивает выборку
func (f Fragment) Empty() bool {
	return len(f.clauses) == 0
}

// Clauses возвращает условия фрагмента
func (f Fragment) Clauses() []Clause {
	return f.clauses
}

// Style возвращает стиль склейки для Legacy
func (f Fragment) Style() JoinStyle {
	return f.style
}

// ToSql склеивает условия через AND
func (f Fragment) ToSql() (string, []interface{}, error) {
	if f.Empty() {
		return "", nil, nil
	}

	parts := make([]string, 0, len(f.clauses))
	args := make([]interface{}, 0)
	for _, c := range f.clauses {
		parts = append(parts, c.SQL)
		args = append(args, c.Args...)
	}
	return strings.Join(parts, " AND "), args, nil
}

// Legacy возвращает фрагмент в виде для дописывания к готовому WHERE:
// " AND (a) AND (b)" или "(a) AND (b) AND " в зависимости от стиля
func (f Fragment) Legacy() (string, []interface{}) {
	var sb strings.Builder
	args := make([]interface{}, 0)

	for _, c := range f.clauses {
		switch f.style {
		case JoinTrailing:
			sb.WriteString("(" + c.SQL + ") AND ")
		default:
			sb.WriteString(" AND (" + c.SQL + ")")
		}
		args = append(args, c.Args...)
	}
	return sb.String(), args
}
