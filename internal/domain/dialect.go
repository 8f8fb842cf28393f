package domain

import "strings"

// Dialect is the SQL backend a query is rendered for
type Dialect string

const (
	// DialectMySQL is the server dialect with native INTERVAL arithmetic
	DialectMySQL Dialect = "mysql"
	// DialectSQLite is the embedded dialect that only knows date()/datetime() modifiers
	DialectSQLite Dialect = "sqlite"
)

// ParseDialect converts a driver name to a dialect
func ParseDialect(raw string) (Dialect, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "mysql", "mariadb":
		return DialectMySQL, true
	case "sqlite", "sqlite3":
		return DialectSQLite, true
	default:
		return "", false
	}
}

// Anchor is the "current moment" interval deltas are applied to
type Anchor string

const (
	// AnchorCurDate is the date-only anchor (today at midnight)
	AnchorCurDate Anchor = "CURDATE"
	// AnchorNow is the date-time anchor
	AnchorNow Anchor = "NOW"
)

// IsDateOnly returns true for the date-only anchor
func (a Anchor) IsDateOnly() bool {
	return a != AnchorNow
}
