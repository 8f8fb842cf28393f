package datefilter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingListing/internal/domain"
	"github.com/m04kA/SMC-BookingListing/internal/engine/interval"
)

func TestCompileBookingDates_MySQL(t *testing.T) {
	c := NewBookingDates(interval.New(domain.DialectMySQL))

	tests := []struct {
		name     string
		filter   domain.DateFilter
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:    "default future",
			filter:  domain.NewDateFilter("", ""),
			wantSQL: "dt.booking_date >= (CURDATE() - INTERVAL '00:00:01' HOUR_SECOND)",
		},
		{
			name:   "today",
			filter: domain.NewDateFilter("1", ""),
			wantSQL: "dt.booking_date <= (CURDATE() + INTERVAL '23:59:59' HOUR_SECOND)" +
				" AND dt.booking_date >= (CURDATE() - INTERVAL '00:00:01' HOUR_SECOND)",
		},
		{
			name:    "previous",
			filter:  domain.NewDateFilter("2", ""),
			wantSQL: "dt.booking_date <= (CURDATE() - INTERVAL '00:00:01' HOUR_SECOND)",
		},
		{
			name:    "all",
			filter:  domain.NewDateFilter("3", ""),
			wantSQL: "",
		},
		{
			name:    "next",
			filter:  domain.NewDateFilter("4", "10"),
			wantSQL: "dt.booking_date <= (CURDATE() + INTERVAL 10 DAY) AND dt.booking_date > (CURDATE())",
		},
		{
			name:    "next with garbage count is zero days",
			filter:  domain.NewDateFilter("NEXT", "abc"),
			wantSQL: "dt.booking_date <= (CURDATE() + INTERVAL 0 DAY) AND dt.booking_date > (CURDATE())",
		},
		{
			name:    "prior strips dashes",
			filter:  domain.NewDateFilter("5", "-30"),
			wantSQL: "dt.booking_date >= (CURDATE() - INTERVAL 30 DAY) AND dt.booking_date <= (CURDATE() + INTERVAL 1 DAY)",
		},
		{
			name:   "check in soon",
			filter: domain.NewDateFilter("7", ""),
			wantSQL: "dt.booking_date <= (CURDATE() + INTERVAL '47:59:59' HOUR_SECOND)" +
				" AND dt.booking_date >= (CURDATE() + INTERVAL 1 DAY)",
		},
		{
			name:    "today either",
			filter:  domain.NewDateFilter("9", ""),
			wantSQL: "dt.booking_date <= (CURDATE() + INTERVAL 1 DAY) AND dt.booking_date >= (CURDATE() - INTERVAL 1 DAY)",
		},
		{
			name:     "fixed range appends day bounds",
			filter:   domain.NewDateFilter("2024-01-01", "2024-01-31"),
			wantSQL:  "dt.booking_date >= ? AND dt.booking_date <= ?",
			wantArgs: []interface{}{"2024-01-01 00:00:00", "2024-01-31 23:59:59"},
		},
		{
			name:     "fixed range keeps explicit time",
			filter:   domain.NewDateFilter("2024-01-01 12:00:00", ""),
			wantSQL:  "dt.booking_date >= ?",
			wantArgs: []interface{}{"2024-01-01 12:00:00"},
		},
		{
			name:     "fixed range name is not a lower bound",
			filter:   domain.NewDateFilter("fixed_range", "2024-01-05"),
			wantSQL:  "dt.booking_date <= ?",
			wantArgs: []interface{}{"2024-01-05 23:59:59"},
		},
		{
			name:     "unknown code falls through to fixed range",
			filter:   domain.NewDateFilter("6", "2024-02-01"),
			wantSQL:  "dt.booking_date >= ? AND dt.booking_date <= ?",
			wantArgs: []interface{}{"6 00:00:00", "2024-02-01 23:59:59"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := c.Compile(tt.filter, domain.DatesAlias).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
				return
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestCompileBookingDates_CheckOutSoonMatchesCheckIn(t *testing.T) {
	c := NewBookingDates(interval.New(domain.DialectSQLite))

	in, _, err := c.Compile(domain.DateFilter{Code: domain.DateFilterCheckInSoon}, domain.DatesAlias).ToSql()
	require.NoError(t, err)
	out, _, err := c.Compile(domain.DateFilter{Code: domain.DateFilterCheckOutSoon}, domain.DatesAlias).ToSql()
	require.NoError(t, err)

	assert.Equal(t, in, out)
}

func TestCompileBookingDates_SQLite(t *testing.T) {
	c := NewBookingDates(interval.New(domain.DialectSQLite))

	sql, _, err := c.Compile(domain.NewDateFilter("TODAY", ""), "").ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"booking_date <= (datetime('now', 'start of day', '+86399 seconds'))"+
			" AND booking_date >= (datetime('now', 'start of day', '-1 seconds'))",
		sql,
	)
}

func TestCompileBookingDates_SQLiteDateBoundsCompareAsDatetime(t *testing.T) {
	c := NewBookingDates(interval.New(domain.DialectSQLite))

	tests := []struct {
		name    string
		filter  domain.DateFilter
		wantSQL string
	}{
		{
			name:   "next",
			filter: domain.NewDateFilter("4", "3"),
			wantSQL: "booking_date <= (datetime(date('now', '+3 days')))" +
				" AND booking_date > (datetime(date('now')))",
		},
		{
			name:   "prior",
			filter: domain.NewDateFilter("5", "5"),
			wantSQL: "booking_date >= (datetime(date('now', '-5 days')))" +
				" AND booking_date <= (datetime(date('now', '+1 days')))",
		},
		{
			name:   "today either",
			filter: domain.NewDateFilter("9", ""),
			wantSQL: "booking_date <= (datetime(date('now', '+1 days')))" +
				" AND booking_date >= (datetime(date('now', '-1 days')))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, _, err := c.Compile(tt.filter, "").ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
		})
	}
}

func TestCompileModificationDates(t *testing.T) {
	c := NewModificationDates(interval.New(domain.DialectMySQL))

	tests := []struct {
		name       string
		filter     domain.DateFilter
		prefix     string
		wantLegacy string
	}{
		{
			name:       "today on booking alias uses leading AND",
			filter:     domain.NewDateFilter("1", ""),
			prefix:     domain.BookingAlias,
			wantLegacy: " AND (bk.modification_date >= (CURDATE() - INTERVAL '00:00:01' HOUR_SECOND))",
		},
		{
			name:       "today on joined alias uses trailing AND",
			filter:     domain.NewDateFilter("1", ""),
			prefix:     "m.",
			wantLegacy: "(m.modification_date >= (CURDATE() - INTERVAL '00:00:01' HOUR_SECOND)) AND ",
		},
		{
			name:   "prior",
			filter: domain.NewDateFilter("PRIOR", "7"),
			prefix: domain.BookingAlias,
			wantLegacy: " AND (bk.modification_date >= (CURDATE() - INTERVAL 7 DAY))" +
				" AND (bk.modification_date <= (CURDATE() + INTERVAL 1 DAY))",
		},
		{
			name:       "all",
			filter:     domain.NewDateFilter("3", ""),
			prefix:     domain.BookingAlias,
			wantLegacy: "",
		},
		{
			name:       "empty input means no restriction",
			filter:     domain.NewDateFilter("", ""),
			prefix:     domain.BookingAlias,
			wantLegacy: "",
		},
		{
			name:       "next is not in the table and uses the range branch",
			filter:     domain.NewDateFilter("4", "2024-05-01"),
			prefix:     "",
			wantLegacy: "(modification_date <= ?) AND ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			legacy, _ := c.Compile(tt.filter, tt.prefix).Legacy()
			assert.Equal(t, tt.wantLegacy, legacy)
		})
	}
}

func TestCompile_FragmentsAreWellFormed(t *testing.T) {
	dialects := []domain.Dialect{domain.DialectMySQL, domain.DialectSQLite}
	bounds := map[domain.DateFilterCode]domain.DateFilter{}
	for _, code := range domain.AllDateFilterCodes {
		bounds[code] = domain.DateFilter{Code: code, From: "2024-01-01", To: "5"}
	}

	for _, dialect := range dialects {
		tr := interval.New(dialect)
		compilers := map[string]*Compiler{
			"booking":      NewBookingDates(tr),
			"modification": NewModificationDates(tr),
		}

		for name, c := range compilers {
			for _, prefix := range []string{domain.DatesAlias, domain.BookingAlias, ""} {
				for code, filter := range bounds {
					label := string(dialect) + "/" + name + "/" + prefix + "/" + code.String()

					sql, _, err := c.Compile(filter, prefix).ToSql()
					require.NoError(t, err, label)
					assertWellFormed(t, sql, label)

					legacy, _ := c.Compile(filter, prefix).Legacy()
					assertBalanced(t, legacy, label)
				}
			}
		}
	}
}

func TestValidate(t *testing.T) {
	tr := interval.New(domain.DialectSQLite)
	booking := NewBookingDates(tr)
	modification := NewModificationDates(tr)

	assert.NoError(t, booking.Validate(domain.NewDateFilter("4", "7")))
	assert.NoError(t, booking.Validate(domain.NewDateFilter("5", "-7")))
	assert.NoError(t, booking.Validate(domain.NewDateFilter("2024-01-01", "2024-01-02 10:00:00")))
	assert.NoError(t, booking.Validate(domain.NewDateFilter("7", "")))
	assert.NoError(t, booking.Validate(domain.NewDateFilter("FIXED_RANGE", "2024-01-05")))

	assert.ErrorIs(t, booking.Validate(domain.NewDateFilter("4", "ten")), ErrInvalidDayCount)
	assert.ErrorIs(t, booking.Validate(domain.NewDateFilter("5", "")), ErrInvalidDayCount)
	assert.ErrorIs(t, booking.Validate(domain.NewDateFilter("yesterday", "")), ErrInvalidBound)
	assert.ErrorIs(t, booking.Validate(domain.NewDateFilter("2024-01-01", "2024-13-01")), ErrInvalidBound)

	assert.NoError(t, modification.Validate(domain.NewDateFilter("1", "")))
	assert.NoError(t, modification.Validate(domain.NewDateFilter("", "")))
	assert.ErrorIs(t, modification.Validate(domain.NewDateFilter("4", "3")), ErrUnsupportedCode)
}

func assertWellFormed(t *testing.T, sql, label string) {
	t.Helper()

	assertBalanced(t, sql, label)
	trimmed := strings.TrimSpace(sql)
	assert.False(t, strings.HasPrefix(trimmed, "AND"), "%s: leading AND in %q", label, sql)
	assert.False(t, strings.HasSuffix(trimmed, "AND"), "%s: dangling AND in %q", label, sql)
	assert.NotContains(t, sql, "AND AND", label)
}

func assertBalanced(t *testing.T, sql, label string) {
	t.Helper()

	depth := 0
	inQuote := false
	for _, r := range sql {
		switch {
		case r == '\'':
			inQuote = !inQuote
		case inQuote:
		case r == '(':
			depth++
		case r == ')':
			depth--
			require.GreaterOrEqual(t, depth, 0, "%s: unbalanced %q", label, sql)
		}
	}
	assert.Equal(t, 0, depth, "%s: unbalanced %q", label, sql)
	assert.False(t, inQuote, "%s: unterminated quote %q", label, sql)
}
