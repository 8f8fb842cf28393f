package domain

import "strconv"

// Time format constants
const (
	DateFormat     = "2006-01-02"          // YYYY-MM-DD
	DateTimeFormat = "2006-01-02 15:04:05" // YYYY-MM-DD HH:MM:SS
)

// Bound suffixes appended to fixed-range bounds without a time component
const (
	DayStartSuffix = " 00:00:00"
	DayEndSuffix   = " 23:59:59"
)

// Table aliases used by the listing queries
const (
	BookingAlias = "bk."
	DatesAlias   = "dt."
)

// Default table names (without prefix)
const (
	BookingTableName   = "booking"
	DatesTableName     = "bookingdates"
	ResourcesTableName = "bookingtypes"
)

// Listing defaults
const (
	DefaultPageSize = 10
	MaxPageSize     = 500
	MaxPage         = 1_000_000 // (MaxPage-1)*MaxPageSize fits in int32
)

// BookingTypeLost marks the listing of bookings whose resource is no longer registered
const BookingTypeLost = "lost"

// Tables holds the physical table names of one installation
type Tables struct {
	Booking   string
	Dates     string
	Resources string
}

// NewTables builds table names with the given prefix
func NewTables(prefix string) Tables {
	return Tables{
		Booking:   prefix + BookingTableName,
		Dates:     prefix + DatesTableName,
		Resources: prefix + ResourcesTableName,
	}
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
