package domain

import (
	"database/sql"
	"time"
)

// Booking represents one row of the booking table as seen by the listing
type Booking struct {
	ID               int64
	ResourceID       int64 // booking_type: bookable resource the booking belongs to
	Trash            bool
	SyncGID          string // non-empty when the booking was imported from an external calendar
	IsNew            bool
	Status           string
	SortDate         sql.NullTime
	ModificationDate sql.NullTime
	Form             string
	Remark           string
	Cost             float64
	PayStatus        string

	// Filled from the dates table after the listing query
	Approved bool
	Dates    []BookingDate
}

// IsImported returns true if the booking came from an external calendar sync
func (b *Booking) IsImported() bool {
	return b.SyncGID != ""
}

// IsLost returns true if the booking references a resource that is not registered anymore
func (b *Booking) IsLost(known map[int64]string) bool {
	_, ok := known[b.ResourceID]
	return !ok
}

// BookingDate represents one row of the booking dates table
type BookingDate struct {
	BookingID   int64
	BookingDate time.Time
	Approved    bool
	TypeID      sql.NullInt64 // sub-resource when a booking spans several bookable units
}

// TypeIDString returns the type id as it is shown next to short days ("" when absent)
func (d BookingDate) TypeIDString() string {
	if !d.TypeID.Valid {
		return ""
	}
	return formatInt(d.TypeID.Int64)
}

// Resource represents a bookable resource (booking type)
type Resource struct {
	ID    int64
	Title string
}
