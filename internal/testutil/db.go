package testutil

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/m04kA/SMC-BookingListing/internal/domain"
	"github.com/m04kA/SMC-BookingListing/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-BookingListing/pkg/sqlbuilder"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", EnsureForeignKeysDSN(dbPath))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := migrations.Run(db, domain.DialectSQLite); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// EnsureForeignKeysDSN adds _fk=1 to a SQLite DSN unless it is already set.
func EnsureForeignKeysDSN(dsn string) string {
	if strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_fk=1"
	}
	return dsn + "?_fk=1"
}

// BookingSeed describes a booking row for tests.
type BookingSeed struct {
	ResourceID       int64
	Trash            bool
	SyncGID          string
	ModificationDate time.Time
	Form             string
	Remark           string
	Cost             float64
	PayStatus        string
}

// DateSeed describes a booking date row for tests.
type DateSeed struct {
	Date     time.Time
	Approved bool
	TypeID   *int64
}

// InsertBooking inserts a booking with its dates and returns the booking id.
func InsertBooking(t *testing.T, db *sql.DB, b BookingSeed, dates ...DateSeed) int64 {
	t.Helper()

	var modified interface{}
	if !b.ModificationDate.IsZero() {
		modified = b.ModificationDate.Format(domain.DateTimeFormat)
	}

	query, args, err := sqlbuilder.Insert(domain.BookingTableName).
		Columns("booking_type", "trash", "sync_gid", "modification_date", "form", "remark", "cost", "pay_status").
		Values(b.ResourceID, boolInt(b.Trash), b.SyncGID, modified, b.Form, b.Remark, b.Cost, b.PayStatus).
		ToSql()
	if err != nil {
		t.Fatalf("build booking insert: %v", err)
	}
	res, err := db.Exec(query, args...)
	if err != nil {
		t.Fatalf("insert booking: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("booking id: %v", err)
	}

	for _, d := range dates {
		InsertDate(t, db, id, d)
	}
	return id
}

// InsertDate inserts one booking date row. Dates are stored as "YYYY-MM-DD HH:MM:SS" text.
func InsertDate(t *testing.T, db *sql.DB, bookingID int64, d DateSeed) {
	t.Helper()

	var typeID interface{}
	if d.TypeID != nil {
		typeID = *d.TypeID
	}

	query, args, err := sqlbuilder.Insert(domain.DatesTableName).
		Columns("booking_id", "booking_date", "approved", "type_id").
		Values(bookingID, d.Date.Format(domain.DateTimeFormat), boolInt(d.Approved), typeID).
		ToSql()
	if err != nil {
		t.Fatalf("build date insert: %v", err)
	}
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("insert date: %v", err)
	}
}

// InsertResource inserts a bookable resource.
func InsertResource(t *testing.T, db *sql.DB, id int64, title string) {
	t.Helper()

	query, args, err := sqlbuilder.Insert(domain.ResourcesTableName).
		Columns("booking_type_id", "title").
		Values(id, title).
		ToSql()
	if err != nil {
		t.Fatalf("build resource insert: %v", err)
	}
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("insert resource: %v", err)
	}
}

// Today returns the current UTC date at midnight.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
