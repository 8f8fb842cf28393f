package list_bookings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingListing/internal/domain"
	"github.com/m04kA/SMC-BookingListing/internal/engine/datefilter"
	"github.com/m04kA/SMC-BookingListing/internal/engine/interval"
	"github.com/m04kA/SMC-BookingListing/internal/engine/shortdays"
	"github.com/m04kA/SMC-BookingListing/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BookingListing/internal/infra/storage/resource"
	"github.com/m04kA/SMC-BookingListing/internal/testutil"
	uc "github.com/m04kA/SMC-BookingListing/internal/usecase/list_bookings"
	"github.com/m04kA/SMC-BookingListing/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingListing/pkg/txmanager"
)

type fakeUseCase struct {
	req  *uc.Request
	resp *uc.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *uc.Request) (*uc.Response, error) {
	f.req = req
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_PassesQueryToUseCase(t *testing.T) {
	fake := &fakeUseCase{resp: &uc.Response{Page: 1, PageSize: 10}}
	h := NewHandler(fake, nopLogger{})

	rec := serve(h, "/api/v1/bookings?booking_date=4&booking_date2=7&approved=1&keyword=alice&page=3&page_size=20&sort=cost_asc")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "4", fake.req.BookingDate)
	assert.Equal(t, "7", fake.req.BookingDate2)
	assert.Equal(t, "1", fake.req.Approved)
	assert.Equal(t, "alice", fake.req.Keyword)
	assert.Equal(t, "cost_asc", fake.req.Sort)
	assert.Equal(t, 3, fake.req.Page)
	assert.Equal(t, 20, fake.req.PageSize)

	var body ListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Empty(t, body.Bookings)
	assert.NotNil(t, body.Bookings)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"bad page", "/api/v1/bookings?page=two", nil, http.StatusBadRequest},
		{"strict validation", "/api/v1/bookings", uc.ErrInvalidInput, http.StatusBadRequest},
		{"storage failure", "/api/v1/bookings", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, nopLogger{})
			rec := serve(h, tt.target)
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestFromUseCaseResponse(t *testing.T) {
	day := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	resp := &uc.Response{
		Total: 1, Page: 1, PageSize: 10,
		Bookings: []uc.Booking{{
			Booking: &domain.Booking{
				ID:               7,
				ResourceID:       2,
				SyncGID:          "gcal",
				Approved:         true,
				ModificationDate: sql.NullTime{Time: day, Valid: true},
				Dates:            []domain.BookingDate{{BookingID: 7, BookingDate: day}},
			},
			ResourceTitle: "Room B",
			ShortDays:     domain.ShortDays{Values: []string{"2024-05-01"}, TypeIDs: []string{""}},
		}},
	}

	out := FromUseCaseResponse(resp)
	require.Len(t, out.Bookings, 1)

	b := out.Bookings[0]
	assert.Equal(t, int64(7), b.ID)
	assert.Equal(t, "Room B", b.ResourceTitle)
	assert.True(t, b.Approved)
	assert.Equal(t, "gcal", b.SyncGID)
	require.NotNil(t, b.ModificationDate)
	assert.Equal(t, "2024-05-01 00:00:00", *b.ModificationDate)
	assert.Equal(t, []string{"2024-05-01 00:00:00"}, b.Dates)
	assert.Equal(t, []string{"2024-05-01"}, b.DatesShort)
	assert.Equal(t, []string{""}, b.DatesShortID)
}

// Полная сборка поверх sqlite: handler -> use case -> builder -> репозитории
func TestHandle_EndToEnd(t *testing.T) {
	db := testutil.NewTestDB(t)
	today := testutil.Today().Add(10 * time.Hour)

	testutil.InsertResource(t, db, 1, "Room A")
	first := testutil.InsertBooking(t, db,
		testutil.BookingSeed{ResourceID: 1, Form: "name^alice", PayStatus: "OK"},
		testutil.DateSeed{Date: today.AddDate(0, 0, 1), Approved: true},
		testutil.DateSeed{Date: today.AddDate(0, 0, 2), Approved: true},
		testutil.DateSeed{Date: today.AddDate(0, 0, 3), Approved: true},
	)
	lost := testutil.InsertBooking(t, db,
		testutil.BookingSeed{ResourceID: 42},
		testutil.DateSeed{Date: today.AddDate(0, 0, 4)},
	)
	testutil.InsertBooking(t, db,
		testutil.BookingSeed{ResourceID: 1},
		testutil.DateSeed{Date: today.AddDate(0, 0, -4)},
	)

	wrapped := dbmetrics.Wrap(db, nil, "test")
	tables := domain.NewTables("")
	tr := interval.New(domain.DialectSQLite)
	bookingDates := datefilter.NewBookingDates(tr)
	modificationDates := datefilter.NewModificationDates(tr)

	useCase := uc.NewUseCase(
		booking.NewQueryBuilder(tables, bookingDates, modificationDates, booking.DefaultHooks(), false),
		booking.NewRepository(wrapped),
		resource.NewRepository(wrapped, tables),
		bookingDates,
		modificationDates,
		shortdays.New(),
		txmanager.NewTransactionManager(wrapped),
		nopLogger{},
		uc.Options{},
	)
	h := NewHandler(useCase, nopLogger{})

	rec := serve(h, "/api/v1/bookings?sort=booking_id_asc")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body ListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(2), body.Total)
	require.Len(t, body.Bookings, 2)

	assert.Equal(t, first, body.Bookings[0].ID)
	assert.Equal(t, "Room A", body.Bookings[0].ResourceTitle)
	assert.True(t, body.Bookings[0].Approved)
	assert.Len(t, body.Bookings[0].DatesShort, 3)
	assert.Equal(t, "-", body.Bookings[0].DatesShort[1])

	assert.Equal(t, lost, body.Bookings[1].ID)
	assert.True(t, body.Bookings[1].Lost)

	rec = serve(h, "/api/v1/bookings?booking_type=lost")
	require.Equal(t, http.StatusOK, rec.Code)
	body = ListResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Bookings, 1)
	assert.Equal(t, lost, body.Bookings[0].ID)
}
