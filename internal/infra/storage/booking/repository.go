package booking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/m04kA/SMC-BookingListing/internal/domain"
	"github.com/m04kA/SMC-BookingListing/pkg/dbmetrics"
)

// Repository репозиторий листинга бронирований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Count возвращает количество бронирований под фильтром запроса
func (r *Repository) Count(ctx context.Context, q *ListingQuery) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := q.CountSQL()
	if err != nil {
		return 0, fmt.Errorf("%w: Count - build count query: %v", ErrBuildQuery, err)
	}

	var total int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: Count - execute count: %v", ErrExecQuery, err)
	}
	return total, nil
}

// List возвращает страницу бронирований в порядке сортировки запроса
func (r *Repository) List(ctx context.Context, q *ListingQuery) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := q.SelectSQL()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// ListDates возвращает даты бронирований, сгруппированные по бронированию
func (r *Repository) ListDates(ctx context.Context, q *ListingQuery, bookingIDs []int64) ([]domain.BookingDate, error) {
	if len(bookingIDs) == 0 {
		return []domain.BookingDate{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := q.DatesSQL(bookingIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	dates := make([]domain.BookingDate, 0)
	for rows.Next() {
		var d domain.BookingDate
		if err := rows.Scan(&d.BookingID, &d.BookingDate, &d.Approved, &d.TypeID); err != nil {
			return nil, fmt.Errorf("%w: ListDates - scan row: %v", ErrScanRow, err)
		}
		dates = append(dates, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDates - rows error: %v", ErrScanRow, err)
	}

	return dates, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking

		err := rows.Scan(
			&booking.ID,
			&booking.ResourceID,
			&booking.Trash,
			&booking.SyncGID,
			&booking.IsNew,
			&booking.Status,
			&booking.SortDate,
			&booking.ModificationDate,
			&booking.Form,
			&booking.Remark,
			&booking.Cost,
			&booking.PayStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
