package list_bookings

import (
	"context"

	"github.com/m04kA/SMC-BookingListing/internal/domain"
	"github.com/m04kA/SMC-BookingListing/internal/infra/storage/booking"
)

// QueryBuilder собирает запрос листинга из фильтра
type QueryBuilder interface {
	Build(filter domain.ListingFilter, knownTypeIDs []int64) (*booking.ListingQuery, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Count(ctx context.Context, q *booking.ListingQuery) (int64, error)
	List(ctx context.Context, q *booking.ListingQuery) ([]*domain.Booking, error)
	ListDates(ctx context.Context, q *booking.ListingQuery, bookingIDs []int64) ([]domain.BookingDate, error)
}

// ResourceRepository интерфейс реестра ресурсов
type ResourceRepository interface {
	KnownTypeIDs(ctx context.Context) ([]int64, error)
	Titles(ctx context.Context) (map[int64]string, error)
}

// DateValidator проверяет фильтр дат в строгом режиме
type DateValidator interface {
	Validate(filter domain.DateFilter) error
}

// Compressor сворачивает даты бронирований в короткую запись
type Compressor interface {
	CompressAll(rows []domain.BookingDate) map[int64]domain.ShortDays
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
