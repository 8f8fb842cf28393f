package list_bookings

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-BookingListing/internal/domain"
)

// Options настройки листинга
type Options struct {
	Strict          bool // отклонять некорректные фильтры вместо приведения
	DefaultPageSize int
	MaxPageSize     int
}

// UseCase use case для листинга бронирований
type UseCase struct {
	builder           QueryBuilder
	bookingRepo       BookingRepository
	resourceRepo      ResourceRepository
	bookingDates      DateValidator
	modificationDates DateValidator
	compressor        Compressor
	txManager         TransactionManager
	logger            Logger
	opts              Options
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	builder QueryBuilder,
	bookingRepo BookingRepository,
	resourceRepo ResourceRepository,
	bookingDates DateValidator,
	modificationDates DateValidator,
	compressor Compressor,
	txManager TransactionManager,
	logger Logger,
	opts Options,
) *UseCase {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = domain.DefaultPageSize
	}
	if opts.MaxPageSize <= 0 || opts.MaxPageSize > domain.MaxPageSize {
		opts.MaxPageSize = domain.MaxPageSize
	}
	return &UseCase{
		builder:           builder,
		bookingRepo:       bookingRepo,
		resourceRepo:      resourceRepo,
		bookingDates:      bookingDates,
		modificationDates: modificationDates,
		compressor:        compressor,
		txManager:         txManager,
		logger:            logger,
		opts:              opts,
	}
}

// Execute выполняет use case листинга бронирований.
// Подсчет, страница и даты читаются в одной транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	filter := req.ToDomainFilter()

	uc.logger.Info("ListBookings: booking_dates=%s, modification_dates=%s, booking_type=%q, page=%d",
		filter.BookingDates.Code, filter.ModificationDates.Code, filter.BookingType, filter.Page)

	// 1. Валидация только в строгом режиме
	if uc.opts.Strict {
		if err := uc.validateFilter(filter); err != nil {
			uc.logger.Warn("ListBookings: validation failed: %v", err)
			return nil, err
		}
	}

	// 2. Размер страницы из настроек
	filter.PageSize = uc.pageSize(filter.PageSize)
	page, size := filter.NormalizedPage()

	var (
		total    int64
		bookings []*domain.Booking
		dates    []domain.BookingDate
		titles   map[int64]string
	)

	// 3. Чтение в одном снимке
	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		// 3.1. Известные ресурсы нужны только для выборки "lost"
		var known []int64
		if filter.IsLost() && !filter.HasBookingID() {
			ids, err := uc.resourceRepo.KnownTypeIDs(txCtx)
			if err != nil {
				uc.logger.Error("ListBookings: failed to get known resources: %v", err)
				return fmt.Errorf("%w: failed to get known resources: %v", ErrInternal, err)
			}
			known = ids
		}

		// 3.2. Сборка запроса
		q, err := uc.builder.Build(filter, known)
		if err != nil {
			uc.logger.Error("ListBookings: failed to build query: %v", err)
			return fmt.Errorf("%w: failed to build query: %v", ErrInternal, err)
		}

		// 3.3. Количество и страница
		total, err = uc.bookingRepo.Count(txCtx, q)
		if err != nil {
			uc.logger.Error("ListBookings: failed to count bookings: %v", err)
			return fmt.Errorf("%w: failed to count bookings: %v", ErrInternal, err)
		}

		bookings, err = uc.bookingRepo.List(txCtx, q)
		if err != nil {
			uc.logger.Error("ListBookings: failed to list bookings: %v", err)
			return fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
		}

		// 3.4. Даты бронирований страницы
		ids := make([]int64, 0, len(bookings))
		for _, b := range bookings {
			ids = append(ids, b.ID)
		}
		dates, err = uc.bookingRepo.ListDates(txCtx, q, ids)
		if err != nil {
			uc.logger.Error("ListBookings: failed to list booking dates: %v", err)
			return fmt.Errorf("%w: failed to list booking dates: %v", ErrInternal, err)
		}

		// 3.5. Названия ресурсов
		titles, err = uc.resourceRepo.Titles(txCtx)
		if err != nil {
			uc.logger.Error("ListBookings: failed to get resource titles: %v", err)
			return fmt.Errorf("%w: failed to get resource titles: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 4. Короткая запись дат
	short := uc.compressor.CompressAll(dates)
	grouped := groupDates(dates)

	result := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		b.Dates = grouped[b.ID]
		b.Approved = allApproved(b.Dates)

		title, ok := titles[b.ResourceID]
		result = append(result, Booking{
			Booking:       b,
			ResourceTitle: title,
			Lost:          !ok,
			ShortDays:     short[b.ID],
		})
	}

	uc.logger.Info("ListBookings: total=%d, returned=%d", total, len(result))

	return &Response{
		Total:    total,
		Page:     page,
		PageSize: size,
		Bookings: result,
	}, nil
}

func (uc *UseCase) pageSize(requested int) int {
	switch {
	case requested <= 0:
		return uc.opts.DefaultPageSize
	case requested > uc.opts.MaxPageSize:
		return uc.opts.MaxPageSize
	default:
		return requested
	}
}

func groupDates(dates []domain.BookingDate) map[int64][]domain.BookingDate {
	grouped := make(map[int64][]domain.BookingDate)
	for _, d := range dates {
		grouped[d.BookingID] = append(grouped[d.BookingID], d)
	}
	return grouped
}

// allApproved бронирование подтверждено, если подтверждены все его даты
func allApproved(dates []domain.BookingDate) bool {
	if len(dates) == 0 {
		return false
	}
	for _, d := range dates {
		if !d.Approved {
			return false
		}
	}
	return true
}
