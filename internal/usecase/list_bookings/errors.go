package list_bookings

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных в строгом режиме
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
