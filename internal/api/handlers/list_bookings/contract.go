package list_bookings

import (
	"context"

	uc "github.com/m04kA/SMC-BookingListing/internal/usecase/list_bookings"
)

type UseCase interface {
	Execute(ctx context.Context, req *uc.Request) (*uc.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
