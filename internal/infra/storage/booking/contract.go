package booking

import (
	"github.com/m04kA/SMC-BookingListing/internal/domain"
	"github.com/m04kA/SMC-BookingListing/internal/engine/datefilter"
	"github.com/m04kA/SMC-BookingListing/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// DateCompiler компилятор фильтра дат в фрагмент WHERE
type DateCompiler interface {
	Compile(filter domain.DateFilter, prefix string) datefilter.Fragment
}
