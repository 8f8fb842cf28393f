package datefilter

import "errors"

var (
	// ErrInvalidDayCount возвращается, когда количество дней для NEXT/PRIOR не является числом
	ErrInvalidDayCount = errors.New("datefilter: invalid day count")

	// ErrInvalidBound возвращается, когда граница диапазона не является датой
	ErrInvalidBound = errors.New("datefilter: invalid range bound")

	// ErrUnsupportedCode возвращается для кода, которого нет в таблице компилятора
	ErrUnsupportedCode = errors.New("datefilter: code is not supported for this column")
)
