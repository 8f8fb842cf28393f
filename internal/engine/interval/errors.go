package interval

import "errors"

var (
	// ErrUnparsable возвращается, когда выражение не соответствует грамматике INTERVAL
	ErrUnparsable = errors.New("interval: unparsable expression")

	// ErrUnknownUnit возвращается для единиц, которых нет в словаре INTERVAL
	ErrUnknownUnit = errors.New("interval: unknown unit")

	// ErrUnsupportedUnit возвращается, когда единица не выражается модификаторами date()/datetime()
	ErrUnsupportedUnit = errors.New("interval: unit is not supported by dialect")
)
