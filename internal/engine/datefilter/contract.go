package datefilter

import "github.com/m04kA/SMC-BookingListing/internal/domain"

// Translator переводит выражения INTERVAL в SQL диалекта
type Translator interface {
	Translate(expr string, anchor domain.Anchor) string
	Dialect() domain.Dialect
}
