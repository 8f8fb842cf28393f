package domain

// Separator tokens of the short days notation
const (
	TokenDash  = "-"
	TokenComma = ","
)

// ShortDayToken is one element of the short days notation: a formatted date,
// a dash (run) or a comma (gap), paired with the type id of its date row
type ShortDayToken struct {
	Value  string
	TypeID string
}

// IsSeparator returns true for dash and comma tokens
func (t ShortDayToken) IsSeparator() bool {
	return t.Value == TokenDash || t.Value == TokenComma
}

// ShortDays is the per-booking output consumed by the presentation layer
type ShortDays struct {
	Values  []string
	TypeIDs []string
}

// NewShortDays splits tokens into the parallel value and type id arrays
func NewShortDays(tokens []ShortDayToken) ShortDays {
	out := ShortDays{
		Values:  make([]string, 0, len(tokens)),
		TypeIDs: make([]string, 0, len(tokens)),
	}
	for _, t := range tokens {
		out.Values = append(out.Values, t.Value)
		out.TypeIDs = append(out.TypeIDs, t.TypeID)
	}
	return out
}
