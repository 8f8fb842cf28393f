package domain

import (
	"strconv"
	"strings"
)

// DateFilterCode is a symbolic date-range intent of the listing
type DateFilterCode int

const (
	DateFilterDefaultFuture DateFilterCode = iota // current and future dates
	DateFilterToday
	DateFilterPrevious
	DateFilterAll
	DateFilterNext
	DateFilterPrior
	DateFilterCheckInSoon
	DateFilterCheckOutSoon
	DateFilterTodayEither
	DateFilterFixedRange
)

var dateFilterNames = map[DateFilterCode]string{
	DateFilterDefaultFuture: "DEFAULT_FUTURE",
	DateFilterToday:         "TODAY",
	DateFilterPrevious:      "PREVIOUS",
	DateFilterAll:           "ALL",
	DateFilterNext:          "NEXT",
	DateFilterPrior:         "PRIOR",
	DateFilterCheckInSoon:   "CHECK_IN_SOON",
	DateFilterCheckOutSoon:  "CHECK_OUT_SOON",
	DateFilterTodayEither:   "TODAY_EITHER",
	DateFilterFixedRange:    "FIXED_RANGE",
}

// legacy numeric codes sent by the booking listing UI
var legacyDateFilterCodes = map[string]DateFilterCode{
	"":  DateFilterDefaultFuture,
	"0": DateFilterDefaultFuture,
	"1": DateFilterToday,
	"2": DateFilterPrevious,
	"3": DateFilterAll,
	"4": DateFilterNext,
	"5": DateFilterPrior,
	"7": DateFilterCheckInSoon,
	"8": DateFilterCheckOutSoon,
	"9": DateFilterTodayEither,
}

// AllDateFilterCodes lists the closed code set in table order
var AllDateFilterCodes = []DateFilterCode{
	DateFilterDefaultFuture,
	DateFilterToday,
	DateFilterPrevious,
	DateFilterAll,
	DateFilterNext,
	DateFilterPrior,
	DateFilterCheckInSoon,
	DateFilterCheckOutSoon,
	DateFilterTodayEither,
	DateFilterFixedRange,
}

func (c DateFilterCode) String() string {
	if name, ok := dateFilterNames[c]; ok {
		return name
	}
	return "FIXED_RANGE"
}

// ParseDateFilterCode recognizes symbolic names and legacy numeric codes.
// ok is false when raw is not a code (it is then a date bound)
func ParseDateFilterCode(raw string) (DateFilterCode, bool) {
	trimmed := strings.TrimSpace(raw)
	if code, ok := legacyDateFilterCodes[trimmed]; ok {
		return code, true
	}
	upper := strings.ToUpper(trimmed)
	for code, name := range dateFilterNames {
		if upper == name {
			return code, true
		}
	}
	return DateFilterFixedRange, false
}

// DateFilter is a parsed date filter: a code plus up to two raw bounds.
// For NEXT and PRIOR the day count lives in To
type DateFilter struct {
	Code DateFilterCode
	From string
	To   string
}

// NewDateFilter builds a filter from the two raw request values.
// The first value is either a code or the lower bound of a fixed range.
// The FIXED_RANGE name itself carries no bound, the second value is then the upper one
func NewDateFilter(first, second string) DateFilter {
	first = strings.TrimSpace(first)
	second = strings.TrimSpace(second)

	code, ok := ParseDateFilterCode(first)
	if !ok {
		return DateFilter{Code: DateFilterFixedRange, From: first, To: second}
	}
	return DateFilter{Code: code, To: second}
}

// TrashState filters bookings by the trash flag
type TrashState string

const (
	TrashAny    TrashState = ""
	TrashOnly   TrashState = "trash"
	TrashActive TrashState = "active"
)

// ParseTrashState accepts legacy values ("1", "0", "any") and names
func ParseTrashState(raw string) TrashState {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "trash":
		return TrashOnly
	case "0", "active":
		return TrashActive
	default:
		return TrashAny
	}
}

// SyncOrigin filters bookings by where they were created
type SyncOrigin string

const (
	SyncAny      SyncOrigin = ""
	SyncImported SyncOrigin = "imported"
	SyncNative   SyncOrigin = "native"
)

// ParseSyncOrigin accepts "imported", "native" (or legacy "plugin"); anything else means any
func ParseSyncOrigin(raw string) SyncOrigin {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "imported":
		return SyncImported
	case "native", "plugin":
		return SyncNative
	default:
		return SyncAny
	}
}

// Pay status groups understood by the pay status hook
const (
	PayStatusAll     = "all"
	PayStatusOK      = "group_ok"
	PayStatusPending = "group_pending"
	PayStatusFailed  = "group_failed"
	PayStatusUnknown = "group_unknown"
)

// PayStatusGroups maps a group to the stored pay_status values it covers
var PayStatusGroups = map[string][]string{
	PayStatusOK:      {"OK", "Completed", "success", "Paid"},
	PayStatusPending: {"Pending", "Processed", "In-Progress", "Not_Completed"},
	PayStatusFailed:  {"Failed", "Denied", "Expired", "Canceled", "Reversed", "Fail"},
}

// SortKeys is the sort whitelist: key -> booking table column
var SortKeys = map[string]string{
	"booking_id":        "booking_id",
	"booking_type":      "booking_type",
	"cost":              "cost",
	"sort_date":         "sort_date",
	"modification_date": "modification_date",
}

// DefaultSortKey is used for empty or unknown sort keys
const DefaultSortKey = "booking_id"

// SortAscSuffix requests ascending order
const SortAscSuffix = "_asc"

// ListingFilter is the immutable set of listing filters built once per request
type ListingFilter struct {
	BookingID         string // raw: "<N", ">N", "1,2,3" or "N"
	BookingType       string // "lost" or csv resource ids
	Approved          *bool
	Trash             TrashState
	Sync              SyncOrigin
	BookingDates      DateFilter
	ModificationDates DateFilter
	Keyword           string
	PayStatus         string
	CostMin           string
	CostMax           string
	Sort              string
	Page              int
	PageSize          int
}

// HasBookingID returns true if an explicit booking id filter is set
func (f ListingFilter) HasBookingID() bool {
	return strings.TrimSpace(f.BookingID) != ""
}

// IsLost returns true if the listing asks for bookings without a registered resource
func (f ListingFilter) IsLost() bool {
	return strings.EqualFold(strings.TrimSpace(f.BookingType), BookingTypeLost)
}

// ResourceIDs returns the resource ids of the booking type filter (none for "lost")
func (f ListingFilter) ResourceIDs() []int64 {
	if f.IsLost() || strings.TrimSpace(f.BookingType) == "" {
		return nil
	}
	ids := make([]int64, 0)
	for _, part := range strings.Split(f.BookingType, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		if id := CoerceInt(part); id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// NormalizedPage returns the 1-based page and page size with defaults applied
func (f ListingFilter) NormalizedPage() (page int, size int) {
	page = f.Page
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	size = f.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// CoerceInt truncates a raw value to its leading integer ("12abc" -> 12, "abc" -> 0)
func CoerceInt(raw string) int64 {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// IsInteger returns true if raw is an optional sign followed by digits only
func IsInteger(raw string) bool {
	s := strings.TrimSpace(raw)
	if s == "" {
		return false
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}
