package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDateFilter(t *testing.T) {
	tests := []struct {
		name          string
		first, second string
		want          DateFilter
	}{
		{"empty is default future", "", "", DateFilter{Code: DateFilterDefaultFuture}},
		{"legacy code", "4", "10", DateFilter{Code: DateFilterNext, To: "10"}},
		{"symbolic name", " prior ", "7", DateFilter{Code: DateFilterPrior, To: "7"}},
		{"date bound", "2024-01-01", "2024-01-31", DateFilter{Code: DateFilterFixedRange, From: "2024-01-01", To: "2024-01-31"}},
		{"fixed range name carries only the upper bound", "FIXED_RANGE", "2024-01-05", DateFilter{Code: DateFilterFixedRange, To: "2024-01-05"}},
		{"fixed range name in lower case", "fixed_range", "", DateFilter{Code: DateFilterFixedRange}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewDateFilter(tt.first, tt.second))
		})
	}
}

func TestNormalizedPage(t *testing.T) {
	tests := []struct {
		name           string
		page, size     int
		wantPage, want int
	}{
		{"defaults", 0, 0, 1, DefaultPageSize},
		{"size is capped", 2, 10000, 2, MaxPageSize},
		{"huge page is capped", math.MaxInt, MaxPageSize, MaxPage, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := ListingFilter{Page: tt.page, PageSize: tt.size}.NormalizedPage()
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.want, size)
		})
	}
}
