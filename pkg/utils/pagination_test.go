package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        PaginationParams
	}{
		{"defaults", 0, -1, PaginationParams{Page: 1, Limit: 10}},
		{"passthrough", 2, 20, PaginationParams{Page: 2, Limit: 20}},
		{"capped", 1, 1000, PaginationParams{Page: 1, Limit: MaxLimit}},
		{"exact cap", 4, MaxLimit, PaginationParams{Page: 4, Limit: MaxLimit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetPaginationParams(tt.page, tt.limit))
		})
	}
}

func TestParsePaginationParams(t *testing.T) {
	assert.Equal(t, PaginationParams{Page: 3, Limit: 25}, ParsePaginationParams("3", "25"))
	assert.Equal(t, PaginationParams{Page: 1, Limit: 10}, ParsePaginationParams("abc", ""))
	assert.Equal(t, PaginationParams{Page: 1, Limit: 10}, ParsePaginationParams("-4", "0"))
}

func TestCalculateOffset(t *testing.T) {
	assert.Equal(t, 0, PaginationParams{Page: 1, Limit: 20}.CalculateOffset())
	assert.Equal(t, 40, PaginationParams{Page: 3, Limit: 20}.CalculateOffset())
	assert.Equal(t, 0, PaginationParams{Page: 0, Limit: 20}.CalculateOffset())
	assert.Equal(t, 0, PaginationParams{Page: 2, Limit: 0}.CalculateOffset())
}

func TestCalculateMeta_LastPageHoldsRemainder(t *testing.T) {
	for _, tc := range []struct {
		total     int64
		limit     int
		wantPages int
	}{
		{100, 20, 5},
		{23, 10, 3},
		{20, 10, 2},
		{1, 10, 1},
		{0, 10, 0},
	} {
		meta := CalculateMeta(tc.total, 1, tc.limit)
		assert.Equal(t, tc.wantPages, meta.TotalPages, "total=%d limit=%d", tc.total, tc.limit)
		assert.Equal(t, tc.total, meta.Total)
	}

	defaulted := CalculateMeta(15, 1, 0)
	assert.Equal(t, 10, defaulted.Limit)
	assert.Equal(t, 2, defaulted.TotalPages)
}
