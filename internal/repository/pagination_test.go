package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeListFilter(t *testing.T) {
	tests := []struct {
		name     string
		in       ListFilter
		expected ListFilter
	}{
		{name: "defaults applied", in: ListFilter{}, expected: ListFilter{Page: 1, Limit: 10}},
		{name: "negative values", in: ListFilter{Page: -3, Limit: -1}, expected: ListFilter{Page: 1, Limit: 10}},
		{name: "limit capped", in: ListFilter{Page: 2, Limit: 500}, expected: ListFilter{Page: 2, Limit: 100}},
		{name: "valid passthrough", in: ListFilter{Page: 3, Limit: 25, Search: "x", Role: "admin"}, expected: ListFilter{Page: 3, Limit: 25, Search: "x", Role: "admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeListFilter(tt.in))
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}
