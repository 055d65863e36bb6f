package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		limitStr   string
		offsetStr  string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "20", "0", 20, 0},
		{"custom values", "50", "40", 50, 40},
		{"negative offset clamped", "20", "-1", 20, 0},
		{"negative limit replaced", "-5", "0", 20, 0},
		{"zero limit replaced", "0", "0", 20, 0},
		{"limit over max replaced", "1000", "0", 20, 0},
		{"garbage input", "abc", "xyz", 20, 0},
		{"empty input", "", "", 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := ParsePagination(tt.limitStr, tt.offsetStr, 20, 100)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}
