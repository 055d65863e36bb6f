package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		input string
		want  Condition
		ok    bool
	}{
		{"new", ConditionNew, true},
		{"used_like_new", ConditionLikeNew, true},
		{"used_good", ConditionGood, true},
		{"used_fair", ConditionFair, true},
		{"used", "", false},
		{"New", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseCondition(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}
