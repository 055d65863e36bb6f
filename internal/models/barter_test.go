package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBarterStatus(t *testing.T) {
	tests := []struct {
		input string
		want  BarterStatus
		ok    bool
	}{
		{"inquiry", BarterInquiry, true},
		{"pending", BarterPending, true},
		{"accepted", BarterAccepted, true},
		{"rejected", BarterRejected, true},
		{"completed", BarterCompleted, true},
		{"deleted", "", false},
		{"PENDING", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseBarterStatus(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from BarterStatus
		to   BarterStatus
		want bool
	}{
		{BarterInquiry, BarterPending, true},
		{BarterInquiry, BarterRejected, true},
		{BarterInquiry, BarterAccepted, false},
		{BarterInquiry, BarterCompleted, false},
		{BarterPending, BarterInquiry, false},
		{BarterPending, BarterAccepted, true},
		{BarterPending, BarterRejected, true},
		{BarterPending, BarterCompleted, false},
		{BarterPending, BarterPending, false},
		{BarterAccepted, BarterCompleted, true},
		{BarterAccepted, BarterRejected, false},
		{BarterAccepted, BarterPending, false},
		{BarterRejected, BarterAccepted, false},
		{BarterRejected, BarterCompleted, false},
		{BarterCompleted, BarterPending, false},
		{BarterCompleted, BarterAccepted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestChatOpen(t *testing.T) {
	assert.True(t, BarterInquiry.ChatOpen())
	assert.True(t, BarterPending.ChatOpen())
	assert.True(t, BarterAccepted.ChatOpen())
	assert.False(t, BarterRejected.ChatOpen())
	assert.False(t, BarterCompleted.ChatOpen())
}
