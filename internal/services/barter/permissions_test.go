package barter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/swaply/barter-api/internal/models"
)

func TestChangeAllowedBy(t *testing.T) {
	tests := []struct {
		name        string
		target      models.BarterStatus
		isOwner     bool
		isRequester bool
		want        bool
	}{
		{"owner accepts", models.BarterAccepted, true, false, true},
		{"requester accepts own offer", models.BarterAccepted, false, true, false},
		{"owner rejects", models.BarterRejected, true, false, true},
		{"requester rejects", models.BarterRejected, false, true, false},
		{"owner completes", models.BarterCompleted, true, false, true},
		{"requester completes", models.BarterCompleted, false, true, true},
		{"outsider completes", models.BarterCompleted, false, false, false},
		{"outsider accepts", models.BarterAccepted, false, false, false},
		{"nobody reverts to inquiry", models.BarterInquiry, true, true, false},
		{"nobody reverts to pending", models.BarterPending, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, changeAllowedBy(tt.target, tt.isOwner, tt.isRequester))
		})
	}
}
