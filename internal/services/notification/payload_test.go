package notification

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swaply/barter-api/internal/models"
)

func TestRecipientOf(t *testing.T) {
	requester := uuid.New()
	owner := uuid.New()

	barter := &models.BarterRequest{
		RequesterID: requester,
		OwnerID:     owner,
	}

	assert.Equal(t, owner, recipientOf(barter, requester))
	assert.Equal(t, requester, recipientOf(barter, owner))
}

func TestPushText(t *testing.T) {
	assert.Equal(t, "New message about Лего Сити", pushTitle("Лего Сити"))
	assert.Equal(t, "Anna: привет!", pushBody("Anna", "привет!"))
}

func TestMessageWebhookPayloadDecode(t *testing.T) {
	barterID := uuid.New()
	senderID := uuid.New()

	raw := `{"record":{"barter_request_id":"` + barterID.String() + `","sender_id":"` + senderID.String() + `","content":"готов обменяться"}}`

	var payload MessageWebhookPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	assert.Equal(t, barterID, payload.Record.BarterRequestID)
	assert.Equal(t, senderID, payload.Record.SenderID)
	assert.Equal(t, "готов обменяться", payload.Record.Content)
}
