package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hazard-intake-service/internal/domain"
)

func TestSerializeToMessage_Created(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	event := FeedEvent{
		Type: EventHazardCreated,
		Hazard: &domain.HazardRecord{
			ID:        "doc-1",
			Text:      "дтп на мосту",
			Coords:    &domain.Coords{Lat: 43.23, Lon: 76.88},
			Danger:    domain.DangerHigh,
			Address:   "проспект Абая, Алматы",
			CreatedAt: 1700000000000,
		},
		ID: "doc-1",
		At: now,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("doc-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"type":"hazard.created"`)
	assert.Contains(t, string(msg.Value), `"coords":[43.23,76.88]`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte(EventHazardCreated), msg.Headers[0].Value)
	assert.Equal(t, "emitted_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_Deleted(t *testing.T) {
	event := FeedEvent{
		Type: EventHazardDeleted,
		ID:   "doc-2",
		At:   time.Now().UTC(),
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("doc-2"), msg.Key)
	assert.Contains(t, string(msg.Value), `"type":"hazard.deleted"`)
	assert.NotContains(t, string(msg.Value), `"hazard"`)
}

func TestSerializeToMessage_ClearedHasEmptyKey(t *testing.T) {
	msg, err := serializeToMessage(FeedEvent{Type: EventHazardsCleared, At: time.Now().UTC()})
	require.NoError(t, err)
	assert.Empty(t, msg.Key)
}
