package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventshare/eventshare-api/internal/models"
)

func TestNewEventResponseEmbedsRelationsWithoutBackReferences(t *testing.T) {
	capacity := 80
	event := models.Event{
		ID:                1,
		Name:              "Workshop Go",
		Date:              time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		StartTime:         "09:00",
		EndTime:           "11:00",
		CategoryID:        2,
		SpaceID:           3,
		StatusID:          4,
		CreatorUserID:     5,
		ResponsibleUserID: 6,
		Category:          &models.Category{ID: 2, Name: "Tech"},
		Space:             &models.Space{ID: 3, Name: "Auditorio", Capacity: &capacity},
		Status:            &models.Status{ID: 4, Name: "Confirmado"},
		CreatorUser:       &models.User{ID: 5, Name: "Ana", Email: "ana@example.com"},
		ResponsibleUser:   &models.User{ID: 6, Name: "Bruno", Email: "bruno@example.com"},
	}

	raw, err := json.Marshal(NewEventResponse(event))
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "2024-05-10", payload["date"])
	for _, key := range []string{"category", "space", "status", "creator_user", "responsible_user"} {
		nested, ok := payload[key].(map[string]interface{})
		require.True(t, ok, key)
		assert.NotContains(t, nested, "events", key)
		assert.NotContains(t, nested, "created_events", key)
	}
	assert.Equal(t, float64(80), payload["space"].(map[string]interface{})["capacity"])
}

func TestNewEventResponseOmitsUnloadedRelations(t *testing.T) {
	raw, err := json.Marshal(NewEventResponse(models.Event{ID: 9, Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "category\"")
	assert.NotContains(t, string(raw), "creator_user\"")
	assert.NotContains(t, string(raw), "image")
}

func TestNewEventResponsesEmpty(t *testing.T) {
	out := NewEventResponses(nil)
	require.NotNil(t, out)
	assert.Empty(t, out)
}
