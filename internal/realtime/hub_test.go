package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"umlforge/internal/models"
)

func TestHubBroadcastReachesAllListeners(t *testing.T) {
	h := NewHub(zap.NewNop())
	a := h.Subscribe("d1")
	b := h.Subscribe("d1")
	other := h.Subscribe("d2")

	h.Broadcast("d1", &models.DiagramData{Classes: []models.UMLClass{{ID: "c1"}}}, "u1")

	for _, ch := range []chan []byte{a, b} {
		select {
		case raw := <-ch:
			var u Update
			require.NoError(t, json.Unmarshal(raw, &u))
			assert.Equal(t, UpdateTypeUpdate, u.Type)
			assert.Equal(t, "d1", u.DiagramID)
			assert.Equal(t, "u1", u.UserID)
			require.NotNil(t, u.DiagramData)
			assert.Len(t, u.DiagramData.Classes, 1)
		default:
			t.Fatal("listener did not receive the update")
		}
	}

	select {
	case <-other:
		t.Fatal("listener of another diagram received the update")
	default:
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub(zap.NewNop())
	ch := h.Subscribe("d1")

	h.Unsubscribe("d1", ch)

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, h.Listeners("d1"))

	// Double unsubscribe is safe.
	h.Unsubscribe("d1", ch)
}

func TestHubDropsForSlowListener(t *testing.T) {
	h := NewHub(zap.NewNop())
	ch := h.Subscribe("d1")

	for i := 0; i < listenerBuffer+5; i++ {
		h.Broadcast("d1", &models.DiagramData{}, "u1")
	}

	// The broadcaster never blocked and the buffer holds the first messages.
	assert.Len(t, ch, listenerBuffer)
	assert.Equal(t, 1, h.Listeners("d1"))
}

func TestHubLastUpdate(t *testing.T) {
	h := NewHub(zap.NewNop())
	_, ok := h.LastUpdate("d1")
	assert.False(t, ok)

	h.Broadcast("d1", &models.DiagramData{}, "")

	ts, ok := h.LastUpdate("d1")
	assert.True(t, ok)
	assert.False(t, ts.IsZero())
}
