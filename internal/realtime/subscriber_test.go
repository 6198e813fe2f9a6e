package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"umlforge/internal/models"
)

func sseWrite(w http.ResponseWriter, v interface{}) {
	raw, _ := json.Marshal(v)
	fmt.Fprintf(w, "data: %s\n\n", raw)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func TestRunFirstCloseWithoutEventsStops(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		// Close immediately without a single event.
	}))
	defer srv.Close()

	recon := NewReconciler("s1", zap.NewNop())
	sub := NewSubscriber(srv.URL, "d1", "", recon, zap.NewNop())
	sub.ReconnectBase = time.Millisecond

	err := sub.Run(context.Background())

	assert.ErrorIs(t, err, ErrDiagramNotFound)
	assert.True(t, sub.NotFound())
	assert.Equal(t, int32(1), hits.Load(), "a first-attempt immediate close must not schedule a retry")
}

func TestRunExplicit404Stops(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	sub := NewSubscriber(srv.URL, "d1", "", NewReconciler("s1", zap.NewNop()), zap.NewNop())
	sub.ReconnectBase = time.Millisecond

	err := sub.Run(context.Background())

	assert.ErrorIs(t, err, ErrDiagramNotFound)
}

func TestRunRetriesAfterSuccessfulOpenUntilBudgetSpent(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		sseWrite(w, Update{Type: UpdateTypeConnected, DiagramID: "d1"})
		// Then close, forcing a reconnect.
	}))
	defer srv.Close()

	sub := NewSubscriber(srv.URL, "d1", "", NewReconciler("s1", zap.NewNop()), zap.NewNop())
	sub.ReconnectBase = time.Millisecond
	sub.MaxAttempts = 3

	err := sub.Run(context.Background())

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, int32(3), hits.Load())
	assert.False(t, sub.NotFound())
}

func TestRunDeliversUpdatesToReconciler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sseWrite(w, Update{Type: UpdateTypeConnected, DiagramID: "d1"})
		sseWrite(w, Update{
			Type:      UpdateTypeUpdate,
			DiagramID: "d1",
			UserID:    "someone-else",
			DiagramData: &models.DiagramData{
				Classes: []models.UMLClass{{ID: "c1", Name: "User"}},
			},
		})
		<-r.Context().Done()
	}))
	defer srv.Close()

	recon := NewReconciler("s1", zap.NewNop())
	applied := make(chan models.DiagramData, 1)
	recon.OnChange(func(d models.DiagramData) { applied <- d })

	sub := NewSubscriber(srv.URL, "d1", "tok", recon, zap.NewNop())
	sub.ReconnectBase = time.Millisecond

	done := make(chan error, 1)
	go func() { done <- sub.Run(ctx) }()

	select {
	case d := <-applied:
		require.Len(t, d.Classes, 1)
		assert.Equal(t, "c1", d.Classes[0].ID)
	case <-time.After(2 * time.Second):
		t.Fatal("update never reached the reconciler")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestSetDiagramResetsRetryState(t *testing.T) {
	sub := NewSubscriber("http://localhost:0", "d1", "", NewReconciler("s1", zap.NewNop()), zap.NewNop())
	sub.notFound = true
	sub.attempts = 4
	sub.everOpened = true

	sub.SetDiagram("d2")

	assert.False(t, sub.NotFound())
	assert.Equal(t, StateDisconnected, sub.State())
	assert.Equal(t, 0, sub.attempts)
	assert.False(t, sub.everOpened)
}
