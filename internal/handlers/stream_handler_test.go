package handlers

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"umlforge/internal/models"
	"umlforge/internal/realtime"
)

func TestStreamSpeaksEventStream(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := realtime.NewHub(zap.NewNop())
	h := NewStreamHandler(nil, hub, zap.NewNop())

	router := gin.New()
	router.GET("/diagrams/:id/stream", func(c *gin.Context) {
		h.serve(c, c.Param("id"), c.Param("id"))
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/diagrams/d1/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// EventSource drops the connection unless the stream declares itself.
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))

	reader := bufio.NewReader(resp.Body)
	first, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, "data:"))
	assert.Contains(t, first, `"type":"connected"`)

	require.Equal(t, 1, hub.Listeners("d1"))
	hub.Broadcast("d1", &models.DiagramData{
		Classes: []models.UMLClass{{ID: "c1", Name: "User"}},
	}, "session-1")

	var update string
	for !strings.Contains(update, `"type":"update"`) {
		update, err = reader.ReadString('\n')
		require.NoError(t, err)
	}
	assert.Contains(t, update, `"user_id":"session-1"`)

	cancel()
	require.Eventually(t, func() bool {
		return hub.Listeners("d1") == 0
	}, time.Second, 5*time.Millisecond)
}
