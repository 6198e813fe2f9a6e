package realtime

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"umlforge/internal/models"
)

func snapshot(ids ...string) models.DiagramData {
	var classes []models.UMLClass
	for _, id := range ids {
		classes = append(classes, models.UMLClass{ID: id})
	}
	return models.DiagramData{Classes: classes}
}

func TestSaverCoalescesBursts(t *testing.T) {
	var saves atomic.Int32
	var last atomic.Value
	s := NewSaver(func(_ context.Context, d models.DiagramData) error {
		saves.Add(1)
		last.Store(d)
		return nil
	}, nil, zap.NewNop())
	s.SetWindows(30*time.Millisecond, 10*time.Millisecond)

	s.Schedule(snapshot("c1"))
	s.Schedule(snapshot("c1", "c2"))
	s.Schedule(snapshot("c1", "c2", "c3"))

	assert.Eventually(t, func() bool { return saves.Load() == 1 }, time.Second, 5*time.Millisecond)
	d, ok := last.Load().(models.DiagramData)
	require.True(t, ok)
	assert.Len(t, d.Classes, 3, "only the final snapshot of the burst is saved")
}

func TestSaverUsesCoeditWindow(t *testing.T) {
	saved := make(chan struct{}, 1)
	s := NewSaver(func(context.Context, models.DiagramData) error {
		saved <- struct{}{}
		return nil
	}, func() bool { return true }, zap.NewNop())
	s.SetWindows(10*time.Second, 20*time.Millisecond)

	s.Schedule(snapshot("c1"))

	select {
	case <-saved:
	case <-time.After(time.Second):
		t.Fatal("co-edited diagram should use the short debounce window")
	}
}

func TestSaverStopDropsPending(t *testing.T) {
	var saves atomic.Int32
	s := NewSaver(func(context.Context, models.DiagramData) error {
		saves.Add(1)
		return nil
	}, nil, zap.NewNop())
	s.SetWindows(20*time.Millisecond, 10*time.Millisecond)

	s.Schedule(snapshot("c1"))
	s.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), saves.Load())

	// Scheduling after Stop must not revive the timer.
	s.Schedule(snapshot("c2"))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), saves.Load())
}

func TestSaverFlush(t *testing.T) {
	var saves atomic.Int32
	s := NewSaver(func(context.Context, models.DiagramData) error {
		saves.Add(1)
		return nil
	}, nil, zap.NewNop())
	s.SetWindows(10*time.Second, time.Second)

	s.Schedule(snapshot("c1"))
	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, int32(1), saves.Load())

	// Nothing pending: Flush is a no-op.
	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, int32(1), saves.Load())
}
