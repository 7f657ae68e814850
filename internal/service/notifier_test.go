package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logview-backend/config"
	"logview-backend/internal/logclient"
	"logview-backend/internal/model"
)

type fakeSource struct {
	polls   atomic.Int64
	entries []model.LogEntry
	err     error
}

func (s *fakeSource) Recent(ctx context.Context, f logclient.Filters, after time.Time) ([]model.LogEntry, error) {
	s.polls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

type fakeSink struct {
	visible    int
	broadcasts []model.Toast
}

func (s *fakeSink) Broadcast(t model.Toast) { s.broadcasts = append(s.broadcasts, t) }
func (s *fakeSink) Visible() int            { return s.visible }

func notifierConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Notifier.PollInterval = 5 * time.Millisecond
	cfg.Notifier.DisplayInterval = 5 * time.Millisecond
	cfg.Notifier.MinLevel = "WARNING"
	cfg.Notifier.BufferSize = 60
	cfg.Notifier.VisibleCap = 4
	return cfg
}

func warningEntry(msg string) model.LogEntry {
	return model.LogEntry{
		Level:     model.LevelWarning,
		Timestamp: model.NewWireTime(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		Message:   msg,
	}
}

func TestNotifierUnauthorizedIsTerminal(t *testing.T) {
	source := &fakeSource{err: logclient.ErrUnauthorized}
	sink := &fakeSink{}
	n := NewNotifier(notifierConfig(), source, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx)

	select {
	case <-n.Done():
	case <-time.After(time.Second):
		t.Fatal("notifier did not reach terminal state after unauthorized poll")
	}

	// Both loops are gone: the poll count stops advancing.
	time.Sleep(20 * time.Millisecond)
	settled := source.polls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, source.polls.Load())
	assert.True(t, n.Stopped())
	assert.Empty(t, sink.broadcasts)
}

func TestNotifierNonAuthErrorIsNotTerminal(t *testing.T) {
	source := &fakeSource{err: context.DeadlineExceeded}
	sink := &fakeSink{}
	n := NewNotifier(notifierConfig(), source, sink)

	n.pollOnce(context.Background())
	n.pollOnce(context.Background())

	assert.False(t, n.Stopped())
	assert.EqualValues(t, 2, source.polls.Load())
}

func TestNotifierPollBuffersAndDisplayPops(t *testing.T) {
	source := &fakeSource{entries: []model.LogEntry{warningEntry("disk filling up")}}
	sink := &fakeSink{}
	n := NewNotifier(notifierConfig(), source, sink)

	n.pollOnce(context.Background())
	require.Equal(t, 1, n.buf.Len())

	n.displayOnce()
	require.Len(t, sink.broadcasts, 1)
	assert.Equal(t, "error", sink.broadcasts[0].Style)
	assert.Equal(t, "disk filling up", sink.broadcasts[0].Message)
	assert.Equal(t, 0, n.buf.Len())

	// Empty buffer: display is a no-op.
	n.displayOnce()
	assert.Len(t, sink.broadcasts, 1)
}

func TestNotifierBackPressureSkipsDisplay(t *testing.T) {
	source := &fakeSource{entries: []model.LogEntry{warningEntry("one"), warningEntry("two")}}
	sink := &fakeSink{visible: 4}
	n := NewNotifier(notifierConfig(), source, sink)

	n.pollOnce(context.Background())
	require.Equal(t, 2, n.buf.Len())

	// Saturated screen: pop is a no-op even with a non-empty buffer.
	n.displayOnce()
	assert.Empty(t, sink.broadcasts)
	assert.Equal(t, 2, n.buf.Len())

	sink.visible = 0
	n.displayOnce()
	assert.Len(t, sink.broadcasts, 1)
	assert.Equal(t, "one", sink.broadcasts[0].Message)
}

func TestNotifierBufferEvictsOldest(t *testing.T) {
	cfg := notifierConfig()
	cfg.Notifier.BufferSize = 2
	source := &fakeSource{entries: []model.LogEntry{
		warningEntry("a"), warningEntry("b"), warningEntry("c"),
	}}
	sink := &fakeSink{}
	n := NewNotifier(cfg, source, sink)

	n.pollOnce(context.Background())
	assert.Equal(t, 2, n.buf.Len())

	n.displayOnce()
	require.Len(t, sink.broadcasts, 1)
	assert.Equal(t, "b", sink.broadcasts[0].Message)
}

func TestToastStyleMapping(t *testing.T) {
	tests := []struct {
		level model.Level
		style string
	}{
		{model.LevelDebug, "info"},
		{model.LevelInfo, "info"},
		{model.LevelWarning, "error"},
		{model.LevelError, "error"},
		{model.LevelCritical, "error"},
	}
	for _, tt := range tests {
		entry := model.LogEntry{Level: tt.level}
		assert.Equal(t, tt.style, toastFrom(entry).Style, "level %s", tt.level)
	}
}
