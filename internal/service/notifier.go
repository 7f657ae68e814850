package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"logview-backend/config"
	"logview-backend/internal/buffer"
	"logview-backend/internal/logclient"
	"logview-backend/internal/model"
)

// ToastSink receives popped notifications and reports how many are still on
// screen.
type ToastSink interface {
	Broadcast(t model.Toast)
	Visible() int
}

// RecentLogSource supplies entries seen since the last successful poll.
type RecentLogSource interface {
	Recent(ctx context.Context, f logclient.Filters, after time.Time) ([]model.LogEntry, error)
}

// Notifier runs two independent loops over a shared bounded buffer: a poll
// loop appending recent log entries, and a display loop surfacing them as
// toasts. An unauthorized poll response cancels both loops permanently; no
// other response status does.
type Notifier struct {
	source RecentLogSource
	sink   ToastSink

	pollInterval    time.Duration
	displayInterval time.Duration
	minLevel        string
	visibleCap      int

	buf      *buffer.Ring[model.LogEntry]
	lastPoll time.Time

	done     chan struct{}
	doneOnce sync.Once
}

func NewNotifier(cfg *config.Config, source RecentLogSource, sink ToastSink) *Notifier {
	return &Notifier{
		source:          source,
		sink:            sink,
		pollInterval:    cfg.Notifier.PollInterval,
		displayInterval: cfg.Notifier.DisplayInterval,
		minLevel:        cfg.Notifier.MinLevel,
		visibleCap:      cfg.Notifier.VisibleCap,
		buf:             buffer.New[model.LogEntry](cfg.Notifier.BufferSize),
		lastPoll:        time.Now(),
		done:            make(chan struct{}),
	}
}

// Run blocks until the context is cancelled or the notifier hits its
// terminal state.
func (n *Notifier) Run(ctx context.Context) {
	log.Info().
		Dur("poll_interval", n.pollInterval).
		Dur("display_interval", n.displayInterval).
		Str("min_level", n.minLevel).
		Msg("Starting live toast notifier")

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(n.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-n.done:
				return
			case <-ticker.C:
				n.pollOnce(ctx)
			}
		}
	}()

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(n.displayInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-n.done:
				return
			case <-ticker.C:
				n.displayOnce()
			}
		}
	}()

	wg.Wait()
	log.Info().Msg("Live toast notifier stopped")
}

// Done is closed when the notifier reaches its terminal state.
func (n *Notifier) Done() <-chan struct{} {
	return n.done
}

// Stopped reports whether the terminal state has been reached.
func (n *Notifier) Stopped() bool {
	select {
	case <-n.done:
		return true
	default:
		return false
	}
}

// pollOnce queries the trailing window since the last successful poll and
// buffers the results. Unauthorized is terminal; other failures leave the
// window unchanged for the next attempt.
func (n *Notifier) pollOnce(ctx context.Context) {
	since := n.lastPoll
	entries, err := n.source.Recent(ctx, logclient.Filters{
		Level:   n.minLevel,
		Shallow: true,
	}, since)
	if err != nil {
		if errors.Is(err, logclient.ErrUnauthorized) {
			log.Warn().Msg("Notification poll unauthorized, stopping both notifier loops")
			n.terminate()
			return
		}
		log.Error().Err(err).Msg("Notification poll failed")
		return
	}

	n.lastPoll = time.Now()
	for _, entry := range entries {
		n.buf.Append(entry)
	}
	if len(entries) > 0 {
		log.Debug().Int("count", len(entries)).Msg("Buffered entries for notification display")
	}
}

// displayOnce pops the oldest buffered entry unless the screen is already
// saturated.
func (n *Notifier) displayOnce() {
	if n.sink.Visible() >= n.visibleCap {
		log.Debug().Int("visible", n.sink.Visible()).Msg("Skipping toast display, screen saturated")
		return
	}
	entry, ok := n.buf.Pop()
	if !ok {
		return
	}
	n.sink.Broadcast(toastFrom(entry))
}

func (n *Notifier) terminate() {
	n.doneOnce.Do(func() { close(n.done) })
}

func toastFrom(entry model.LogEntry) model.Toast {
	style := "info"
	if entry.Level.AtLeast(model.LevelWarning) {
		style = "error"
	}
	return model.Toast{
		Style:     style,
		Level:     entry.Level,
		Message:   entry.Message,
		ContextID: entry.ContextID,
		Time:      entry.Timestamp,
	}
}
