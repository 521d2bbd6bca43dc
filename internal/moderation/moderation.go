package moderation

import (
	"context"
	"log/slog"
	"sync"
)

// Report is a moderation flag lifted off the request path. Handling a
// report never blocks the reporting user's request.
type Report struct {
	AlertID       uint64
	CommunityID   uint64
	ReporterID    uint64
	ReporterEmail string
	Description   string
}

// Handler processes a single report, typically by logging it and
// notifying the community admin.
type Handler func(ctx context.Context, report Report) error

// Notifier fans moderation reports out to a fixed pool of workers.
type Notifier struct {
	numWorkers int
	reports    chan Report
	handler    Handler
	wg         sync.WaitGroup
}

// NewNotifier creates a Notifier with the given worker count and
// queue depth.
func NewNotifier(numWorkers, bufferSize int, handler Handler) *Notifier {
	return &Notifier{
		numWorkers: numWorkers,
		reports:    make(chan Report, bufferSize),
		handler:    handler,
	}
}

// Start launches the workers. They run until the context is cancelled
// or Stop closes the queue.
func (n *Notifier) Start(ctx context.Context) {
	for i := 1; i <= n.numWorkers; i++ {
		n.wg.Add(1)
		go n.worker(ctx)
	}
}

func (n *Notifier) worker(ctx context.Context) {
	defer n.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case report, ok := <-n.reports:
			if !ok {
				return
			}
			if err := n.handler(ctx, report); err != nil {
				slog.Error("moderation report handling failed",
					"alert_id", report.AlertID,
					"error", err)
			}
		}
	}
}

// Submit enqueues a report. Drops the report when the queue is full
// rather than blocking the request that filed it.
func (n *Notifier) Submit(report Report) {
	select {
	case n.reports <- report:
	default:
		slog.Warn("moderation queue full, dropping report",
			"alert_id", report.AlertID)
	}
}

// Stop closes the queue and waits for in-flight reports to finish.
func (n *Notifier) Stop() {
	close(n.reports)
	n.wg.Wait()
}

// LogHandler records the report in the application log, mirroring the
// audit line the moderation team reads.
func LogHandler() Handler {
	return func(ctx context.Context, report Report) error {
		slog.Info("alert reported for moderation review",
			"alert_id", report.AlertID,
			"community_id", report.CommunityID,
			"reporter_id", report.ReporterID,
			"reporter_email", report.ReporterEmail)
		return nil
	}
}
