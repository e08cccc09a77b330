package writequeue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/shelf/pkg/constants"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/logging"
)

// Stats counts queue outcomes.
type Stats struct {
	Enqueued  int64
	Delivered int64
	Dropped   int64
}

// Queue delivers actions through a Writer on one background worker.
type Queue struct {
	writer   Writer
	notifier Notifier
	logger   *zerolog.Logger
	timeout  time.Duration

	mu     sync.RWMutex
	closed bool
	ch     chan Action

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	enqueued  atomic.Int64
	delivered atomic.Int64
	dropped   atomic.Int64
}

// Option configures a Queue.
type Option func(*Queue)

// WithSize sets the number of actions that may wait for delivery.
func WithSize(size int) Option {
	return func(q *Queue) {
		if size > 0 {
			q.ch = make(chan Action, size)
		}
	}
}

// WithNotifier sets the receiver of drop notifications.
func WithNotifier(n Notifier) Option {
	return func(q *Queue) {
		q.notifier = n
	}
}

// WithLogger sets the queue logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// WithTimeout bounds each delivery attempt.
func WithTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// New starts a queue delivering through w.
func New(w Writer, opts ...Option) *Queue {
	q := &Queue{
		writer:  w,
		logger:  logging.Default(),
		timeout: constants.RemoteWriteTimeout,
		ch:      make(chan Action, constants.DefaultQueueSize),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.ctx, q.cancel = context.WithCancel(context.Background())

	go q.run()
	return q
}

// Enqueue hands an action to the worker and returns immediately. It reports
// whether the action was accepted; a full or closed queue drops the action
// and raises a notification instead.
func (q *Queue) Enqueue(action Action) bool {
	q.mu.RLock()
	closed, accepted := q.closed, false
	if !closed {
		select {
		case q.ch <- action:
			accepted = true
		default:
		}
	}
	q.mu.RUnlock()

	switch {
	case closed:
		q.drop(action, errors.ErrClosed)
	case !accepted:
		q.drop(action, errQueueFull)
	default:
		q.enqueued.Add(1)
	}
	return accepted
}

var errQueueFull = errors.New("queue full")

// Close stops accepting actions and waits for queued ones to be attempted.
// If ctx ends first, in-flight writes are cancelled and ctx.Err is returned.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.cancel()
		<-q.done
		return ctx.Err()
	}
}

// Stats returns a snapshot of the queue counters.
func (q *Queue) Stats() Stats {
	return Stats{
		Enqueued:  q.enqueued.Load(),
		Delivered: q.delivered.Load(),
		Dropped:   q.dropped.Load(),
	}
}

func (q *Queue) run() {
	defer close(q.done)
	for action := range q.ch {
		if q.ctx.Err() != nil {
			q.drop(action, q.ctx.Err())
			continue
		}
		q.deliver(action)
	}
}

func (q *Queue) deliver(action Action) {
	ctx, cancel := context.WithTimeout(q.ctx, q.timeout)
	defer cancel()

	if err := q.writer.Write(ctx, action); err != nil {
		q.drop(action, err)
		return
	}
	q.delivered.Add(1)
	q.logger.Debug().
		Str("action", string(action.Kind)).
		Str("item_id", string(action.ItemID)).
		Str("action_id", action.ID).
		Msg("Remote write delivered")
}

// drop records a failed action and notifies. The action is not retried.
func (q *Queue) drop(action Action, cause error) {
	q.dropped.Add(1)
	err := &errors.RemoteWriteFailureError{
		Action:   string(action.Kind),
		ItemID:   string(action.ItemID),
		ActionID: action.ID,
		Err:      cause,
	}
	q.logger.Warn().Err(err).
		Str("action_id", action.ID).
		Msg("Remote write dropped")
	if q.notifier != nil {
		q.notifier(Notification{Action: action, Err: err, At: time.Now().UTC()})
	}
}
