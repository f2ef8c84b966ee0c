// Package realtime exposes live document-store queries as snapshot streams.
// A binding attaches a change feed to a single document or a query, reloads
// on every notification and re-publishes the latest snapshot on a conflated
// channel: a slow consumer only ever sees the most recent value.
package realtime

import (
	"context"

	"go.uber.org/zap"
)

// Snapshot is a point-in-time value delivered by a live binding. Loading is
// true only until the first notification, success or failure.
type Snapshot[T any] struct {
	Data    T
	Loading bool
}

// Feed is a stream of change notifications for a watched document or query.
type Feed interface {
	// Next blocks until another change arrives. It returns false when the
	// feed ends, whether closed or failed; Err distinguishes the two.
	Next(ctx context.Context) bool
	Err() error
	Close(ctx context.Context) error
}

// CollectionSource loads the current result set of a query and watches it
// for changes.
type CollectionSource[T any] interface {
	Load(ctx context.Context) ([]T, error)
	Watch(ctx context.Context) (Feed, error)
}

// DocumentSource loads a single document and watches it for changes. A nil
// result with a nil error means the document does not exist.
type DocumentSource[T any] interface {
	Load(ctx context.Context) (*T, error)
	Watch(ctx context.Context) (Feed, error)
}

// Binding is a live subscription handle. Snapshots delivers the latest
// value; Close releases the underlying listener and is safe to call more
// than once.
type Binding[T any] struct {
	ch     chan Snapshot[T]
	cancel context.CancelFunc
	done   chan struct{}
	log    *zap.Logger
}

// Snapshots returns the conflated snapshot channel. It is never closed; use
// Done to observe the end of the subscription.
func (b *Binding[T]) Snapshots() <-chan Snapshot[T] {
	return b.ch
}

// Done is closed once the binding has released its listener.
func (b *Binding[T]) Done() <-chan struct{} {
	return b.done
}

// Close releases the listener. Idempotent.
func (b *Binding[T]) Close() {
	b.cancel()
	<-b.done
}

// publish replaces any unconsumed snapshot with the newest one.
func (b *Binding[T]) publish(s Snapshot[T]) {
	for {
		select {
		case b.ch <- s:
			return
		default:
			select {
			case <-b.ch:
			default:
			}
		}
	}
}

func newBinding[T any](log *zap.Logger) (*Binding[T], context.Context) {
	ctx, cancel := context.WithCancel(context.Background())
	return &Binding[T]{
		ch:     make(chan Snapshot[T], 1),
		cancel: cancel,
		done:   make(chan struct{}),
		log:    log,
	}, ctx
}

// BindCollection attaches a live listener to src. Subscribers first see a
// loading snapshot, replaced once the initial load settles. A nil src
// immediately yields a nil, non-loading snapshot and attaches nothing; this
// covers callers whose query inputs are not resolved yet.
func BindCollection[T any](src CollectionSource[T], log *zap.Logger) *Binding[[]T] {
	b, ctx := newBinding[[]T](log)
	if src == nil {
		b.publish(Snapshot[[]T]{Data: nil, Loading: false})
		close(b.done)
		return b
	}
	b.publish(Snapshot[[]T]{Loading: true})
	go runBinding(ctx, b, src.Watch, func(loadCtx context.Context) ([]T, error) {
		return src.Load(loadCtx)
	})
	return b
}

// BindDocument is BindCollection for a single document reference. A missing
// document yields a nil snapshot value.
func BindDocument[T any](src DocumentSource[T], log *zap.Logger) *Binding[*T] {
	b, ctx := newBinding[*T](log)
	if src == nil {
		b.publish(Snapshot[*T]{Data: nil, Loading: false})
		close(b.done)
		return b
	}
	b.publish(Snapshot[*T]{Loading: true})
	go runBinding(ctx, b, src.Watch, src.Load)
	return b
}

func runBinding[T any](
	ctx context.Context,
	b *Binding[T],
	watch func(context.Context) (Feed, error),
	load func(context.Context) (T, error),
) {
	defer close(b.done)

	var last T

	feed, err := watch(ctx)
	if err != nil {
		b.log.Error("failed to attach change feed", zap.Error(err))
		b.publish(Snapshot[T]{Data: last, Loading: false})
		return
	}
	defer feed.Close(context.Background())

	if data, err := load(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		b.log.Error("snapshot load failed", zap.Error(err))
		b.publish(Snapshot[T]{Data: last, Loading: false})
	} else {
		last = data
		b.publish(Snapshot[T]{Data: last, Loading: false})
	}

	for feed.Next(ctx) {
		data, err := load(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// Stale data is retained; the next notification retries.
			b.log.Error("snapshot reload failed", zap.Error(err))
			continue
		}
		last = data
		b.publish(Snapshot[T]{Data: last, Loading: false})
	}

	if err := feed.Err(); err != nil && ctx.Err() == nil {
		b.log.Error("change feed terminated", zap.Error(err))
	}
}
