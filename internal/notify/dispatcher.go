package notify

import (
	"context"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"grievance/internal/domain"
)

const (
	publishTimeout = 2 * time.Second
	drainTimeout   = 3 * time.Second
)

type Publisher interface {
	Publish(ctx context.Context, target domain.Target, env domain.Envelope) error
}

type Observer interface {
	NotificationPublished(event string)
	NotificationDropped(event string)
	NotificationFailed(event string)
}

// Dispatcher fans complaint events out to the transport without ever
// blocking the caller. Events of one complaint always land on the same
// shard and are published in the order they were emitted.
type Dispatcher struct {
	publisher Publisher
	shards    []chan domain.Event
	logger    *slog.Logger
	observer  Observer
	now       func() time.Time
}

func NewDispatcher(publisher Publisher, shards, buffer int, logger *slog.Logger, observer Observer) *Dispatcher {
	if shards <= 0 {
		shards = 1
	}
	if buffer <= 0 {
		buffer = 1
	}

	d := &Dispatcher{
		publisher: publisher,
		shards:    make([]chan domain.Event, shards),
		logger:    logger,
		observer:  observer,
		now:       time.Now,
	}
	for i := range d.shards {
		d.shards[i] = make(chan domain.Event, buffer)
	}
	return d
}

// Emit queues ev for delivery. A full shard drops the event.
func (d *Dispatcher) Emit(ev domain.Event) {
	if ev.At.IsZero() {
		ev.At = d.now().UTC()
	}

	select {
	case d.shards[d.shardFor(ev)] <- ev:
	default:
		d.logger.Warn("notification dropped, shard full",
			slog.String("event", ev.Name),
			slog.String("complaint_id", ev.ComplaintID.String()))
		if d.observer != nil {
			d.observer.NotificationDropped(ev.Name)
		}
	}
}

func (d *Dispatcher) shardFor(ev domain.Event) int {
	h := fnv.New32a()
	_, _ = h.Write(ev.ComplaintID[:])
	return int(h.Sum32() % uint32(len(d.shards)))
}

// Run publishes until ctx is done, then flushes whatever is still queued.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info("notification dispatcher STARTED", slog.Int("shards", len(d.shards)))

	var wg sync.WaitGroup
	for i := range d.shards {
		wg.Add(1)
		go func(jobs <-chan domain.Event) {
			defer wg.Done()
			d.worker(ctx, jobs)
		}(d.shards[i])
	}
	wg.Wait()

	d.logger.Info("notification dispatcher STOPPED", slog.String("reason", ctx.Err().Error()))
	return nil
}

func (d *Dispatcher) worker(ctx context.Context, jobs <-chan domain.Event) {
	// an event already dequeued is still delivered when shutdown races it
	detached := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			d.drain(detached, jobs)
			return
		case ev := <-jobs:
			d.publish(detached, ev)
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context, jobs <-chan domain.Event) {
	ctx, cancel := context.WithTimeout(ctx, drainTimeout)
	defer cancel()

	for ctx.Err() == nil {
		select {
		case ev := <-jobs:
			d.publish(ctx, ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) publish(ctx context.Context, ev domain.Event) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	env := domain.Envelope{Event: ev.Name, Payload: ev.Payload, EmittedAt: ev.At}
	if err := d.publisher.Publish(ctx, ev.Target, env); err != nil {
		d.logger.Warn("notification publish failed",
			slog.String("event", ev.Name),
			slog.String("complaint_id", ev.ComplaintID.String()),
			slog.Any("error", err))
		if d.observer != nil {
			d.observer.NotificationFailed(ev.Name)
		}
		return
	}
	if d.observer != nil {
		d.observer.NotificationPublished(ev.Name)
	}
}
