package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grievance/internal/domain"
)

type published struct {
	target domain.Target
	env    domain.Envelope
}

type fakePublisher struct {
	mu    sync.Mutex
	got   []published
	err   error
	block chan struct{}
}

func (f *fakePublisher) Publish(ctx context.Context, target domain.Target, env domain.Envelope) error {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.got = append(f.got, published{target: target, env: env})
	return nil
}

func (f *fakePublisher) snapshot() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.got...)
}

type countingObserver struct {
	mu        sync.Mutex
	published int
	dropped   int
	failed    int
}

func (o *countingObserver) NotificationPublished(string) { o.mu.Lock(); o.published++; o.mu.Unlock() }
func (o *countingObserver) NotificationDropped(string)   { o.mu.Lock(); o.dropped++; o.mu.Unlock() }
func (o *countingObserver) NotificationFailed(string)    { o.mu.Lock(); o.failed++; o.mu.Unlock() }

func (o *countingObserver) counts() (int, int, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.published, o.dropped, o.failed
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
}

func statusEvent(id uuid.UUID, s domain.Status) domain.Event {
	return domain.Event{
		Name:        domain.EventComplaintStatusUpdate,
		ComplaintID: id,
		Target:      domain.UserTarget("U1"),
		Payload:     domain.StatusUpdatePayload{ComplaintID: id, Status: s, UserID: "U1"},
	}
}

func TestDispatcher_PreservesPerComplaintOrder(t *testing.T) {
	pub := &fakePublisher{}
	obs := &countingObserver{}
	d := NewDispatcher(pub, 4, 64, quietLogger(), obs)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = d.Run(ctx)
		close(done)
	}()

	a, b := uuid.New(), uuid.New()
	sequence := []domain.Status{domain.StatusProcessing, domain.StatusReview, domain.StatusResolved, domain.StatusClosed}
	for _, s := range sequence {
		d.Emit(statusEvent(a, s))
		d.Emit(statusEvent(b, s))
	}

	require.Eventually(t, func() bool { return len(pub.snapshot()) == 2*len(sequence) }, 2*time.Second, 10*time.Millisecond)
	cancel()
	<-done

	perComplaint := map[uuid.UUID][]domain.Status{}
	for _, p := range pub.snapshot() {
		payload := p.env.Payload.(domain.StatusUpdatePayload)
		perComplaint[payload.ComplaintID] = append(perComplaint[payload.ComplaintID], payload.Status)
		assert.Equal(t, domain.EventComplaintStatusUpdate, p.env.Event)
		assert.False(t, p.env.EmittedAt.IsZero())
	}
	assert.Equal(t, sequence, perComplaint[a])
	assert.Equal(t, sequence, perComplaint[b])

	published, dropped, failed := obs.counts()
	assert.Equal(t, 2*len(sequence), published)
	assert.Zero(t, dropped)
	assert.Zero(t, failed)
}

func TestDispatcher_EmitNeverBlocks(t *testing.T) {
	pub := &fakePublisher{block: make(chan struct{})}
	obs := &countingObserver{}
	d := NewDispatcher(pub, 1, 2, quietLogger(), obs)

	// no Run: nothing consumes, so the buffer fills and the rest is dropped
	id := uuid.New()
	finished := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Emit(statusEvent(id, domain.StatusProcessing))
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked")
	}

	_, dropped, _ := obs.counts()
	assert.Equal(t, 8, dropped)
}

func TestDispatcher_PublishFailureIsCounted(t *testing.T) {
	pub := &fakePublisher{err: errors.New("redis down")}
	obs := &countingObserver{}
	d := NewDispatcher(pub, 2, 8, quietLogger(), obs)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = d.Run(ctx)
		close(done)
	}()

	d.Emit(statusEvent(uuid.New(), domain.StatusResolved))

	require.Eventually(t, func() bool {
		_, _, failed := obs.counts()
		return failed == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestDispatcher_DrainsQueuedEventsOnShutdown(t *testing.T) {
	pub := &fakePublisher{}
	d := NewDispatcher(pub, 1, 16, quietLogger(), nil)

	id := uuid.New()
	for i := 0; i < 5; i++ {
		d.Emit(statusEvent(id, domain.StatusProcessing))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, d.Run(ctx))

	assert.Len(t, pub.snapshot(), 5)
}

func TestDispatcher_ShardIsStablePerComplaint(t *testing.T) {
	d := NewDispatcher(&fakePublisher{}, 8, 1, quietLogger(), nil)
	id := uuid.New()

	first := d.shardFor(domain.Event{ComplaintID: id})
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.shardFor(domain.Event{ComplaintID: id}))
	}
}
