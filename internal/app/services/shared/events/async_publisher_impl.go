package events

import (
	"context"
	"errors"
	"fhirstarter-service/internal/app/contracts"
	"fhirstarter-service/internal/pkg/constvars"
	"fhirstarter-service/internal/pkg/dto/requests"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	publishTimeout        = 5 * time.Second
	defaultEventQueueSize = 256
)

var (
	ErrEventQueueFull   = errors.New("form event queue is full")
	ErrPublisherStopped = errors.New("form event publisher is stopped")
)

// AsyncPublisher queues form events and hands them to the wrapped publisher
// from a single goroutine, so Publish never waits on the broker. Events are
// delivered in the order they were queued.
type AsyncPublisher struct {
	Publisher contracts.FormEventPublisher
	Log       *zap.Logger

	mu      sync.RWMutex
	stopped bool
	queue   chan *requests.FormEvent
	done    chan struct{}
}

func NewAsyncPublisher(publisher contracts.FormEventPublisher, queueSize int, logger *zap.Logger) *AsyncPublisher {
	if queueSize <= 0 {
		queueSize = defaultEventQueueSize
	}
	return &AsyncPublisher{
		Publisher: publisher,
		Log:       logger,
		queue:     make(chan *requests.FormEvent, queueSize),
		done:      make(chan struct{}),
	}
}

func (p *AsyncPublisher) Start() {
	go p.run()
}

// Publish queues the event without blocking. A full queue drops the event.
func (p *AsyncPublisher) Publish(ctx context.Context, event *requests.FormEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPublisherStopped
	}

	select {
	case p.queue <- event:
		return nil
	default:
		return ErrEventQueueFull
	}
}

// Stop closes the queue and waits until the queued events are delivered or
// ctx is done.
func (p *AsyncPublisher) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for event := range p.queue {
		p.deliver(event)
	}
}

func (p *AsyncPublisher) deliver(event *requests.FormEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err := p.Publisher.Publish(ctx, event)
	if err != nil {
		p.Log.Warn("asyncPublisher failed to deliver form event",
			zap.String(constvars.LoggingSessionIDKey, event.SessionID),
			zap.String(constvars.LoggingEventTypeKey, event.Type),
			zap.Error(err),
		)
	}
}
