package dispatcher

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"tracker_service/internal/settlement"
)

const (
	DefaultWorkers   = 3
	DefaultQueueSize = 64
	MaxAttempts      = 3
	BaseRetryDelay   = 100 * time.Millisecond
)

var ErrQueueClosed = errors.New("dispatcher queue closed")

// Aggregator is the engine-side contract the pool dispatches onto.
type Aggregator interface {
	Apply(ctx context.Context, ev settlement.Event) error
}

// Pool runs aggregation off a bounded set of workers, decoupled from the
// settlement transaction. A failed event is retried with exponential backoff
// up to maxAttempts; exhausted events are logged as terminal and dropped.
type Pool struct {
	aggregator  Aggregator
	queue       chan settlement.Event
	workers     int
	maxAttempts int
	baseDelay   time.Duration

	wg      sync.WaitGroup
	senders sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

func NewPool(aggregator Aggregator, workers, queueSize, maxAttempts int, baseDelay time.Duration) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if maxAttempts <= 0 {
		maxAttempts = MaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = BaseRetryDelay
	}
	return &Pool{
		aggregator:  aggregator,
		queue:       make(chan settlement.Event, queueSize),
		workers:     workers,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

// Enqueue hands one settlement event to the pool. It blocks while the queue
// is full so settlement callers apply backpressure rather than drop facts.
// The sender registers itself before releasing the mutex; Stop waits for
// registered senders before closing the queue.
func (p *Pool) Enqueue(ev settlement.Event) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrQueueClosed
	}
	p.senders.Add(1)
	p.mu.Unlock()
	defer p.senders.Done()

	p.queue <- ev
	return nil
}

// Stop rejects new events, waits for in-flight Enqueue calls to hand off
// (workers keep draining, so a sender parked on a full queue completes),
// then closes the queue and waits for the workers to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.senders.Wait()
	close(p.queue)
	p.wg.Wait()
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-p.queue:
			if !ok {
				return
			}
			p.process(ctx, ev)
		}
	}
}

func (p *Pool) process(ctx context.Context, ev settlement.Event) {
	delay := p.baseDelay
	var err error

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		err = p.aggregator.Apply(ctx, ev)
		if err == nil {
			return
		}
		if attempt < p.maxAttempts {
			log.Printf("Aggregation attempt failed: ticket_id=%s user_id=%s attempt=%d err=%v",
				ev.TicketID, ev.UserID, attempt, err)
			time.Sleep(delay)
			delay *= 2
		}
	}

	// No durable dead-letter store; the terminal log line is the only trace.
	log.Printf("Aggregation failed permanently: ticket_id=%s user_id=%s attempts=%d err=%v",
		ev.TicketID, ev.UserID, p.maxAttempts, err)
}
