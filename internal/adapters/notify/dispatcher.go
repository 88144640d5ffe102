package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"hostelhub/internal/adapters/observability"
	"hostelhub/internal/domain"
)

type message struct {
	to   string
	body string
}

// Dispatcher decouples notification delivery from the booking path: the
// caller enqueues and moves on, a single worker drains the queue. Send
// failures are logged and counted, never surfaced. When the queue is full
// the message is dropped rather than blocking the caller.
type Dispatcher struct {
	sender  domain.Notifier
	queue   chan message
	timeout time.Duration

	stop sync.Once
	done chan struct{}
}

func NewDispatcher(sender domain.Notifier, buffer int, sendTimeout time.Duration) *Dispatcher {
	if buffer <= 0 {
		buffer = 128
	}
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	d := &Dispatcher{
		sender:  sender,
		queue:   make(chan message, buffer),
		timeout: sendTimeout,
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// Enqueue never blocks.
func (d *Dispatcher) Enqueue(to, body string) {
	select {
	case d.queue <- message{to: to, body: body}:
	default:
		observability.ObserveNotification("dropped")
		log.Warn().Str("to", to).Msg("notification queue full, message dropped")
	}
}

// Close stops accepting work and waits for queued messages to drain.
func (d *Dispatcher) Close() {
	d.stop.Do(func() { close(d.queue) })
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for m := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := d.sender.Send(ctx, m.to, m.body)
		cancel()
		if err != nil {
			observability.ObserveNotification("failed")
			log.Warn().Err(err).Str("to", m.to).Msg("notification send failed")
			continue
		}
		observability.ObserveNotification("sent")
	}
}
