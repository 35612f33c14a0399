package notify

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultSendTimeout = 10 * time.Second

// Dispatcher queues confirmation messages and delivers them on a background
// worker. Dispatch never blocks and delivery outcomes never reach the caller;
// a slow or failing sender can only ever cost log lines.
type Dispatcher struct {
	sender Sender
	logger *logrus.Logger

	queue chan Message
	wg    sync.WaitGroup
	once  sync.Once

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher builds a dispatcher with the given queue size. The worker is
// not running until Start is called.
func NewDispatcher(sender Sender, queueSize int, logger *logrus.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher{
		sender: sender,
		logger: logger,
		queue:  make(chan Message, queueSize),
	}
}

// Start launches the delivery worker.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.run()
}

// Dispatch enqueues a message for delivery. When the queue is full, or the
// dispatcher has shut down, the message is dropped with a warning;
// confirmation delivery is best effort. The read lock is held across the
// channel send so Shutdown cannot close the queue underneath it.
func (d *Dispatcher) Dispatch(msg Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.WithFields(logrus.Fields{
			"to":    msg.RecipientEmail,
			"event": msg.EventTitle,
		}).Warn("dispatcher stopped, dropping confirmation")
		return
	}

	select {
	case d.queue <- msg:
	default:
		d.logger.WithFields(logrus.Fields{
			"to":    msg.RecipientEmail,
			"event": msg.EventTitle,
		}).Warn("notification queue full, dropping confirmation")
	}
}

// Shutdown stops accepting messages and waits for in-flight deliveries.
func (d *Dispatcher) Shutdown() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()
		close(d.queue)
	})
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), defaultSendTimeout)
		if err := d.sender.Send(ctx, msg); err != nil {
			d.logger.WithError(err).WithFields(logrus.Fields{
				"to":    msg.RecipientEmail,
				"event": msg.EventTitle,
			}).Warn("send confirmation")
		}
		cancel()
	}
}
