package notification

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sender delivers a message over one channel
type Sender interface {
	Name() string
	Send(ctx context.Context, subject, body string) error
}

// Dispatcher fans a message out to every registered sender. Delivery is
// fire-and-forget: failures are logged and never propagated, so a broken
// SMTP server cannot fail a webhook.
type Dispatcher struct {
	senders []Sender
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher over the given senders
func NewDispatcher(logger *zap.Logger, senders ...Sender) *Dispatcher {
	return &Dispatcher{
		senders: senders,
		logger:  logger,
		timeout: 15 * time.Second,
	}
}

// Notify delivers the message on all channels in the background
func (d *Dispatcher) Notify(subject, body string) {
	for _, sender := range d.senders {
		d.wg.Add(1)
		go func(s Sender) {
			defer d.wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			defer cancel()

			if err := s.Send(ctx, subject, body); err != nil {
				d.logger.Warn("Notification delivery failed",
					zap.String("channel", s.Name()),
					zap.String("subject", subject),
					zap.Error(err),
				)
				return
			}
			d.logger.Debug("Notification delivered",
				zap.String("channel", s.Name()),
				zap.String("subject", subject),
			)
		}(sender)
	}
}

// Wait blocks until all in-flight deliveries finish. Used on shutdown and
// in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
