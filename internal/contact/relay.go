// Package contact validates Contact page messages and hands them to the queue that
// delivers them to the site owner's Telegram chat.
package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"proptrackrr/web/internal/models"
	"proptrackrr/web/internal/queue"
	"proptrackrr/web/internal/validation"
)

const (
	SentMessage = "Thanks for reaching out! We'll get back to you soon."
	BusyMessage = "We're receiving a lot of messages right now. Please try again in a minute."

	deliveryTimeout = 15 * time.Second
)

var ErrBusy = errors.New("contact queue is full")

// Notifier delivers a message to the site owner
type Notifier interface {
	Enabled() bool
	NotifyContactMessage(ctx context.Context, msg models.ContactMessage) error
}

type Relay struct {
	queue    *queue.MessageQueue
	notifier Notifier
	logger   *logrus.Logger
	now      func() time.Time
}

// NewRelay subscribes the notifier to q. The caller starts and closes the queue.
func NewRelay(q *queue.MessageQueue, notifier Notifier, logger *logrus.Logger) *Relay {
	if logger == nil {
		logger = logrus.New()
	}
	r := &Relay{queue: q, notifier: notifier, logger: logger, now: time.Now}
	q.Subscribe(r.deliver)
	return r
}

// Submit validates msg and queues it for delivery
func (r *Relay) Submit(msg models.ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)
	if err := validation.Struct(msg); err != nil {
		return err
	}
	msg.ReceivedAt = r.now()

	if err := r.queue.Push(msg); err != nil {
		if errors.Is(err, queue.ErrQueueFull) {
			return fmt.Errorf("%w: %w", ErrBusy, err)
		}
		return fmt.Errorf("failed to queue contact message: %w", err)
	}
	return nil
}

func (r *Relay) deliver(msg models.ContactMessage) error {
	if r.notifier == nil || !r.notifier.Enabled() {
		r.logger.WithFields(logrus.Fields{
			"name":  msg.Name,
			"email": msg.Email,
		}).Info("Contact message received, Telegram relay disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()
	if err := r.notifier.NotifyContactMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to relay contact message from %s: %w", msg.Email, err)
	}
	r.logger.WithField("email", msg.Email).Info("Contact message relayed")
	return nil
}
