package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"proptrackrr/web/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// MessageQueue is a bounded in-memory queue of contact messages consumed by one goroutine
type MessageQueue struct {
	items    chan models.ContactMessage
	done     chan struct{}
	stopped  chan struct{}
	maxSize  int
	closed   bool
	started  bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func(models.ContactMessage) error
}

// NewMessageQueue creates a queue holding at most bufferSize pending messages
func NewMessageQueue(bufferSize int, logger *logrus.Logger) *MessageQueue {
	if logger == nil {
		logger = logrus.New()
	}
	return &MessageQueue{
		items:    make(chan models.ContactMessage, bufferSize),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func(models.ContactMessage) error, 0),
	}
}

// Push enqueues a message without blocking
func (q *MessageQueue) Push(msg models.ContactMessage) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.items <- msg:
		q.logger.WithField("pending", len(q.items)).Debug("Pushed contact message to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler called for each message
func (q *MessageQueue) Subscribe(handler func(models.ContactMessage) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins processing messages
func (q *MessageQueue) Start() {
	q.mu.Lock()
	if q.started {
		q.mu.Unlock()
		return
	}
	q.started = true
	q.mu.Unlock()
	go q.process()
}

func (q *MessageQueue) process() {
	defer close(q.stopped)
	for {
		select {
		case <-q.done:
			q.drain()
			return
		case msg := <-q.items:
			q.handle(msg)
		}
	}
}

// drain delivers what was queued before Close
func (q *MessageQueue) drain() {
	for {
		select {
		case msg := <-q.items:
			q.handle(msg)
		default:
			return
		}
	}
}

func (q *MessageQueue) handle(msg models.ContactMessage) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(msg); err != nil {
			q.logger.WithError(err).Error("Handler failed to process contact message")
		}
	}
}

// Close stops accepting messages and waits for the queued ones to be handled
func (q *MessageQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	started := q.started
	close(q.done)
	q.mu.Unlock()

	if started {
		<-q.stopped
	}
	return nil
}

// Len returns the number of pending messages
func (q *MessageQueue) Len() int {
	return len(q.items)
}

func (q *MessageQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
