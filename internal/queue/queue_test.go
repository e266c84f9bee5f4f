package queue

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"proptrackrr/web/internal/models"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewMessageQueue(t *testing.T) {
	q := NewMessageQueue(10, newTestLogger())
	assert.NotNil(t, q)
	assert.Equal(t, 10, q.maxSize)
	assert.False(t, q.IsClosed())
}

func TestMessageQueue_Push(t *testing.T) {
	q := NewMessageQueue(2, newTestLogger())

	msg := models.ContactMessage{Name: "Asha", Email: "asha@example.com", Message: "Hello there"}
	err := q.Push(msg)
	assert.NoError(t, err)
	assert.Equal(t, 1, q.Len())

	// Fill the queue
	_ = q.Push(msg)
	err = q.Push(msg)
	assert.Equal(t, ErrQueueFull, err)

	q.Close()
	err = q.Push(msg)
	assert.Equal(t, ErrQueueClosed, err)
}

func TestMessageQueue_Subscribe(t *testing.T) {
	q := NewMessageQueue(10, newTestLogger())

	var processed []models.ContactMessage
	var mu sync.Mutex

	q.Subscribe(func(msg models.ContactMessage) error {
		mu.Lock()
		processed = append(processed, msg)
		mu.Unlock()
		return nil
	})
	q.Start()

	assert.NoError(t, q.Push(models.ContactMessage{Name: "first"}))
	assert.NoError(t, q.Push(models.ContactMessage{Name: "second"}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(processed) == 2
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, "first", processed[0].Name)
	assert.Equal(t, "second", processed[1].Name)
	mu.Unlock()
	q.Close()
}

func TestMessageQueue_HandlerErrorDoesNotStopQueue(t *testing.T) {
	q := NewMessageQueue(10, newTestLogger())

	var mu sync.Mutex
	calls := 0
	q.Subscribe(func(msg models.ContactMessage) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return errors.New("delivery failed")
	})
	q.Start()

	_ = q.Push(models.ContactMessage{Name: "a"})
	_ = q.Push(models.ContactMessage{Name: "b"})
	q.Close()

	mu.Lock()
	assert.Equal(t, 2, calls)
	mu.Unlock()
}

func TestMessageQueue_CloseDrainsPending(t *testing.T) {
	q := NewMessageQueue(10, newTestLogger())

	var mu sync.Mutex
	var names []string
	q.Subscribe(func(msg models.ContactMessage) error {
		mu.Lock()
		names = append(names, msg.Name)
		mu.Unlock()
		return nil
	})

	_ = q.Push(models.ContactMessage{Name: "a"})
	_ = q.Push(models.ContactMessage{Name: "b"})
	q.Start()
	q.Close()

	mu.Lock()
	assert.ElementsMatch(t, []string{"a", "b"}, names)
	mu.Unlock()
	assert.True(t, q.IsClosed())
	assert.NoError(t, q.Close())
}
