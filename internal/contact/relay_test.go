package contact

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proptrackrr/web/internal/models"
	"proptrackrr/web/internal/queue"
	"proptrackrr/web/internal/validation"
)

type recordingNotifier struct {
	mu       sync.Mutex
	enabled  bool
	messages []models.ContactMessage
}

func (n *recordingNotifier) Enabled() bool { return n.enabled }

func (n *recordingNotifier) NotifyContactMessage(ctx context.Context, msg models.ContactMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func newTestRelay(size int, n Notifier) (*Relay, *queue.MessageQueue) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	q := queue.NewMessageQueue(size, logger)
	return NewRelay(q, n, logger), q
}

var valid = models.ContactMessage{Name: "Asha", Email: "asha@example.com", Message: "Please call me back."}

func TestSubmitDelivers(t *testing.T) {
	n := &recordingNotifier{enabled: true}
	relay, q := newTestRelay(4, n)
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	relay.now = func() time.Time { return fixed }
	q.Start()

	msg := valid
	msg.Name = "  Asha  "
	require.NoError(t, relay.Submit(msg))
	q.Close()

	require.Equal(t, 1, n.count())
	assert.Equal(t, "Asha", n.messages[0].Name)
	assert.Equal(t, fixed, n.messages[0].ReceivedAt)
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name  string
		msg   models.ContactMessage
		field string
	}{
		{name: "Missing name", msg: models.ContactMessage{Email: "a@b.co", Message: "Hello there"}, field: "name"},
		{name: "Bad email", msg: models.ContactMessage{Name: "Asha", Email: "nope", Message: "Hello there"}, field: "email"},
		{name: "Short message", msg: models.ContactMessage{Name: "Asha", Email: "a@b.co", Message: "hi"}, field: "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay, q := newTestRelay(4, &recordingNotifier{enabled: true})
			err := relay.Submit(tt.msg)
			require.Error(t, err)
			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
			assert.Equal(t, 0, q.Len())
		})
	}
}

func TestSubmitQueueFull(t *testing.T) {
	relay, _ := newTestRelay(1, &recordingNotifier{enabled: true})

	require.NoError(t, relay.Submit(valid))
	err := relay.Submit(valid)
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, err, queue.ErrQueueFull)
}

func TestDisabledNotifierOnlyLogs(t *testing.T) {
	n := &recordingNotifier{enabled: false}
	relay, q := newTestRelay(4, n)
	q.Start()

	require.NoError(t, relay.Submit(valid))
	q.Close()
	assert.Equal(t, 0, n.count())
}
