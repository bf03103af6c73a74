package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type writerMock struct{ mock.Mock }

func (w *writerMock) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := w.Called(ctx, msgs)
	return args.Error(0)
}

func testNotification() ports.Notification {
	return ports.Notification{
		UserID:    kernel.NewUUID(),
		Title:     "Order Shipped",
		Message:   "Your order is on its way.",
		Category:  "order",
		ActionURL: "/orders/42",
		Metadata:  map[string]string{"status": "shipped"},
	}
}

func TestKafkaDispatcher_Notify(t *testing.T) {
	n := testNotification()
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	w := new(writerMock)
	w.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || msgs[0].Topic != "notifications" || string(msgs[0].Key) != n.UserID.String() {
			return false
		}
		var e Event
		if err := json.Unmarshal(msgs[0].Value, &e); err != nil {
			return false
		}
		return e.Title == "Order Shipped" && e.Metadata["status"] == "shipped" && e.CreatedAt.Equal(fixed)
	})).Return(nil).Once()

	d := newKafkaDispatcherWithWriter(w, "notifications")
	d.now = func() time.Time { return fixed }

	require.NoError(t, d.Notify(context.Background(), n))
	w.AssertExpectations(t)
}

func TestKafkaDispatcher_Notify_WrapsWriterError(t *testing.T) {
	w := new(writerMock)
	w.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	err := newKafkaDispatcherWithWriter(w, "notifications").Notify(context.Background(), testNotification())

	require.EqualError(t, err, "kafka publish: broker down")
}

func TestNewKafkaDispatcher(t *testing.T) {
	d := NewKafkaDispatcher([]string{"localhost:0"}, "t")
	require.NotNil(t, d)
	require.NoError(t, d.Close())
}

func TestLogDispatcher_Notify(t *testing.T) {
	var buf bytes.Buffer
	d := NewLogDispatcher(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, d.Notify(context.Background(), testNotification()))

	assert.Contains(t, buf.String(), `"title":"Order Shipped"`)
	assert.Contains(t, buf.String(), `"component":"notifications"`)
}
