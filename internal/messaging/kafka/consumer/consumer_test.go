package consumer_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go-hrms/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// scriptedReader hands out msgs in order and cancels the loop once they run out.
type scriptedReader struct {
	msgs      []kafkago.Message
	cancel    context.CancelFunc
	committed []int64
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func TestConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &scriptedReader{
		msgs: []kafkago.Message{
			{Offset: 1, Value: []byte("ok")},
			{Offset: 2, Value: []byte("poison")},
			{Offset: 3, Value: []byte("transient")},
			{Offset: 4, Value: []byte("ok")},
		},
		cancel: cancel,
	}

	var handled []int64
	consumer.Consume(ctx, reader, "test", func(_ context.Context, msg kafkago.Message) error {
		handled = append(handled, msg.Offset)
		switch string(msg.Value) {
		case "poison":
			return fmt.Errorf("%w: bad json", consumer.ErrPoison)
		case "transient":
			return errors.New("db unavailable")
		}
		return nil
	}, zap.NewNop())

	assert.Equal(t, []int64{1, 2, 3, 4}, handled)
	assert.Equal(t, []int64{1, 2, 4}, reader.committed)
}

func TestHeader(t *testing.T) {
	msg := kafkago.Message{Headers: []kafkago.Header{{Key: "event_type", Value: []byte("notification.requested")}}}
	assert.Equal(t, "notification.requested", consumer.Header(msg, "event_type"))
	assert.Equal(t, "", consumer.Header(msg, "missing"))
}
