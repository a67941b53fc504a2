package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nbakri/tmregistry/internal/registry/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// MockKafkaWriter implements KafkaWriter for testing
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func testEvent() AuditEvent {
	return AuditEvent{
		Action:    models.ActivityCreate,
		ModelName: "اشهار",
		ObjectID:  7,
		Number:    "12",
		Actor:     "clerk",
		At:        time.Now(),
	}
}

func TestProducer_Produce(t *testing.T) {
	t.Run("successful produce", func(t *testing.T) {
		producer := &Producer{
			events:    make(chan AuditEvent, 10),
			logger:    zaptest.NewLogger(t),
			closeChan: make(chan struct{}),
		}

		producer.Produce(testEvent())

		assert.Equal(t, 1, len(producer.events))
	})

	t.Run("dropped event when queue full", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		producer := &Producer{
			events:    make(chan AuditEvent, 1),
			logger:    zap.New(core),
			closeChan: make(chan struct{}),
		}

		// Fill the channel
		producer.Produce(testEvent())
		producer.Produce(testEvent()) // This should be dropped

		assert.Equal(t, 1, recorded.FilterMessage("audit queue full, dropping event").Len())
	})
}

func TestProducer_SendEvent(t *testing.T) {
	t.Run("successful send", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)

		producer := &Producer{writer: mockWriter, logger: zaptest.NewLogger(t)}
		event := testEvent()
		producer.sendEvent(context.Background(), event)

		value, err := jsonMarshal(event)
		assert.NoError(t, err)
		mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, []kafka.Message{
			{
				Key:   []byte(event.ModelName),
				Value: value,
			},
		})
	})

	t.Run("serialization error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		mockWriter := new(MockKafkaWriter)
		producer := &Producer{writer: mockWriter, logger: zap.New(core)}

		oldMarshal := jsonMarshal
		jsonMarshal = func(_ interface{}) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		defer func() { jsonMarshal = oldMarshal }()

		producer.sendEvent(context.Background(), testEvent())

		assert.Equal(t, 1, recorded.FilterMessage("Failed to serialize audit event").Len())
		mockWriter.AssertNotCalled(t, "WriteMessages")
	})

	t.Run("write error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down"))

		producer := &Producer{writer: mockWriter, logger: zap.New(core)}
		producer.sendEvent(context.Background(), testEvent())

		assert.Equal(t, 1, recorded.FilterMessage("Failed to produce audit event").Len())
	})
}

func TestProducer_Close(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("Close").Return(nil)

	producer := &Producer{
		writer:    mockWriter,
		events:    make(chan AuditEvent, 1),
		logger:    zaptest.NewLogger(t),
		closeChan: make(chan struct{}),
	}
	go producer.eventLoop()

	producer.Close()
	mockWriter.AssertCalled(t, "Close")
}
