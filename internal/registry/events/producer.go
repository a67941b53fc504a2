// Package events streams the registry's audit trail to Kafka. Every
// mutating operation emits one event; delivery is asynchronous and lossy
// under backpressure, the database activity log remains the authoritative
// record.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nbakri/tmregistry/internal/registry/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

// AuditEvent mirrors one activity-log row onto the wire.
type AuditEvent struct {
	Action    models.ActivityAction `json:"action"`
	ModelName string                `json:"model_name"`
	ObjectID  uint                  `json:"object_id"`
	Number    string                `json:"number"`
	Actor     string                `json:"actor"`
	IPAddress string                `json:"ip_address"`
	At        time.Time             `json:"at"`
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer    KafkaWriter
	events    chan AuditEvent
	logger    *zap.Logger
	closeChan chan struct{}
}

func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	topicConfigs := []kafka.TopicConfig{
		{
			Topic:             topic,
			NumPartitions:     3,
			ReplicationFactor: 1,
		},
	}

	err = conn.CreateTopics(topicConfigs...)
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}
	p := &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
			Topic:    topic,
		},
		events:    make(chan AuditEvent, 1000),
		logger:    logger.Named("audit_producer"),
		closeChan: make(chan struct{}),
	}

	go p.eventLoop()
	return p, nil
}

// Produce enqueues an audit event without blocking the request path. When
// the queue is full the event is dropped and logged; the database activity
// log still has it.
func (p *Producer) Produce(event AuditEvent) {
	select {
	case p.events <- event:
	default:
		p.logger.Warn("audit queue full, dropping event",
			zap.String("action", string(event.Action)),
			zap.String("model", event.ModelName),
			zap.Uint("object_id", event.ObjectID),
		)
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event AuditEvent) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize audit event",
			zap.Error(err),
			zap.String("model", event.ModelName),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ModelName),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce audit event",
			zap.Error(err),
			zap.String("action", string(event.Action)),
			zap.String("model", event.ModelName),
		)
		return
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}
