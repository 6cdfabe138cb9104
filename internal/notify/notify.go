// Package notify publishes score and verification events to Kafka so
// downstream consumers (report builders, chat alerting) can react without
// coupling to the pipeline.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"trustlens/internal/scoring"
	"trustlens/internal/verify"
)

// Publisher is the outbound event surface. Publishing is fire-and-forget:
// delivery problems are logged and never fail the pipeline.
type Publisher interface {
	ScoreComputed(ctx context.Context, snap *scoring.Snapshot)
	VerificationCompleted(ctx context.Context, firmID string, result *verify.Result)
	Close()
}

// event is the wire envelope shared by all notification kinds.
type event struct {
	Type       string    `json:"type"`
	FirmID     string    `json:"firm_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// KafkaPublisher produces JSON events keyed by firm ID.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
	clock  func() time.Time
}

// NewKafkaPublisher connects to the given brokers. The topic is the single
// notification stream; consumers filter on the event type field.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, fmt.Errorf("kafka brokers and topic are required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaPublisher{client: client, topic: topic, logger: logger, clock: time.Now}, nil
}

func (p *KafkaPublisher) ScoreComputed(ctx context.Context, snap *scoring.Snapshot) {
	p.publish(ctx, "score_computed", snap.FirmID, snap)
}

func (p *KafkaPublisher) VerificationCompleted(ctx context.Context, firmID string, result *verify.Result) {
	p.publish(ctx, "verification_completed", firmID, result)
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType, firmID string, payload any) {
	body, err := json.Marshal(event{
		Type:       eventType,
		FirmID:     firmID,
		OccurredAt: p.clock(),
		Payload:    payload,
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "encode notification failed", "type", eventType, "error", err)
		return
	}

	record := &kgo.Record{Key: []byte(firmID), Value: body}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.ErrorContext(ctx, "notification delivery failed",
				"type", eventType,
				"firm_id", firmID,
				"topic", p.topic,
				"error", err,
			)
		}
	})
}

// Close flushes buffered records before releasing the client.
func (p *KafkaPublisher) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.client.Flush(ctx); err != nil {
		p.logger.Error("kafka flush on close failed", "error", err)
	}
	p.client.Close()
}

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) ScoreComputed(context.Context, *scoring.Snapshot)              {}
func (NoopPublisher) VerificationCompleted(context.Context, string, *verify.Result) {}
func (NoopPublisher) Close()                                                        {}
