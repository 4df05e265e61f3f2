// Package kafka publishes audit events to a Kafka topic. Operations-category
// events can be sampled down, and a circuit breaker diverts events to a local
// fallback store while the brokers are unhealthy so decisions never block on
// the audit path.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	audit "clubdir/pkg/platform/audit"
	"clubdir/pkg/platform/circuit"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const defaultTopic = "clubdir.audit"

// Publisher produces audit events to Kafka.
type Publisher struct {
	client   *kgo.Client
	topic    string
	breaker  *circuit.Breaker
	fallback audit.Store
	sampler  *Sampler
	logger   *slog.Logger

	partitions int16
	replicas   int16
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithTopic overrides the default audit topic.
func WithTopic(topic string) Option {
	return func(p *Publisher) {
		if topic != "" {
			p.topic = topic
		}
	}
}

// WithFallbackStore sets a local store that receives events while the
// circuit is open. Without one, events emitted during an outage are dropped.
func WithFallbackStore(store audit.Store) Option {
	return func(p *Publisher) {
		p.fallback = store
	}
}

// WithSampler enables sampling for operations-category events. Security
// events are never sampled.
func WithSampler(sampler *Sampler) Option {
	return func(p *Publisher) {
		p.sampler = sampler
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithTopicSpec sets partition and replication counts used by EnsureTopic.
func WithTopicSpec(partitions, replicas int16) Option {
	return func(p *Publisher) {
		if partitions > 0 {
			p.partitions = partitions
		}
		if replicas > 0 {
			p.replicas = replicas
		}
	}
}

// New connects to the given brokers and returns a publisher.
func New(brokers []string, opts ...Option) (*Publisher, error) {
	p := &Publisher{
		topic:      defaultTopic,
		breaker:    circuit.New("audit-kafka", circuit.WithFailureThreshold(5)),
		logger:     slog.Default(),
		partitions: 3,
		replicas:   1,
	}
	for _, opt := range opts {
		opt(p)
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(p.topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	p.client = client
	return p, nil
}

// EnsureTopic creates the audit topic if it does not exist yet.
func (p *Publisher) EnsureTopic(ctx context.Context) error {
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopic(ctx, int32(p.partitions), p.replicas, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create audit topic: %w", err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create audit topic %s: %w", p.topic, resp.Err)
	}
	return nil
}

// Emit produces the event. The produce is asynchronous; broker outcomes feed
// the circuit breaker so sustained failures stop hitting Kafka entirely.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if p.sampler != nil && event.Category == audit.CategoryOperations {
		if !p.sampler.ShouldSample(event.Action) {
			return nil
		}
	}

	if p.breaker.IsOpen() {
		return p.divert(ctx, event)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.Principal.String()),
		Value: payload,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			if _, change := p.breaker.RecordFailure(); change.Opened {
				p.logger.Warn("audit kafka circuit opened", "topic", p.topic, "error", err)
			}
			return
		}
		if _, change := p.breaker.RecordSuccess(); change.Closed {
			p.logger.Info("audit kafka circuit closed", "topic", p.topic)
		}
	})
	return nil
}

func (p *Publisher) divert(ctx context.Context, event audit.Event) error {
	if p.fallback == nil {
		p.logger.Warn("audit kafka circuit open, dropping event", "action", event.Action)
		return nil
	}
	if err := p.fallback.Append(ctx, event); err != nil {
		return fmt.Errorf("append to fallback audit store: %w", err)
	}
	return nil
}

// Flush waits for buffered records to be delivered.
func (p *Publisher) Flush(ctx context.Context) error {
	return p.client.Flush(ctx)
}

// Close flushes and releases the client.
func (p *Publisher) Close() {
	p.client.Close()
}

// ParseBrokers splits a comma-separated broker list.
func ParseBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}
