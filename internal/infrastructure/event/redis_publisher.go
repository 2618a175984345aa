package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/inventory/backend/internal/domain/inventory"
	"github.com/inventory/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultChannel is the pub/sub channel all inventory events go to
const DefaultChannel = "inventory_events"

// RedisEventPublisher publishes envelopes to a Redis pub/sub channel.
// Publication is best effort; subscribers that need a complete history
// reconcile against the inventory_events audit table instead.
type RedisEventPublisher struct {
	client  *redis.Client
	channel string
	audit   inventory.EventRecordRepository
	logger  *zap.Logger
}

// NewRedisEventPublisher creates a publisher on the given client and channel.
// An empty channel selects DefaultChannel.
func NewRedisEventPublisher(client *redis.Client, channel string, logger *zap.Logger) *RedisEventPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisEventPublisher{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

// SetAuditRepository attaches the append-only audit store. Optional; audit
// failures never fail a publish.
func (p *RedisEventPublisher) SetAuditRepository(audit inventory.EventRecordRepository) {
	p.audit = audit
}

// Publish serializes the envelope and PUBLISHes it. The audit row is
// appended outside any business transaction.
func (p *RedisEventPublisher) Publish(ctx context.Context, envelope shared.EventEnvelope) error {
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", envelope.EventType, err)
	}

	p.appendAudit(ctx, envelope, data)

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish event %s: %w", envelope.EventType, err)
	}

	p.logger.Debug("event published",
		zap.String("channel", p.channel),
		zap.String("event_type", envelope.EventType),
	)
	return nil
}

func (p *RedisEventPublisher) appendAudit(ctx context.Context, envelope shared.EventEnvelope, data []byte) {
	if p.audit == nil {
		return
	}
	payload, err := json.Marshal(envelope.Payload)
	if err != nil {
		payload = data
	}
	record := &inventory.EventRecord{
		BaseEntity:  shared.NewBaseEntity(),
		EventType:   envelope.EventType,
		Payload:     payload,
		Source:      envelope.Source,
		Version:     envelope.Version,
		PublishedAt: time.Now().UTC(),
	}
	if err := p.audit.Append(ctx, record); err != nil {
		p.logger.Warn("event audit append failed",
			zap.String("event_type", envelope.EventType),
			zap.Error(err),
		)
	}
}

var _ shared.EventPublisher = (*RedisEventPublisher)(nil)
