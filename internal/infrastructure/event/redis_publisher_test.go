package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/inventory/backend/internal/domain/inventory"
	"github.com/inventory/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturingAudit struct {
	records []*inventory.EventRecord
	err     error
}

func (a *capturingAudit) Append(_ context.Context, record *inventory.EventRecord) error {
	if a.err != nil {
		return a.err
	}
	a.records = append(a.records, record)
	return nil
}

func newTestPublisher(t *testing.T) (*RedisEventPublisher, *redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisEventPublisher(client, "", zap.NewNop()), client, mr
}

func TestPublishEnvelope(t *testing.T) {
	pub, client, _ := newTestPublisher(t)
	ctx := context.Background()

	sub := client.Subscribe(ctx, DefaultChannel)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	envelope := shared.NewEventEnvelope("reservation_created", map[string]any{
		"order_id": "ORD-1",
		"quantity": 5,
	})
	require.NoError(t, pub.Publish(ctx, envelope))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var got shared.EventEnvelope
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, "reservation_created", got.EventType)
	assert.Equal(t, "inventory_service", got.Source)
	assert.Equal(t, "1.0", got.Version)
	assert.Equal(t, "ORD-1", got.Payload["order_id"])
	assert.WithinDuration(t, time.Now().UTC(), got.Timestamp, time.Minute)
}

func TestPublishAppendsAudit(t *testing.T) {
	pub, _, _ := newTestPublisher(t)
	audit := &capturingAudit{}
	pub.SetAuditRepository(audit)

	envelope := shared.NewEventEnvelope("stock_updated", map[string]any{"delta": -3})
	require.NoError(t, pub.Publish(context.Background(), envelope))

	require.Len(t, audit.records, 1)
	assert.Equal(t, "stock_updated", audit.records[0].EventType)
	assert.Equal(t, "inventory_service", audit.records[0].Source)
}

func TestPublishSurvivesAuditFailure(t *testing.T) {
	pub, _, _ := newTestPublisher(t)
	pub.SetAuditRepository(&capturingAudit{err: assert.AnError})

	envelope := shared.NewEventEnvelope("reservation_cancelled", map[string]any{})
	assert.NoError(t, pub.Publish(context.Background(), envelope))
}

func TestPublishBrokerDown(t *testing.T) {
	pub, _, mr := newTestPublisher(t)
	mr.Close()

	envelope := shared.NewEventEnvelope("reservation_expired", map[string]any{})
	err := pub.Publish(context.Background(), envelope)
	assert.Error(t, err)
}
