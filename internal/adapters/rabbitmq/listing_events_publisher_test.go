package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"listings-service/internal/constants"
	"listings-service/internal/contextkeys"
	"listings-service/internal/contracts"
	"listings-service/internal/core/port"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	routingKey string
	msg        amqp.Publishing
}

type fakeProducer struct {
	published []publishedMessage
	err       error
}

func (f *fakeProducer) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, publishedMessage{routingKey: routingKey, msg: msg})
	return nil
}

func newTestPublisher(t *testing.T, producer *fakeProducer) *ListingEventsPublisher {
	t.Helper()
	reg, err := contracts.LoadRegistry()
	require.NoError(t, err)
	p, err := NewListingEventsPublisher(producer, reg)
	require.NoError(t, err)
	return p
}

func TestListingEventsPublisher_Created(t *testing.T) {
	producer := &fakeProducer{}
	p := newTestPublisher(t, producer)
	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-1")

	err := p.Publish(ctx, port.ListingEvent{
		Type:       port.ListingCreatedEvent,
		ListingID:  7,
		Name:       "Cafetería La Plaza",
		Activity:   "Hostelería",
		Sector:     "Bar / Cafetería",
		Location:   "Madrid",
		ImageSet:   true,
		OccurredAt: time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, producer.published, 1)

	got := producer.published[0]
	assert.Equal(t, constants.RoutingKeyListingCreated, got.routingKey)
	assert.Equal(t, port.ListingCreatedEvent, got.msg.Type)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, "trace-1", got.msg.Headers["x-trace-id"])
	assert.NotEmpty(t, got.msg.MessageId)

	var dto ListingEventDTO
	require.NoError(t, json.Unmarshal(got.msg.Body, &dto))
	assert.Equal(t, got.msg.MessageId, dto.EventID)
	assert.Equal(t, defaultEventVersion, dto.EventVersion)
	assert.Equal(t, int64(7), dto.ListingID)
	assert.True(t, dto.ImageSet)
}

func TestListingEventsPublisher_DeletedHasNoListingFields(t *testing.T) {
	producer := &fakeProducer{}
	p := newTestPublisher(t, producer)

	require.NoError(t, p.Publish(context.Background(), port.ListingEvent{Type: port.ListingDeletedEvent, ListingID: 3}))
	require.Len(t, producer.published, 1)
	assert.Equal(t, constants.RoutingKeyListingDeleted, producer.published[0].routingKey)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(producer.published[0].msg.Body, &raw))
	assert.NotContains(t, raw, "nombre")
}

func TestListingEventsPublisher_RejectsInvalidPayload(t *testing.T) {
	producer := &fakeProducer{}
	p := newTestPublisher(t, producer)

	// Пустое имя не проходит minLength схемы
	err := p.Publish(context.Background(), port.ListingEvent{
		Type:      port.ListingUpdatedEvent,
		ListingID: 3,
		Activity:  "Comercio",
		Sector:    "Farmacia",
		Location:  "Sevilla",
	})

	assert.Error(t, err)
	assert.Empty(t, producer.published)
}

func TestListingEventsPublisher_UnknownType(t *testing.T) {
	p := newTestPublisher(t, &fakeProducer{})
	assert.Error(t, p.Publish(context.Background(), port.ListingEvent{Type: "ListingArchivedEvent", ListingID: 1}))
}

func TestListingEventsPublisher_ProducerError(t *testing.T) {
	p := newTestPublisher(t, &fakeProducer{err: errors.New("channel closed")})

	err := p.Publish(context.Background(), port.ListingEvent{Type: port.ListingDeletedEvent, ListingID: 1})

	assert.ErrorContains(t, err, "channel closed")
}

type recordingLogger struct {
	fields port.Fields
}

func (r *recordingLogger) Debug(msg string, fields port.Fields)            { r.fields = fields }
func (r *recordingLogger) Info(msg string, fields port.Fields)             { r.fields = fields }
func (r *recordingLogger) Warn(msg string, fields port.Fields)             { r.fields = fields }
func (r *recordingLogger) Error(msg string, err error, fields port.Fields) { r.fields = fields }
func (r *recordingLogger) WithFields(port.Fields) port.LoggerPort          { return r }

func TestPkgLoggerBridge_PairsKeysAndValues(t *testing.T) {
	rec := &recordingLogger{}
	bridge := NewPkgLoggerBridge(rec)

	bridge.Info("reconnected", "attempt", 2, 42, "skipped", "dangling")

	assert.Equal(t, port.Fields{"attempt": 2}, rec.fields)
}
