package eventpublisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorbook/dealerledger/internal/domain"
	"github.com/motorbook/dealerledger/internal/usecase"
)

func TestProcessEventsPublishesAndMarks(t *testing.T) {
	repo := &fakeOutboxRepo{
		events: []*domain.OutboxEvent{
			{ID: "evt-1", EventType: domain.EventTypeSettlementApplied, AggregateID: "veh-1"},
		},
	}
	sink := &fakeSink{}
	ep := newTestPublisher(repo, sink)

	require.NoError(t, ep.processEvents(context.Background()))

	require.Len(t, sink.published, 1)
	assert.Equal(t, "evt-1", sink.published[0].ID)
	assert.Equal(t, []string{"evt-1"}, repo.marked)
}

func TestProcessEventsSkipsFailedEvent(t *testing.T) {
	repo := &fakeOutboxRepo{
		events: []*domain.OutboxEvent{
			{ID: "evt-1", EventType: domain.EventTypeSaleRecorded},
			{ID: "evt-2", EventType: domain.EventTypeSettlementApplied},
		},
	}
	sink := &fakeSink{
		failures: map[string]error{"evt-1": errors.New("broker unavailable")},
	}
	ep := newTestPublisher(repo, sink)

	require.NoError(t, ep.processEvents(context.Background()))

	require.Len(t, sink.published, 1)
	assert.Equal(t, "evt-2", sink.published[0].ID)
	assert.Equal(t, []string{"evt-2"}, repo.marked, "failed event must stay unpublished")
}

func TestProcessEventsRespectsBatchSize(t *testing.T) {
	repo := &fakeOutboxRepo{
		events: []*domain.OutboxEvent{
			{ID: "evt-1", EventType: domain.EventTypeSaleRecorded},
			{ID: "evt-2", EventType: domain.EventTypeSettlementApplied},
			{ID: "evt-3", EventType: domain.EventTypeSettlementReversed},
		},
	}
	sink := &fakeSink{}
	ep := newTestPublisher(repo, sink)
	ep.batchSize = 2

	require.NoError(t, ep.processEvents(context.Background()))

	assert.Len(t, sink.published, 2)
}

func TestStartStopsOnContextCancellation(t *testing.T) {
	ep := newTestPublisher(&fakeOutboxRepo{}, &fakeSink{})
	ep.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ep.Start(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop after cancel")
	}
}

func newTestPublisher(repo *fakeOutboxRepo, sink *fakeSink) *EventPublisher {
	logger := zerolog.Nop()
	return NewEventPublisher(Config{
		OutboxRepo: repo,
		Publisher:  sink,
		Logger:     &logger,
		BatchSize:  10,
		Interval:   5 * time.Millisecond,
	})
}

type fakeOutboxRepo struct {
	events []*domain.OutboxEvent
	marked []string
}

func (f *fakeOutboxRepo) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	return nil
}

func (f *fakeOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if len(f.events) > limit {
		return append([]*domain.OutboxEvent(nil), f.events[:limit]...), nil
	}
	return append([]*domain.OutboxEvent(nil), f.events...), nil
}

func (f *fakeOutboxRepo) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	f.marked = append(f.marked, id)
	return nil
}

func (f *fakeOutboxRepo) DeletePublished(ctx context.Context, before time.Time) error {
	return nil
}

type fakeSink struct {
	published []*domain.OutboxEvent
	failures  map[string]error
}

func (f *fakeSink) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	if err := f.failures[event.ID]; err != nil {
		return err
	}
	f.published = append(f.published, event)
	return nil
}
