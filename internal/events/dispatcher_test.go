package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string

	d.Subscribe(EventDemandCreated, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventDemandCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.DemandaID)
		return nil
	})
	d.Subscribe(EventDocumentUpdated, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventDemandCreated, "d1", nil, DemandCreatedPayload{Orgao: "PC"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, []string{"first", "second:d1"}, calls)
}

func TestDispatcherCatchAllAndPanics(t *testing.T) {
	d := NewInMemoryDispatcher()
	var seen []EventType

	d.Subscribe(EventDocumentCreated, func(context.Context, Event) error {
		panic("bad handler")
	})
	d.SubscribeAll(func(_ context.Context, e Event) error {
		seen = append(seen, e.Type)
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventDocumentCreated, "d1", nil, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler panic: bad handler")

	require.NoError(t, d.Publish(context.Background(), NewEvent(EventDemandAssigned, "d1", nil, nil)))
	assert.Equal(t, []EventType{EventDocumentCreated, EventDemandAssigned}, seen)
}

func TestNewEventStampsIdentity(t *testing.T) {
	a := NewEvent(EventDemandAssigned, "d1", nil, nil)
	b := NewEvent(EventDemandAssigned, "d1", nil, nil)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Timestamp.IsZero())
}
