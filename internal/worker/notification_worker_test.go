package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/demand-service/internal/events"
	"github.com/spec-kit/demand-service/internal/observability"
)

func TestStartEventMetricsCountsByType(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	StartEventMetrics(dispatcher, metrics)

	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventDocumentCreated, "d1", nil, nil)))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventDocumentCreated, "d1", nil, nil)))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventDemandAssigned, "d1", nil, nil)))

	snap := metrics.Snapshot()
	assert.Equal(t, int64(2), snap.DomainCounters["document_created"])
	assert.Equal(t, int64(1), snap.DomainCounters["demand_assigned"])
}

func TestStartEventMetricsIgnoresNil(t *testing.T) {
	assert.NotPanics(t, func() {
		StartEventMetrics(nil, nil)
		StartNotificationWorker(nil)
	})
}
