package service

import (
	"context"
	"time"

	"chai-adda-pos/internal/cache"
	"chai-adda-pos/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher pushes live updates to the connected clients of a store.
// *ws.Hub implements it.
type EventPublisher interface {
	Publish(storeID uuid.UUID, event ws.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(uuid.UUID, ws.Event) {}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

const invalidateTimeout = 2 * time.Second

type invalidatingPublisher struct {
	next  EventPublisher
	cache cache.ReportCache
	log   *zap.Logger
}

// WithReportInvalidation drops the store's cached reports before forwarding
// each event to next. Every write path publishes, so no cached report outlives
// the write that changed it.
func WithReportInvalidation(next EventPublisher, reportCache cache.ReportCache, log *zap.Logger) EventPublisher {
	if reportCache == nil {
		return publisherOrNop(next)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &invalidatingPublisher{next: publisherOrNop(next), cache: reportCache, log: log}
}

func (p *invalidatingPublisher) Publish(storeID uuid.UUID, event ws.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
	defer cancel()
	if err := p.cache.Invalidate(ctx, storeID); err != nil {
		p.log.Warn("report cache invalidation failed",
			zap.String("store_id", storeID.String()),
			zap.String("action", event.Action),
			zap.Error(err))
	}
	p.next.Publish(storeID, event)
}
