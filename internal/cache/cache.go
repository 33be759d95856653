package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReportCache stores rendered report summaries for a short time.
type ReportCache interface {
	// Get decodes the cached value for key into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Invalidate drops every cached report of storeID.
	Invalidate(ctx context.Context, storeID uuid.UUID) error
}

type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ string, _ any) (bool, error) {
	return false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ any, _ time.Duration) error {
	return nil
}

func (NoopReportCache) Invalidate(_ context.Context, _ uuid.UUID) error {
	return nil
}

// ReportKey builds the cache key of one report. The store id is always part of
// the key so cached summaries never cross stores.
func ReportKey(kind string, storeID uuid.UUID, from, to time.Time) string {
	if from.IsZero() && to.IsZero() {
		return fmt.Sprintf("report:%s:%s", kind, storeID)
	}
	return fmt.Sprintf("report:%s:%s:%d:%d", kind, storeID, from.UTC().UnixNano(), to.UTC().UnixNano())
}

// StorePattern matches every key ReportKey builds for storeID.
func StorePattern(storeID uuid.UUID) string {
	return fmt.Sprintf("report:*:%s*", storeID)
}
