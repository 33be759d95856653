package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"chai-adda-pos/internal/model"
	"chai-adda-pos/internal/ws"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockReport_ReflectsRawMaterialStatusChange(t *testing.T) {
	ctx := context.Background()
	store := uuid.New()
	reportCache := newMemoryCache()
	hub := &recordingPublisher{}
	events := WithReportInvalidation(hub, reportCache, nil)

	materials := &fakeMaterialRepo{materials: map[uuid.UUID]*model.RawMaterial{}}
	products := &fakeProductRepo{products: map[uuid.UUID]*model.Product{}}
	reportRepo := &fakeReportRepo{}
	inventory := NewInventoryService(products, materials, reportRepo, events)
	reports := NewReportService(reportRepo, reportCache, 30*time.Second, nil)

	// reportRepo reads what materials holds, like two repositories over one table.
	syncTable := func() {
		reportRepo.materials = reportRepo.materials[:0]
		for _, m := range materials.materials {
			reportRepo.materials = append(reportRepo.materials, *m)
		}
	}

	milk, err := inventory.CreateRawMaterial(ctx, store, &RawMaterialRequest{Name: "Milk"}, "KITCHEN")
	require.NoError(t, err)
	syncTable()

	before, err := reports.BuildStockReport(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 0, before.OutOfStockItems)
	assert.Equal(t, 1, reportCache.len())

	_, err = inventory.UpdateRawMaterialStatus(ctx, store, milk.ID, model.StockOut, "KITCHEN")
	require.NoError(t, err)
	syncTable()
	assert.Equal(t, 0, reportCache.len())

	after, err := reports.BuildStockReport(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 1, after.OutOfStockItems)
	require.Len(t, after.Items, 1)
	assert.Equal(t, model.StockOut, after.Items[0].Status)

	require.Len(t, hub.events, 2, "events still reach the hub")
	assert.Equal(t, "raw_material_status", hub.events[1].Action)
}

func TestRevenueReport_ReflectsNewIncomeAfterPublish(t *testing.T) {
	ctx := context.Background()
	store := uuid.New()
	other := uuid.New()
	reportCache := newMemoryCache()
	events := WithReportInvalidation(nil, reportCache, nil)

	repo := &fakeReportRepo{transactions: []model.Transaction{
		newTx(other, uuid.New(), model.TxIncome, "40", day1),
	}}
	reports := NewReportService(repo, reportCache, 30*time.Second, nil)

	before, err := reports.BuildRevenueReport(ctx, store, weekFrom, weekTo)
	require.NoError(t, err)
	assertDecimal(t, "0", before.TotalIncome)
	_, err = reports.BuildRevenueReport(ctx, other, weekFrom, weekTo)
	require.NoError(t, err)

	repo.transactions = append(repo.transactions, newTx(store, uuid.New(), model.TxIncome, "120", day2))
	events.Publish(store, ws.Event{Type: "ledger_update", Action: "transaction_created"})

	after, err := reports.BuildRevenueReport(ctx, store, weekFrom, weekTo)
	require.NoError(t, err)
	assertDecimal(t, "120", after.TotalIncome)

	// The other store's entry survives.
	calls := repo.calls.Load()
	_, err = reports.BuildRevenueReport(ctx, other, weekFrom, weekTo)
	require.NoError(t, err)
	assert.Equal(t, calls, repo.calls.Load())
}

func TestWithReportInvalidation_ForwardsWhenCacheFails(t *testing.T) {
	broken := newMemoryCache()
	broken.err = errors.New("redis down")
	hub := &recordingPublisher{}
	store := uuid.New()

	WithReportInvalidation(hub, broken, nil).Publish(store, ws.Event{Type: "stock_update", Action: "product_updated"})

	require.Len(t, hub.events, 1)
	assert.Equal(t, store, hub.stores[0])
}

func TestWithReportInvalidation_NilCacheIsPassThrough(t *testing.T) {
	hub := &recordingPublisher{}
	assert.Same(t, EventPublisher(hub), WithReportInvalidation(hub, nil, nil))
}
