package service

import (
	"context"
	"encoding/json"
	"path"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"chai-adda-pos/internal/cache"
	"chai-adda-pos/internal/model"
	"chai-adda-pos/internal/repository"
	"chai-adda-pos/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// fakeReportRepo answers ReportRepository reads from in-memory records with
// the same store, window and type filtering the SQL does.
type fakeReportRepo struct {
	transactions []model.Transaction
	orders       []model.Order
	products     []model.Product
	materials    []model.RawMaterial

	err   error
	calls atomic.Int32
}

var _ repository.ReportRepository = (*fakeReportRepo)(nil)

func within(at time.Time, from, to *time.Time) bool {
	if from != nil && at.Before(*from) {
		return false
	}
	if to != nil && at.After(*to) {
		return false
	}
	return true
}

func (f *fakeReportRepo) ListTransactions(_ context.Context, storeID uuid.UUID, filter repository.TransactionFilter) ([]model.Transaction, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Transaction
	for _, t := range f.transactions {
		if t.StoreID != storeID || !within(t.CreatedAt, filter.From, filter.To) {
			continue
		}
		if filter.Type != nil && t.Type != *filter.Type {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeReportRepo) SumTransactions(ctx context.Context, storeID uuid.UUID, txType model.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	txs, err := f.ListTransactions(ctx, storeID, repository.TransactionFilter{Type: &txType, From: &from, To: &to})
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, t := range txs {
		total = total.Add(t.Amount)
	}
	return total, nil
}

// SumIncomeByAccount deliberately returns accounts in map order.
func (f *fakeReportRepo) SumIncomeByAccount(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]model.AccountRevenue, error) {
	income := model.TxIncome
	txs, err := f.ListTransactions(ctx, storeID, repository.TransactionFilter{Type: &income, From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	sums := map[uuid.UUID]decimal.Decimal{}
	for _, t := range txs {
		sums[t.AccountID] = sums[t.AccountID].Add(t.Amount)
	}
	var out []model.AccountRevenue
	for id, amount := range sums {
		out = append(out, model.AccountRevenue{AccountID: id, Amount: amount})
	}
	return out, nil
}

func (f *fakeReportRepo) ListOrders(_ context.Context, storeID uuid.UUID, filter repository.OrderFilter) ([]model.Order, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Order
	for _, o := range f.orders {
		if o.StoreID != storeID || !within(o.CreatedAt, filter.From, filter.To) {
			continue
		}
		if !filter.IncludeItems {
			o.Items = nil
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeReportRepo) ListProducts(_ context.Context, storeID uuid.UUID, isActive *bool) ([]model.Product, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Product
	for _, p := range f.products {
		if p.StoreID != storeID || (isActive != nil && p.IsActive != *isActive) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeReportRepo) ListRawMaterials(_ context.Context, storeID uuid.UUID) ([]model.RawMaterial, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	var out []model.RawMaterial
	for _, m := range f.materials {
		if m.StoreID == storeID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// memoryCache is a ReportCache that round-trips values through JSON like the
// Redis implementation does.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	err     error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, storeID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	for key := range c.entries {
		if ok, _ := path.Match(cache.StorePattern(storeID), key); ok {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *memoryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.Event
	stores []uuid.UUID
}

func (p *recordingPublisher) Publish(storeID uuid.UUID, event ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stores = append(p.stores, storeID)
	p.events = append(p.events, event)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func newTx(storeID, accountID uuid.UUID, txType model.TransactionType, amount string, at time.Time) model.Transaction {
	t := model.Transaction{
		AccountID: accountID,
		Amount:    decimal.RequireFromString(amount),
		Type:      txType,
	}
	t.ID = uuid.New()
	t.StoreID = storeID
	t.CreatedAt = at
	return t
}

func newOrder(storeID uuid.UUID, status model.OrderStatus, total string, at time.Time, items ...model.OrderItem) model.Order {
	o := model.Order{
		Total:  decimal.RequireFromString(total),
		Status: status,
		Items:  items,
	}
	o.ID = uuid.New()
	o.StoreID = storeID
	o.CreatedAt = at
	return o
}

func newItem(productID uuid.UUID, qty int) model.OrderItem {
	return model.OrderItem{ProductID: productID, Quantity: qty, Price: decimal.NewFromInt(10)}
}
