package service

import (
	"context"
	"sort"
	"time"

	"chai-adda-pos/internal/cache"
	"chai-adda-pos/internal/model"
	"chai-adda-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReportService builds the read-only store summaries. Every call is scoped to
// one store and never writes.
type ReportService interface {
	BuildRevenueReport(ctx context.Context, storeID uuid.UUID, from, to time.Time) (*model.RevenueSummary, error)
	BuildOrderReport(ctx context.Context, storeID uuid.UUID, from, to time.Time) (*model.OrderSummary, error)
	BuildStockReport(ctx context.Context, storeID uuid.UUID) (*model.StockSummary, error)
}

type reportService struct {
	repo     repository.ReportRepository
	cache    cache.ReportCache
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewReportService(repo repository.ReportRepository, reportCache cache.ReportCache, cacheTTL time.Duration, log *zap.Logger) ReportService {
	if reportCache == nil {
		reportCache = cache.NoopReportCache{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &reportService{
		repo:     repo,
		cache:    reportCache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func validateWindow(storeID uuid.UUID, from, to time.Time) error {
	if storeID == uuid.Nil {
		return ErrStoreRequired
	}
	if from.After(to) {
		return ErrInvalidWindow
	}
	return nil
}

func (s *reportService) BuildRevenueReport(ctx context.Context, storeID uuid.UUID, from, to time.Time) (*model.RevenueSummary, error) {
	if err := validateWindow(storeID, from, to); err != nil {
		return nil, err
	}

	key := cache.ReportKey("revenue", storeID, from, to)
	var cached model.RevenueSummary
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	var (
		income, expense decimal.Decimal
		byAccount       []model.AccountRevenue
		incomeTxs       []model.Transaction
	)
	incomeType := model.TxIncome

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = s.repo.SumTransactions(gctx, storeID, model.TxIncome, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		expense, err = s.repo.SumTransactions(gctx, storeID, model.TxExpense, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		byAccount, err = s.repo.SumIncomeByAccount(gctx, storeID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		incomeTxs, err = s.repo.ListTransactions(gctx, storeID, repository.TransactionFilter{
			Type: &incomeType,
			From: &from,
			To:   &to,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if byAccount == nil {
		byAccount = []model.AccountRevenue{}
	}
	sort.Slice(byAccount, func(i, j int) bool {
		return byAccount[i].AccountID.String() < byAccount[j].AccountID.String()
	})

	days := GroupByUTCDate(incomeTxs,
		func(t model.Transaction) time.Time { return t.CreatedAt },
		func(t model.Transaction) decimal.Decimal { return t.Amount },
		decimal.Decimal.Add,
	)
	daily := make([]model.DailyRevenue, 0, len(days))
	for _, d := range days {
		if d.Value.IsZero() {
			continue
		}
		daily = append(daily, model.DailyRevenue{Date: d.Date, Revenue: d.Value})
	}

	summary := &model.RevenueSummary{
		TotalRevenue: income,
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income.Sub(expense),
		ByAccount:    byAccount,
		DailyRevenue: daily,
	}
	s.toCache(ctx, key, summary)
	return summary, nil
}

func (s *reportService) BuildOrderReport(ctx context.Context, storeID uuid.UUID, from, to time.Time) (*model.OrderSummary, error) {
	if err := validateWindow(storeID, from, to); err != nil {
		return nil, err
	}

	key := cache.ReportKey("orders", storeID, from, to)
	var cached model.OrderSummary
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	orders, err := s.repo.ListOrders(ctx, storeID, repository.OrderFilter{
		From:         &from,
		To:           &to,
		IncludeItems: true,
	})
	if err != nil {
		return nil, err
	}

	summary := &model.OrderSummary{
		TotalOrders:       len(orders),
		AverageOrderValue: decimal.Zero,
		TopItems:          make(map[string]int),
	}

	completedTotal := decimal.Zero
	for _, o := range orders {
		switch o.Status {
		case model.OrderCompleted:
			summary.CompletedOrders++
			completedTotal = completedTotal.Add(o.Total)
		case model.OrderCancelled:
			summary.CancelledOrders++
		}
		// Cancelled orders still count toward item quantities.
		for _, item := range o.Items {
			summary.TopItems[item.ProductID.String()] += item.Quantity
		}
	}
	if summary.CompletedOrders > 0 {
		summary.AverageOrderValue = completedTotal.Div(decimal.NewFromInt(int64(summary.CompletedOrders)))
	}

	days := GroupByUTCDate(orders,
		func(o model.Order) time.Time { return o.CreatedAt },
		func(model.Order) int { return 1 },
		func(a, b int) int { return a + b },
	)
	summary.RecentTrends = make([]model.DailyOrderCount, 0, len(days))
	for _, d := range days {
		summary.RecentTrends = append(summary.RecentTrends, model.DailyOrderCount{Date: d.Date, Count: d.Value})
	}

	s.toCache(ctx, key, summary)
	return summary, nil
}

func (s *reportService) BuildStockReport(ctx context.Context, storeID uuid.UUID) (*model.StockSummary, error) {
	if storeID == uuid.Nil {
		return nil, ErrStoreRequired
	}

	key := cache.ReportKey("stock", storeID, time.Time{}, time.Time{})
	var cached model.StockSummary
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	var (
		materials []model.RawMaterial
		products  []model.Product
	)
	active := true

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		materials, err = s.repo.ListRawMaterials(gctx, storeID)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.repo.ListProducts(gctx, storeID, &active)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]model.StockItem, 0, len(materials)+len(products))
	for _, m := range materials {
		items = append(items, model.StockItem{
			ID:     m.ID,
			Name:   m.Name,
			Status: m.Status,
			Type:   model.StockItemRawMaterial,
		})
	}
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		stock := p.Stock
		items = append(items, model.StockItem{
			ID:     p.ID,
			Name:   p.Name,
			Stock:  &stock,
			Status: p.Status(),
			Type:   model.StockItemProduct,
		})
	}

	summary := &model.StockSummary{
		TotalItems: len(items),
		Items:      items,
	}
	for _, item := range items {
		switch item.Status {
		case model.StockLow:
			summary.LowStockItems++
		case model.StockOut:
			summary.OutOfStockItems++
		}
	}

	s.toCache(ctx, key, summary)
	return summary, nil
}

// fromCache treats cache errors as misses.
func (s *reportService) fromCache(ctx context.Context, key string, dest any) bool {
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.log.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}

func (s *reportService) toCache(ctx context.Context, key string, value any) {
	if s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.log.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}
