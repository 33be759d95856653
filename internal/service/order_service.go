package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"chai-adda-pos/internal/model"
	"chai-adda-pos/internal/repository"
	"chai-adda-pos/internal/ws"
	"chai-adda-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderService interface {
	CreateOrder(ctx context.Context, storeID uuid.UUID, req *CreateOrderRequest, actor string) (*model.Order, error)
	CancelOrder(ctx context.Context, storeID, id uuid.UUID, actor string) (*model.Order, error)
	GetOrder(ctx context.Context, storeID, id uuid.UUID) (*model.Order, error)
	ListOrders(ctx context.Context, storeID uuid.UUID, from, to *time.Time) ([]model.Order, error)
}

type OrderLine struct {
	ProductID uuid.UUID `json:"productId" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"min=1"`
}

type CreateOrderRequest struct {
	AccountID uuid.UUID   `json:"accountId" validate:"uuid_required"`
	Items     []OrderLine `json:"items" validate:"required,min=1,dive"`
}

type orderService struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	ledgerRepo  repository.LedgerRepository
	reportRepo  repository.ReportRepository
	events      EventPublisher
}

func NewOrderService(db *gorm.DB, oRepo repository.OrderRepository, pRepo repository.ProductRepository, lRepo repository.LedgerRepository, rRepo repository.ReportRepository, events EventPublisher) OrderService {
	return &orderService{
		db:          db,
		orderRepo:   oRepo,
		productRepo: pRepo,
		ledgerRepo:  lRepo,
		reportRepo:  rRepo,
		events:      publisherOrNop(events),
	}
}

// mergeLines folds repeated products into one line and sorts by product id,
// so concurrent checkouts lock product rows in the same order.
func mergeLines(lines []OrderLine) []OrderLine {
	qty := make(map[uuid.UUID]int, len(lines))
	for _, l := range lines {
		qty[l.ProductID] += l.Quantity
	}
	merged := make([]OrderLine, 0, len(qty))
	for id, q := range qty {
		merged = append(merged, OrderLine{ProductID: id, Quantity: q})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID.String() < merged[j].ProductID.String() })
	return merged
}

func (s *orderService) CreateOrder(ctx context.Context, storeID uuid.UUID, req *CreateOrderRequest, actor string) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if msg := validator.FirstError(req); msg != "" {
		return nil, newValidationError(msg)
	}

	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.orderRepo.NextOrderNumber(tx, storeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStoreNotFound
			}
			return err
		}

		account, err := s.ledgerRepo.LockAccount(tx, storeID, req.AccountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		order = &model.Order{
			OrderNumber: number,
			Status:      model.OrderCompleted,
			AccountID:   &account.ID,
		}
		order.StoreID = storeID
		order.CreatedBy = actor
		order.UpdatedBy = actor

		for _, line := range mergeLines(req.Items) {
			product, err := s.productRepo.LockByID(tx, storeID, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}
			if !product.IsActive {
				return fmt.Errorf("%w: %s", ErrProductInactive, product.Name)
			}
			if product.Stock < line.Quantity {
				return fmt.Errorf("%w: %s has %d left", ErrInsufficientStock, product.Name, product.Stock)
			}
			if err := s.productRepo.UpdateStock(tx, product.ID, product.Stock-line.Quantity, actor); err != nil {
				return err
			}
			order.Items = append(order.Items, model.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     product.Price,
			})
		}
		order.Total = order.ItemsTotal()

		if err := s.orderRepo.Create(tx, order); err != nil {
			return err
		}

		entry := &model.Transaction{
			AccountID: account.ID,
			Amount:    order.Total,
			Type:      model.TxIncome,
			OrderID:   &order.ID,
			Note:      fmt.Sprintf("Order #%d", order.OrderNumber),
		}
		entry.StoreID = storeID
		entry.CreatedBy = actor
		if err := s.ledgerRepo.CreateTransaction(tx, entry); err != nil {
			return err
		}
		return s.ledgerRepo.AdjustBalance(tx, account.ID, order.Total, actor)
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(storeID, ws.Event{
		Type:    "order",
		Action:  "order_created",
		Data:    order,
		Message: fmt.Sprintf("Order #%d completed", order.OrderNumber),
	})
	return order, nil
}

// CancelOrder reverses a completed order: stock goes back on the shelf and a
// refund is booked as an EXPENSE against the account that took the payment.
func (s *orderService) CancelOrder(ctx context.Context, storeID, id uuid.UUID, actor string) (*model.Order, error) {
	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.orderRepo.LockByID(tx, storeID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status != model.OrderCompleted {
			return ErrOrderNotCompleted
		}

		var account *model.Account
		if order.AccountID != nil {
			account, err = s.ledgerRepo.LockAccount(tx, storeID, *order.AccountID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		lines := make([]OrderLine, 0, len(order.Items))
		for _, item := range order.Items {
			lines = append(lines, OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
		}
		for _, line := range mergeLines(lines) {
			product, err := s.productRepo.LockByID(tx, storeID, line.ProductID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Deleted products have no shelf to return stock to.
				continue
			}
			if err != nil {
				return err
			}
			if err := s.productRepo.UpdateStock(tx, product.ID, product.Stock+line.Quantity, actor); err != nil {
				return err
			}
		}

		if err := s.orderRepo.UpdateStatus(tx, order.ID, model.OrderCancelled, actor); err != nil {
			return err
		}
		order.Status = model.OrderCancelled

		if account == nil || order.Total.IsZero() {
			return nil
		}
		refund := &model.Transaction{
			AccountID: account.ID,
			Amount:    order.Total,
			Type:      model.TxExpense,
			OrderID:   &order.ID,
			Note:      fmt.Sprintf("Refund for Order #%d", order.OrderNumber),
		}
		refund.StoreID = storeID
		refund.CreatedBy = actor
		if err := s.ledgerRepo.CreateTransaction(tx, refund); err != nil {
			return err
		}
		return s.ledgerRepo.AdjustBalance(tx, account.ID, order.Total.Neg(), actor)
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(storeID, ws.Event{
		Type:    "order",
		Action:  "order_cancelled",
		Data:    map[string]interface{}{"id": order.ID, "orderNumber": order.OrderNumber},
		Message: fmt.Sprintf("Order #%d cancelled", order.OrderNumber),
	})
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, storeID, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, storeID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, storeID uuid.UUID, from, to *time.Time) ([]model.Order, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, ErrInvalidWindow
	}
	return s.reportRepo.ListOrders(ctx, storeID, repository.OrderFilter{From: from, To: to, IncludeItems: true})
}
