package service

import (
	"context"
	"errors"
	"fmt"

	"chai-adda-pos/internal/model"
	"chai-adda-pos/internal/repository"
	"chai-adda-pos/internal/ws"
	"chai-adda-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryService interface {
	ListProducts(ctx context.Context, storeID uuid.UUID) ([]model.Product, error)
	CreateProduct(ctx context.Context, storeID uuid.UUID, req *ProductRequest, actor string) (*model.Product, error)
	UpdateProduct(ctx context.Context, storeID, id uuid.UUID, req *ProductRequest, actor string) (*model.Product, error)

	ListRawMaterials(ctx context.Context, storeID uuid.UUID) ([]model.RawMaterial, error)
	CreateRawMaterial(ctx context.Context, storeID uuid.UUID, req *RawMaterialRequest, actor string) (*model.RawMaterial, error)
	UpdateRawMaterialStatus(ctx context.Context, storeID, id uuid.UUID, status model.StockStatus, actor string) (*model.RawMaterial, error)
	RenameRawMaterial(ctx context.Context, storeID, id uuid.UUID, name, actor string) (*model.RawMaterial, error)
	DeleteRawMaterial(ctx context.Context, storeID, id uuid.UUID, actor string) error
}

type ProductRequest struct {
	Name     string          `json:"name" validate:"required,max=255"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock" validate:"min=0"`
	MinStock int             `json:"minStock" validate:"min=0"`
	IsActive *bool           `json:"isActive"`
}

func (r *ProductRequest) validate() error {
	if msg := validator.FirstError(r); msg != "" {
		return newValidationError(msg)
	}
	if r.Price.IsNegative() {
		return newValidationError("price must not be negative")
	}
	return nil
}

type RawMaterialRequest struct {
	Name   string            `json:"name" validate:"required,max=255"`
	Status model.StockStatus `json:"status" validate:"omitempty,oneof=AVAILABLE LOW OUT"`
}

type inventoryService struct {
	productRepo  repository.ProductRepository
	materialRepo repository.RawMaterialRepository
	reportRepo   repository.ReportRepository
	events       EventPublisher
}

func NewInventoryService(pRepo repository.ProductRepository, mRepo repository.RawMaterialRepository, rRepo repository.ReportRepository, events EventPublisher) InventoryService {
	return &inventoryService{
		productRepo:  pRepo,
		materialRepo: mRepo,
		reportRepo:   rRepo,
		events:       publisherOrNop(events),
	}
}

func (s *inventoryService) ListProducts(ctx context.Context, storeID uuid.UUID) ([]model.Product, error) {
	return s.reportRepo.ListProducts(ctx, storeID, nil)
}

func (s *inventoryService) CreateProduct(ctx context.Context, storeID uuid.UUID, req *ProductRequest, actor string) (*model.Product, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:     req.Name,
		Price:    req.Price,
		Stock:    req.Stock,
		MinStock: req.MinStock,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	product.StoreID = storeID
	product.CreatedBy = actor
	product.UpdatedBy = actor

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.events.Publish(storeID, ws.Event{
		Type:    "stock_update",
		Action:  "product_created",
		Data:    productPayload(product),
		Message: fmt.Sprintf("%s created product '%s'", actor, product.Name),
	})
	return product, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, storeID, id uuid.UUID, req *ProductRequest, actor string) (*model.Product, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, storeID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	oldStock := product.Stock
	product.Name = req.Name
	product.Price = req.Price
	product.Stock = req.Stock
	product.MinStock = req.MinStock
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	product.UpdatedBy = actor

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	payload := productPayload(product)
	payload["oldStock"] = oldStock
	s.events.Publish(storeID, ws.Event{
		Type:    "stock_update",
		Action:  "product_updated",
		Data:    payload,
		Message: fmt.Sprintf("%s updated product '%s'", actor, product.Name),
	})
	return product, nil
}

func productPayload(p *model.Product) map[string]interface{} {
	return map[string]interface{}{
		"id":     p.ID,
		"name":   p.Name,
		"stock":  p.Stock,
		"status": p.Status(),
		"price":  p.Price,
	}
}

func (s *inventoryService) ListRawMaterials(ctx context.Context, storeID uuid.UUID) ([]model.RawMaterial, error) {
	return s.reportRepo.ListRawMaterials(ctx, storeID)
}

func (s *inventoryService) CreateRawMaterial(ctx context.Context, storeID uuid.UUID, req *RawMaterialRequest, actor string) (*model.RawMaterial, error) {
	if msg := validator.FirstError(req); msg != "" {
		return nil, newValidationError(msg)
	}

	material := &model.RawMaterial{Name: req.Name, Status: req.Status}
	if material.Status == "" {
		material.Status = model.StockAvailable
	}
	material.StoreID = storeID
	material.CreatedBy = actor
	material.UpdatedBy = actor

	if err := s.materialRepo.Create(ctx, material); err != nil {
		return nil, fmt.Errorf("create raw material: %w", err)
	}
	s.publishMaterial(storeID, "raw_material_created", material, actor)
	return material, nil
}

func (s *inventoryService) UpdateRawMaterialStatus(ctx context.Context, storeID, id uuid.UUID, status model.StockStatus, actor string) (*model.RawMaterial, error) {
	if !model.ValidStockStatus(status) {
		return nil, ErrInvalidStockStatus
	}

	material, err := s.findMaterial(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	material.Status = status
	material.UpdatedBy = actor

	if err := s.materialRepo.Update(ctx, material); err != nil {
		return nil, fmt.Errorf("update raw material: %w", err)
	}
	s.publishMaterial(storeID, "raw_material_status", material, actor)
	return material, nil
}

func (s *inventoryService) RenameRawMaterial(ctx context.Context, storeID, id uuid.UUID, name, actor string) (*model.RawMaterial, error) {
	req := RawMaterialRequest{Name: name}
	if msg := validator.FirstError(&req); msg != "" {
		return nil, newValidationError(msg)
	}

	material, err := s.findMaterial(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	material.Name = name
	material.UpdatedBy = actor

	if err := s.materialRepo.Update(ctx, material); err != nil {
		return nil, fmt.Errorf("rename raw material: %w", err)
	}
	s.publishMaterial(storeID, "raw_material_updated", material, actor)
	return material, nil
}

func (s *inventoryService) DeleteRawMaterial(ctx context.Context, storeID, id uuid.UUID, actor string) error {
	if err := s.materialRepo.Delete(ctx, storeID, id, actor); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRawMaterialNotFound
		}
		return fmt.Errorf("delete raw material: %w", err)
	}
	s.events.Publish(storeID, ws.Event{
		Type:   "stock_update",
		Action: "raw_material_deleted",
		Data:   map[string]interface{}{"id": id},
	})
	return nil
}

func (s *inventoryService) findMaterial(ctx context.Context, storeID, id uuid.UUID) (*model.RawMaterial, error) {
	material, err := s.materialRepo.FindByID(ctx, storeID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRawMaterialNotFound
		}
		return nil, err
	}
	return material, nil
}

func (s *inventoryService) publishMaterial(storeID uuid.UUID, action string, m *model.RawMaterial, actor string) {
	s.events.Publish(storeID, ws.Event{
		Type:   "stock_update",
		Action: action,
		Data: map[string]interface{}{
			"id":     m.ID,
			"name":   m.Name,
			"status": m.Status,
		},
		Message: fmt.Sprintf("%s marked '%s' as %s", actor, m.Name, m.Status),
	})
}
