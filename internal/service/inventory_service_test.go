package service

import (
	"context"
	"testing"

	"chai-adda-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func (r *fakeProductRepo) Create(_ context.Context, p *model.Product) error {
	p.ID = uuid.New()
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, storeID, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok || p.StoreID != storeID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) LockByID(_ *gorm.DB, storeID, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), storeID, id)
}

func (r *fakeProductRepo) UpdateStock(_ *gorm.DB, id uuid.UUID, newStock int, _ string) error {
	r.products[id].Stock = newStock
	return nil
}

type fakeMaterialRepo struct {
	materials map[uuid.UUID]*model.RawMaterial
}

func (r *fakeMaterialRepo) Create(_ context.Context, m *model.RawMaterial) error {
	m.ID = uuid.New()
	r.materials[m.ID] = m
	return nil
}

func (r *fakeMaterialRepo) FindByID(_ context.Context, storeID, id uuid.UUID) (*model.RawMaterial, error) {
	m, ok := r.materials[id]
	if !ok || m.StoreID != storeID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMaterialRepo) Update(_ context.Context, m *model.RawMaterial) error {
	r.materials[m.ID] = m
	return nil
}

func (r *fakeMaterialRepo) Delete(_ context.Context, storeID, id uuid.UUID, _ string) error {
	m, ok := r.materials[id]
	if !ok || m.StoreID != storeID {
		return gorm.ErrRecordNotFound
	}
	delete(r.materials, id)
	return nil
}

func newTestInventoryService() (InventoryService, *fakeProductRepo, *fakeMaterialRepo, *recordingPublisher) {
	products := &fakeProductRepo{products: map[uuid.UUID]*model.Product{}}
	materials := &fakeMaterialRepo{materials: map[uuid.UUID]*model.RawMaterial{}}
	events := &recordingPublisher{}
	return NewInventoryService(products, materials, &fakeReportRepo{}, events), products, materials, events
}

func TestCreateProduct(t *testing.T) {
	svc, products, _, events := newTestInventoryService()
	store := uuid.New()

	p, err := svc.CreateProduct(context.Background(), store, &ProductRequest{
		Name:     "Cutting Chai",
		Price:    decimal.RequireFromString("15"),
		Stock:    150,
		MinStock: 30,
	}, "OWNER")
	require.NoError(t, err)

	assert.True(t, p.IsActive, "products are active unless stated otherwise")
	assert.Equal(t, store, p.StoreID)
	assert.Equal(t, "OWNER", p.CreatedBy)
	assert.Contains(t, products.products, p.ID)

	require.Len(t, events.events, 1)
	assert.Equal(t, "product_created", events.events[0].Action)
	assert.Equal(t, store, events.stores[0])
}

func TestCreateProduct_Validation(t *testing.T) {
	svc, _, _, events := newTestInventoryService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  ProductRequest
	}{
		{"missing name", ProductRequest{Price: decimal.NewFromInt(10)}},
		{"negative price", ProductRequest{Name: "Vada Pav", Price: decimal.NewFromInt(-1)}},
		{"negative stock", ProductRequest{Name: "Vada Pav", Price: decimal.NewFromInt(10), Stock: -1}},
		{"negative min stock", ProductRequest{Name: "Vada Pav", Price: decimal.NewFromInt(10), MinStock: -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.CreateProduct(ctx, uuid.New(), &req, "OWNER")
			assert.True(t, IsValidationError(err), "got %v", err)
		})
	}
	assert.Empty(t, events.events)
}

func TestUpdateProduct(t *testing.T) {
	svc, _, _, events := newTestInventoryService()
	ctx := context.Background()
	store := uuid.New()

	p, err := svc.CreateProduct(ctx, store, &ProductRequest{Name: "Bun Maska", Price: decimal.NewFromInt(30), Stock: 20, MinStock: 5}, "OWNER")
	require.NoError(t, err)

	inactive := false
	updated, err := svc.UpdateProduct(ctx, store, p.ID, &ProductRequest{Name: "Bun Maska", Price: decimal.NewFromInt(35), Stock: 4, MinStock: 5, IsActive: &inactive}, "OWNER")
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, model.StockLow, updated.Status())

	_, err = svc.UpdateProduct(ctx, uuid.New(), p.ID, &ProductRequest{Name: "Bun Maska", Price: decimal.NewFromInt(35)}, "OWNER")
	assert.ErrorIs(t, err, ErrProductNotFound)

	require.Len(t, events.events, 2)
	assert.Equal(t, "product_updated", events.events[1].Action)
}

func TestRawMaterialLifecycle(t *testing.T) {
	svc, _, materials, events := newTestInventoryService()
	ctx := context.Background()
	store := uuid.New()

	m, err := svc.CreateRawMaterial(ctx, store, &RawMaterialRequest{Name: "Cheese Slices"}, "KITCHEN")
	require.NoError(t, err)
	assert.Equal(t, model.StockAvailable, m.Status)

	m, err = svc.UpdateRawMaterialStatus(ctx, store, m.ID, model.StockOut, "KITCHEN")
	require.NoError(t, err)
	assert.Equal(t, model.StockOut, materials.materials[m.ID].Status)

	_, err = svc.UpdateRawMaterialStatus(ctx, store, m.ID, "EMPTY", "KITCHEN")
	assert.ErrorIs(t, err, ErrInvalidStockStatus)

	m, err = svc.RenameRawMaterial(ctx, store, m.ID, "Cheese Slices (Amul)", "OWNER")
	require.NoError(t, err)
	assert.Equal(t, "Cheese Slices (Amul)", m.Name)

	_, err = svc.RenameRawMaterial(ctx, store, m.ID, "", "OWNER")
	assert.True(t, IsValidationError(err))

	// another store cannot touch it
	_, err = svc.UpdateRawMaterialStatus(ctx, uuid.New(), m.ID, model.StockLow, "KITCHEN")
	assert.ErrorIs(t, err, ErrRawMaterialNotFound)
	assert.ErrorIs(t, svc.DeleteRawMaterial(ctx, uuid.New(), m.ID, "OWNER"), ErrRawMaterialNotFound)

	require.NoError(t, svc.DeleteRawMaterial(ctx, store, m.ID, "OWNER"))
	assert.Empty(t, materials.materials)

	var actions []string
	for _, e := range events.events {
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []string{"raw_material_created", "raw_material_status", "raw_material_updated", "raw_material_deleted"}, actions)
}

func TestCreateRawMaterial_RejectsUnknownStatus(t *testing.T) {
	svc, _, _, _ := newTestInventoryService()

	_, err := svc.CreateRawMaterial(context.Background(), uuid.New(), &RawMaterialRequest{Name: "Milk", Status: "FULL"}, "OWNER")
	assert.True(t, IsValidationError(err))
}
