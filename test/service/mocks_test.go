package service_test

import (
	"context"

	"basti-service/internal/models"
	"basti-service/internal/repository"
	"basti-service/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Моки для всех репозиториев

// MockCatalogRepo
type MockCatalogRepo struct {
	PriceSourceFunc       func(ctx context.Context, kind models.ProductKind, id uuid.UUID) (*repository.PriceSource, error)
	SaveProductFunc       func(ctx context.Context, kind models.ProductKind, rec *repository.ProductRecord) error
	SetProductActiveFunc  func(ctx context.Context, kind models.ProductKind, id uuid.UUID, active bool) (int64, error)
	GetPredesignedFunc    func(ctx context.Context, id uuid.UUID) (*models.PredesignedCake, error)
	CreatePredesignedFunc func(ctx context.Context, cake *models.PredesignedCake) error
	ListPredesignedFunc   func(ctx context.Context, activeOnly bool) ([]models.PredesignedCake, error)
	GetRegionFunc         func(ctx context.Context, id uuid.UUID) (*models.Region, error)
	ListRegionsFunc       func(ctx context.Context) ([]models.Region, error)
	ListAddonsFunc        func(ctx context.Context, activeOnly bool) ([]models.Addon, error)
	ListSweetsFunc        func(ctx context.Context, activeOnly bool) ([]models.Sweet, error)
	ListFeaturedFunc      func(ctx context.Context, activeOnly bool) ([]models.FeaturedCake, error)
	ListShapesFunc        func(ctx context.Context, activeOnly bool) ([]models.CakeShape, error)
	ListFlavorsFunc       func(ctx context.Context, activeOnly bool) ([]models.CakeFlavor, error)
	ListDecorationsFunc   func(ctx context.Context, activeOnly bool) ([]models.CakeDecoration, error)
}

func (m *MockCatalogRepo) PriceSource(ctx context.Context, kind models.ProductKind, id uuid.UUID) (*repository.PriceSource, error) {
	if m.PriceSourceFunc != nil {
		return m.PriceSourceFunc(ctx, kind, id)
	}
	return nil, nil
}

func (m *MockCatalogRepo) SaveProduct(ctx context.Context, kind models.ProductKind, rec *repository.ProductRecord) error {
	if m.SaveProductFunc != nil {
		return m.SaveProductFunc(ctx, kind, rec)
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
		rec.IsActive = true
	}
	return nil
}

func (m *MockCatalogRepo) SetProductActive(ctx context.Context, kind models.ProductKind, id uuid.UUID, active bool) (int64, error) {
	if m.SetProductActiveFunc != nil {
		return m.SetProductActiveFunc(ctx, kind, id, active)
	}
	return 1, nil
}

func (m *MockCatalogRepo) GetPredesigned(ctx context.Context, id uuid.UUID) (*models.PredesignedCake, error) {
	if m.GetPredesignedFunc != nil {
		return m.GetPredesignedFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCatalogRepo) CreatePredesigned(ctx context.Context, cake *models.PredesignedCake) error {
	if m.CreatePredesignedFunc != nil {
		return m.CreatePredesignedFunc(ctx, cake)
	}
	return nil
}

func (m *MockCatalogRepo) ListPredesigned(ctx context.Context, activeOnly bool) ([]models.PredesignedCake, error) {
	if m.ListPredesignedFunc != nil {
		return m.ListPredesignedFunc(ctx, activeOnly)
	}
	return nil, nil
}

func (m *MockCatalogRepo) GetRegion(ctx context.Context, id uuid.UUID) (*models.Region, error) {
	if m.GetRegionFunc != nil {
		return m.GetRegionFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCatalogRepo) ListRegions(ctx context.Context) ([]models.Region, error) {
	if m.ListRegionsFunc != nil {
		return m.ListRegionsFunc(ctx)
	}
	return nil, nil
}

func (m *MockCatalogRepo) ListAddons(ctx context.Context, activeOnly bool) ([]models.Addon, error) {
	if m.ListAddonsFunc != nil {
		return m.ListAddonsFunc(ctx, activeOnly)
	}
	return nil, nil
}

func (m *MockCatalogRepo) ListSweets(ctx context.Context, activeOnly bool) ([]models.Sweet, error) {
	if m.ListSweetsFunc != nil {
		return m.ListSweetsFunc(ctx, activeOnly)
	}
	return nil, nil
}

func (m *MockCatalogRepo) ListFeatured(ctx context.Context, activeOnly bool) ([]models.FeaturedCake, error) {
	if m.ListFeaturedFunc != nil {
		return m.ListFeaturedFunc(ctx, activeOnly)
	}
	return nil, nil
}

func (m *MockCatalogRepo) ListShapes(ctx context.Context, activeOnly bool) ([]models.CakeShape, error) {
	if m.ListShapesFunc != nil {
		return m.ListShapesFunc(ctx, activeOnly)
	}
	return nil, nil
}

func (m *MockCatalogRepo) ListFlavors(ctx context.Context, activeOnly bool) ([]models.CakeFlavor, error) {
	if m.ListFlavorsFunc != nil {
		return m.ListFlavorsFunc(ctx, activeOnly)
	}
	return nil, nil
}

func (m *MockCatalogRepo) ListDecorations(ctx context.Context, activeOnly bool) ([]models.CakeDecoration, error) {
	if m.ListDecorationsFunc != nil {
		return m.ListDecorationsFunc(ctx, activeOnly)
	}
	return nil, nil
}

// MockOverrideRepo
type MockOverrideRepo struct {
	GetFunc           func(ctx context.Context, regionID uuid.UUID, kind models.ProductKind, productID uuid.UUID) (*models.RegionPriceOverride, error)
	UpsertFunc        func(ctx context.Context, o *models.RegionPriceOverride) error
	DeleteByKeyFunc   func(ctx context.Context, regionID uuid.UUID, kind models.ProductKind, productID uuid.UUID) (int64, error)
	ListForRegionFunc func(ctx context.Context, regionID uuid.UUID) ([]models.RegionPriceOverride, error)
}

func (m *MockOverrideRepo) Get(ctx context.Context, regionID uuid.UUID, kind models.ProductKind, productID uuid.UUID) (*models.RegionPriceOverride, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, regionID, kind, productID)
	}
	return nil, nil
}

func (m *MockOverrideRepo) Upsert(ctx context.Context, o *models.RegionPriceOverride) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, o)
	}
	return nil
}

func (m *MockOverrideRepo) DeleteByKey(ctx context.Context, regionID uuid.UUID, kind models.ProductKind, productID uuid.UUID) (int64, error) {
	if m.DeleteByKeyFunc != nil {
		return m.DeleteByKeyFunc(ctx, regionID, kind, productID)
	}
	return 0, nil
}

func (m *MockOverrideRepo) ListForRegion(ctx context.Context, regionID uuid.UUID) ([]models.RegionPriceOverride, error) {
	if m.ListForRegionFunc != nil {
		return m.ListForRegionFunc(ctx, regionID)
	}
	return nil, nil
}

// MockCartRepo. WithTx по умолчанию вызывает fn на том же наборе моков:
// настоящая транзакционность проверяется интеграционными тестами.
type MockCartRepo struct {
	Repo *repository.Repository

	CreateFunc              func(ctx context.Context, line *models.CartLine) error
	GetByIDForUserFunc      func(ctx context.Context, id, userID uuid.UUID) (*models.CartLine, error)
	UpsertLineFunc          func(ctx context.Context, line *models.CartLine) error
	ListForUserFunc         func(ctx context.Context, userID uuid.UUID, included bool) ([]models.CartLine, error)
	ListByIDsForUserFunc    func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.CartLine, error)
	UpdateQuantityFunc      func(ctx context.Context, id uuid.UUID, qty int) error
	SetIncludedFunc         func(ctx context.Context, id uuid.UUID, included bool) error
	DeleteByIDsForUserFunc  func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
	DeleteIncludedByIDsFunc func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
	WithTxFunc              func(ctx context.Context, fn func(tx *repository.Repository) error) error
}

func (m *MockCartRepo) Create(ctx context.Context, line *models.CartLine) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, line)
	}
	return nil
}

func (m *MockCartRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.CartLine, error) {
	if m.GetByIDForUserFunc != nil {
		return m.GetByIDForUserFunc(ctx, id, userID)
	}
	return nil, nil
}

func (m *MockCartRepo) UpsertLine(ctx context.Context, line *models.CartLine) error {
	if m.UpsertLineFunc != nil {
		return m.UpsertLineFunc(ctx, line)
	}
	return nil
}

func (m *MockCartRepo) ListForUser(ctx context.Context, userID uuid.UUID, included bool) ([]models.CartLine, error) {
	if m.ListForUserFunc != nil {
		return m.ListForUserFunc(ctx, userID, included)
	}
	return nil, nil
}

func (m *MockCartRepo) ListByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.CartLine, error) {
	if m.ListByIDsForUserFunc != nil {
		return m.ListByIDsForUserFunc(ctx, userID, ids)
	}
	return nil, nil
}

func (m *MockCartRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, qty int) error {
	if m.UpdateQuantityFunc != nil {
		return m.UpdateQuantityFunc(ctx, id, qty)
	}
	return nil
}

func (m *MockCartRepo) SetIncluded(ctx context.Context, id uuid.UUID, included bool) error {
	if m.SetIncludedFunc != nil {
		return m.SetIncludedFunc(ctx, id, included)
	}
	return nil
}

func (m *MockCartRepo) DeleteByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if m.DeleteByIDsForUserFunc != nil {
		return m.DeleteByIDsForUserFunc(ctx, userID, ids)
	}
	return int64(len(ids)), nil
}

func (m *MockCartRepo) DeleteIncludedByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if m.DeleteIncludedByIDsFunc != nil {
		return m.DeleteIncludedByIDsFunc(ctx, userID, ids)
	}
	return int64(len(ids)), nil
}

func (m *MockCartRepo) WithTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, fn)
	}
	return fn(m.Repo)
}

// MockOrderRepo
type MockOrderRepo struct {
	CreateFunc         func(ctx context.Context, o *models.Order) error
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByIDForUserFunc func(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	UpdateStatusFunc   func(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	ListFunc           func(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error)
	ExistsFunc         func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *MockOrderRepo) Create(ctx context.Context, o *models.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	return nil
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	if m.GetByIDForUserFunc != nil {
		return m.GetByIDForUserFunc(ctx, id, userID)
	}
	return nil, nil
}

func (m *MockOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *MockOrderRepo) List(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *MockOrderRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return false, nil
}

// MockOrderItemRepo
type MockOrderItemRepo struct {
	BulkCreateFunc   func(ctx context.Context, items []models.OrderItem) error
	GetByOrderIDFunc func(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
}

func (m *MockOrderItemRepo) BulkCreate(ctx context.Context, items []models.OrderItem) error {
	if m.BulkCreateFunc != nil {
		return m.BulkCreateFunc(ctx, items)
	}
	return nil
}

func (m *MockOrderItemRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	if m.GetByOrderIDFunc != nil {
		return m.GetByOrderIDFunc(ctx, orderID)
	}
	return nil, nil
}

// MockEventBus
type MockEventBus struct {
	PublishOrderPlacedFunc        func(ctx context.Context, e service.OrderPlacedEvent) error
	PublishOrderStatusChangedFunc func(ctx context.Context, e service.OrderStatusChangedEvent) error
}

func (m *MockEventBus) PublishOrderPlaced(ctx context.Context, e service.OrderPlacedEvent) error {
	if m.PublishOrderPlacedFunc != nil {
		return m.PublishOrderPlacedFunc(ctx, e)
	}
	return nil
}

func (m *MockEventBus) PublishOrderStatusChanged(ctx context.Context, e service.OrderStatusChangedEvent) error {
	if m.PublishOrderStatusChangedFunc != nil {
		return m.PublishOrderStatusChangedFunc(ctx, e)
	}
	return nil
}

// newTestRepository собирает Repository поверх моков; nil заменяются пустыми
func newTestRepository(catalog *MockCatalogRepo, overrides *MockOverrideRepo, carts *MockCartRepo, orders *MockOrderRepo, items *MockOrderItemRepo) *repository.Repository {
	if catalog == nil {
		catalog = &MockCatalogRepo{}
	}
	if overrides == nil {
		overrides = &MockOverrideRepo{}
	}
	if carts == nil {
		carts = &MockCartRepo{}
	}
	if orders == nil {
		orders = &MockOrderRepo{}
	}
	if items == nil {
		items = &MockOrderItemRepo{}
	}
	repo := &repository.Repository{
		Catalog:    catalog,
		Overrides:  overrides,
		Carts:      carts,
		Orders:     orders,
		OrderItems: items,
	}
	carts.Repo = repo
	return repo
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string { return &s }

// Каталог из одного товара с заданными ценами
func singleProductCatalog(kind models.ProductKind, id uuid.UUID, price *decimal.Decimal, sizes models.SizePriceMap, active bool) *MockCatalogRepo {
	return &MockCatalogRepo{
		PriceSourceFunc: func(ctx context.Context, k models.ProductKind, pid uuid.UUID) (*repository.PriceSource, error) {
			if k != kind || pid != id {
				return nil, nil
			}
			return &repository.PriceSource{
				Kind: k, ID: pid, Name: "Test product",
				Price: price, SizesPrices: sizes, IsActive: active,
			}, nil
		},
		GetRegionFunc: activeRegion,
	}
}

func activeRegion(ctx context.Context, id uuid.UUID) (*models.Region, error) {
	return &models.Region{ID: id, Name: "Jakarta", IsActive: true}, nil
}

func customerCtx(userID uuid.UUID) context.Context {
	ctx := service.WithUserID(context.Background(), userID)
	return service.WithRole(ctx, service.RoleCustomer)
}

func adminCtx(userID uuid.UUID) context.Context {
	ctx := service.WithUserID(context.Background(), userID)
	return service.WithRole(ctx, service.RoleAdmin)
}
