package repository

import (
	"context"
	"errors"

	"basti-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OverrideRepo interface {
	// Get возвращает nil, nil если переопределения нет — это не ошибка,
	// резолвер проваливается к базовой цене каталога.
	Get(ctx context.Context, regionID uuid.UUID, kind models.ProductKind, productID uuid.UUID) (*models.RegionPriceOverride, error)
	Upsert(ctx context.Context, o *models.RegionPriceOverride) error
	DeleteByKey(ctx context.Context, regionID uuid.UUID, kind models.ProductKind, productID uuid.UUID) (int64, error)
	ListForRegion(ctx context.Context, regionID uuid.UUID) ([]models.RegionPriceOverride, error)
}

type overrideRepo struct{ db *gorm.DB }

func NewOverrideRepo(db *gorm.DB) OverrideRepo { return &overrideRepo{db: db} }

func (r *overrideRepo) Get(ctx context.Context, regionID uuid.UUID, kind models.ProductKind, productID uuid.UUID) (*models.RegionPriceOverride, error) {
	var row models.RegionPriceOverride
	err := r.db.WithContext(ctx).
		First(&row, "region_id = ? AND product_kind = ? AND product_id = ?", regionID, kind, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &row, err
}

func (r *overrideRepo) Upsert(ctx context.Context, o *models.RegionPriceOverride) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "region_id"}, {Name: "product_kind"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "sizes_prices", "updated_at"}),
	}).Create(o).Error
}

func (r *overrideRepo) DeleteByKey(ctx context.Context, regionID uuid.UUID, kind models.ProductKind, productID uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("region_id = ? AND product_kind = ? AND product_id = ?", regionID, kind, productID).
		Delete(&models.RegionPriceOverride{})
	return tx.RowsAffected, tx.Error
}

func (r *overrideRepo) ListForRegion(ctx context.Context, regionID uuid.UUID) ([]models.RegionPriceOverride, error) {
	var rows []models.RegionPriceOverride
	err := r.db.WithContext(ctx).Where("region_id = ?", regionID).
		Order("product_kind ASC, product_id ASC").Find(&rows).Error
	return rows, err
}
