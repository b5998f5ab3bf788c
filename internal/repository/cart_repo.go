package repository

import (
	"context"
	"errors"

	"basti-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepo interface {
	Create(ctx context.Context, line *models.CartLine) error
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.CartLine, error)
	// UpsertLine вставляет однозначно ключуемую строку (user, kind,
	// product); конфликт по уникальному индексу прибавляет количество к
	// существующей строке и возвращает её в корзину.
	UpsertLine(ctx context.Context, line *models.CartLine) error
	ListForUser(ctx context.Context, userID uuid.UUID, included bool) ([]models.CartLine, error)
	ListByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.CartLine, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, qty int) error
	SetIncluded(ctx context.Context, id uuid.UUID, included bool) error
	DeleteByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
	// DeleteIncludedByIDs удаляет только строки с is_included = true:
	// повторная проверка флага в момент коммита оформления заказа.
	DeleteIncludedByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)

	WithTx(ctx context.Context, fn func(tx *Repository) error) error
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) CartRepo { return &cartRepo{db: db} }

func (r *cartRepo) Create(ctx context.Context, line *models.CartLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *cartRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.CartLine, error) {
	var row models.CartLine
	err := r.db.WithContext(ctx).First(&row, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &row, err
}

func (r *cartRepo) UpsertLine(ctx context.Context, line *models.CartLine) error {
	// Слияние происходит в базе: два конкурентных добавления одного
	// товара не падают на уникальном индексе, а складывают количества
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_kind"}, {Name: "product_id"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("product_kind IN ('featured_cake','addon','sweet')"),
		}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":    gorm.Expr("cart_lines.quantity + EXCLUDED.quantity"),
			"is_included": true,
			"updated_at":  gorm.Expr("now()"),
		}),
	}).Create(line).Error
}

func (r *cartRepo) ListForUser(ctx context.Context, userID uuid.UUID, included bool) ([]models.CartLine, error) {
	var rows []models.CartLine
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_included = ?", userID, included).
		Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *cartRepo) ListByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.CartLine, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.CartLine
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *cartRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).Model(&models.CartLine{}).
		Where("id = ?", id).Update("quantity", qty).Error
}

func (r *cartRepo) SetIncluded(ctx context.Context, id uuid.UUID, included bool) error {
	return r.db.WithContext(ctx).Model(&models.CartLine{}).
		Where("id = ?", id).Update("is_included", included).Error
}

func (r *cartRepo) DeleteByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.CartLine{})
	return tx.RowsAffected, tx.Error
}

func (r *cartRepo) DeleteIncludedByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ? AND is_included = true", userID, ids).
		Delete(&models.CartLine{})
	return tx.RowsAffected, tx.Error
}

// WithTx выполняет fn в одной транзакции: оформление заказа читает цены,
// пишет заказ и чистит корзину атомарно.
func (r *cartRepo) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}
