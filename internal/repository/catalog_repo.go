package repository

import (
	"context"
	"errors"

	"basti-service/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrUnpriceableKind: у вида нет прямого источника цены в каталоге
// (predesigned_cake и custom_cake оцениваются композиционно).
var ErrUnpriceableKind = errors.New("product kind has no direct price source")

// PriceSource — каталожная основа цены: имя/картинка для снимков,
// плоская цена и/или таблица размеров, признак активности.
type PriceSource struct {
	Kind        models.ProductKind
	ID          uuid.UUID
	Name        string
	ImageURL    string
	Price       *decimal.Decimal
	SizesPrices models.SizePriceMap
	IsActive    bool
}

// ProductRecord — плоское представление каталожной строки для записи.
// Какие поля имеют смысл, зависит от вида: таблица размеров только у
// featured_cake, описание и картинка — не у примитивов композиции.
type ProductRecord struct {
	ID          uuid.UUID
	Name        string
	Description string
	ImageURL    string
	Price       *decimal.Decimal
	SizesPrices models.SizePriceMap
	IsActive    bool
}

type CatalogRepo interface {
	// PriceSource возвращает nil, nil если товара нет.
	PriceSource(ctx context.Context, kind models.ProductKind, id uuid.UUID) (*PriceSource, error)

	// SaveProduct создаёт строку (нулевой rec.ID) или перезаписывает поля
	// существующей; после записи rec.ID и rec.IsActive актуальны.
	SaveProduct(ctx context.Context, kind models.ProductKind, rec *ProductRecord) error
	// SetProductActive возвращает число затронутых строк (0 — товара нет).
	SetProductActive(ctx context.Context, kind models.ProductKind, id uuid.UUID, active bool) (int64, error)

	GetPredesigned(ctx context.Context, id uuid.UUID) (*models.PredesignedCake, error)
	CreatePredesigned(ctx context.Context, cake *models.PredesignedCake) error
	ListPredesigned(ctx context.Context, activeOnly bool) ([]models.PredesignedCake, error)

	GetRegion(ctx context.Context, id uuid.UUID) (*models.Region, error)
	ListRegions(ctx context.Context) ([]models.Region, error)

	ListAddons(ctx context.Context, activeOnly bool) ([]models.Addon, error)
	ListSweets(ctx context.Context, activeOnly bool) ([]models.Sweet, error)
	ListFeatured(ctx context.Context, activeOnly bool) ([]models.FeaturedCake, error)
	ListShapes(ctx context.Context, activeOnly bool) ([]models.CakeShape, error)
	ListFlavors(ctx context.Context, activeOnly bool) ([]models.CakeFlavor, error)
	ListDecorations(ctx context.Context, activeOnly bool) ([]models.CakeDecoration, error)
}

type catalogRepo struct{ db *gorm.DB }

func NewCatalogRepo(db *gorm.DB) CatalogRepo { return &catalogRepo{db: db} }

func (r *catalogRepo) PriceSource(ctx context.Context, kind models.ProductKind, id uuid.UUID) (*PriceSource, error) {
	db := r.db.WithContext(ctx)

	switch kind {
	case models.ProductKindFeaturedCake:
		var row models.FeaturedCake
		if err := db.First(&row, "id = ?", id).Error; err != nil {
			return nil, skipNotFound(err)
		}
		return &PriceSource{Kind: kind, ID: row.ID, Name: row.Name, ImageURL: row.ImageURL,
			Price: row.Price, SizesPrices: row.SizesPrices, IsActive: row.IsActive}, nil

	case models.ProductKindAddon:
		var row models.Addon
		if err := db.First(&row, "id = ?", id).Error; err != nil {
			return nil, skipNotFound(err)
		}
		p := row.Price
		return &PriceSource{Kind: kind, ID: row.ID, Name: row.Name, ImageURL: row.ImageURL,
			Price: &p, IsActive: row.IsActive}, nil

	case models.ProductKindSweet:
		var row models.Sweet
		if err := db.First(&row, "id = ?", id).Error; err != nil {
			return nil, skipNotFound(err)
		}
		p := row.Price
		return &PriceSource{Kind: kind, ID: row.ID, Name: row.Name, ImageURL: row.ImageURL,
			Price: &p, IsActive: row.IsActive}, nil

	case models.ProductKindCakeShape:
		var row models.CakeShape
		if err := db.First(&row, "id = ?", id).Error; err != nil {
			return nil, skipNotFound(err)
		}
		p := row.Price
		return &PriceSource{Kind: kind, ID: row.ID, Name: row.Name, Price: &p, IsActive: row.IsActive}, nil

	case models.ProductKindCakeFlavor:
		var row models.CakeFlavor
		if err := db.First(&row, "id = ?", id).Error; err != nil {
			return nil, skipNotFound(err)
		}
		p := row.Price
		return &PriceSource{Kind: kind, ID: row.ID, Name: row.Name, Price: &p, IsActive: row.IsActive}, nil

	case models.ProductKindCakeDecoration:
		var row models.CakeDecoration
		if err := db.First(&row, "id = ?", id).Error; err != nil {
			return nil, skipNotFound(err)
		}
		p := row.Price
		return &PriceSource{Kind: kind, ID: row.ID, Name: row.Name, Price: &p, IsActive: row.IsActive}, nil
	}

	return nil, ErrUnpriceableKind
}

func (r *catalogRepo) SaveProduct(ctx context.Context, kind models.ProductKind, rec *ProductRecord) error {
	db := r.db.WithContext(ctx)

	switch kind {
	case models.ProductKindFeaturedCake:
		var row models.FeaturedCake
		if rec.ID != uuid.Nil {
			if err := db.First(&row, "id = ?", rec.ID).Error; err != nil {
				return err
			}
		} else {
			row.IsActive = true
		}
		row.Name, row.Description, row.ImageURL = rec.Name, rec.Description, rec.ImageURL
		row.Price, row.SizesPrices = rec.Price, rec.SizesPrices
		if err := db.Save(&row).Error; err != nil {
			return err
		}
		rec.ID, rec.IsActive = row.ID, row.IsActive
		return nil

	case models.ProductKindAddon:
		var row models.Addon
		if rec.ID != uuid.Nil {
			if err := db.First(&row, "id = ?", rec.ID).Error; err != nil {
				return err
			}
		} else {
			row.IsActive = true
		}
		row.Name, row.Description, row.ImageURL = rec.Name, rec.Description, rec.ImageURL
		row.Price = *rec.Price
		if err := db.Save(&row).Error; err != nil {
			return err
		}
		rec.ID, rec.IsActive = row.ID, row.IsActive
		return nil

	case models.ProductKindSweet:
		var row models.Sweet
		if rec.ID != uuid.Nil {
			if err := db.First(&row, "id = ?", rec.ID).Error; err != nil {
				return err
			}
		} else {
			row.IsActive = true
		}
		row.Name, row.Description, row.ImageURL = rec.Name, rec.Description, rec.ImageURL
		row.Price = *rec.Price
		if err := db.Save(&row).Error; err != nil {
			return err
		}
		rec.ID, rec.IsActive = row.ID, row.IsActive
		return nil

	case models.ProductKindCakeShape:
		var row models.CakeShape
		if rec.ID != uuid.Nil {
			if err := db.First(&row, "id = ?", rec.ID).Error; err != nil {
				return err
			}
		} else {
			row.IsActive = true
		}
		row.Name, row.Price = rec.Name, *rec.Price
		if err := db.Save(&row).Error; err != nil {
			return err
		}
		rec.ID, rec.IsActive = row.ID, row.IsActive
		return nil

	case models.ProductKindCakeFlavor:
		var row models.CakeFlavor
		if rec.ID != uuid.Nil {
			if err := db.First(&row, "id = ?", rec.ID).Error; err != nil {
				return err
			}
		} else {
			row.IsActive = true
		}
		row.Name, row.Price = rec.Name, *rec.Price
		if err := db.Save(&row).Error; err != nil {
			return err
		}
		rec.ID, rec.IsActive = row.ID, row.IsActive
		return nil

	case models.ProductKindCakeDecoration:
		var row models.CakeDecoration
		if rec.ID != uuid.Nil {
			if err := db.First(&row, "id = ?", rec.ID).Error; err != nil {
				return err
			}
		} else {
			row.IsActive = true
		}
		row.Name, row.Price = rec.Name, *rec.Price
		if err := db.Save(&row).Error; err != nil {
			return err
		}
		rec.ID, rec.IsActive = row.ID, row.IsActive
		return nil
	}

	return ErrUnpriceableKind
}

func (r *catalogRepo) SetProductActive(ctx context.Context, kind models.ProductKind, id uuid.UUID, active bool) (int64, error) {
	var model any
	switch kind {
	case models.ProductKindFeaturedCake:
		model = &models.FeaturedCake{}
	case models.ProductKindAddon:
		model = &models.Addon{}
	case models.ProductKindSweet:
		model = &models.Sweet{}
	case models.ProductKindCakeShape:
		model = &models.CakeShape{}
	case models.ProductKindCakeFlavor:
		model = &models.CakeFlavor{}
	case models.ProductKindCakeDecoration:
		model = &models.CakeDecoration{}
	default:
		return 0, ErrUnpriceableKind
	}
	res := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Update("is_active", active)
	return res.RowsAffected, res.Error
}

func (r *catalogRepo) GetPredesigned(ctx context.Context, id uuid.UUID) (*models.PredesignedCake, error) {
	var row models.PredesignedCake
	err := r.db.WithContext(ctx).Preload("Config").First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &row, err
}

func (r *catalogRepo) CreatePredesigned(ctx context.Context, cake *models.PredesignedCake) error {
	return r.db.WithContext(ctx).Create(cake).Error
}

func (r *catalogRepo) ListPredesigned(ctx context.Context, activeOnly bool) ([]models.PredesignedCake, error) {
	var rows []models.PredesignedCake
	q := r.db.WithContext(ctx).Preload("Config")
	if activeOnly {
		q = q.Where("is_active = true")
	}
	err := q.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *catalogRepo) GetRegion(ctx context.Context, id uuid.UUID) (*models.Region, error) {
	var row models.Region
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &row, err
}

func (r *catalogRepo) ListRegions(ctx context.Context) ([]models.Region, error) {
	var rows []models.Region
	err := r.db.WithContext(ctx).Where("is_active = true").Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *catalogRepo) ListAddons(ctx context.Context, activeOnly bool) ([]models.Addon, error) {
	var rows []models.Addon
	err := listCatalog(r.db.WithContext(ctx), activeOnly, &rows)
	return rows, err
}

func (r *catalogRepo) ListSweets(ctx context.Context, activeOnly bool) ([]models.Sweet, error) {
	var rows []models.Sweet
	err := listCatalog(r.db.WithContext(ctx), activeOnly, &rows)
	return rows, err
}

func (r *catalogRepo) ListFeatured(ctx context.Context, activeOnly bool) ([]models.FeaturedCake, error) {
	var rows []models.FeaturedCake
	err := listCatalog(r.db.WithContext(ctx), activeOnly, &rows)
	return rows, err
}

func (r *catalogRepo) ListShapes(ctx context.Context, activeOnly bool) ([]models.CakeShape, error) {
	var rows []models.CakeShape
	err := listCatalog(r.db.WithContext(ctx), activeOnly, &rows)
	return rows, err
}

func (r *catalogRepo) ListFlavors(ctx context.Context, activeOnly bool) ([]models.CakeFlavor, error) {
	var rows []models.CakeFlavor
	err := listCatalog(r.db.WithContext(ctx), activeOnly, &rows)
	return rows, err
}

func (r *catalogRepo) ListDecorations(ctx context.Context, activeOnly bool) ([]models.CakeDecoration, error) {
	var rows []models.CakeDecoration
	err := listCatalog(r.db.WithContext(ctx), activeOnly, &rows)
	return rows, err
}

func listCatalog(db *gorm.DB, activeOnly bool, dest any) error {
	if activeOnly {
		db = db.Where("is_active = true")
	}
	return db.Order("name ASC").Find(dest).Error
}

func skipNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
