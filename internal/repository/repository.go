package repository

import "gorm.io/gorm"

type Repository struct {
	DB         *gorm.DB
	Catalog    CatalogRepo
	Overrides  OverrideRepo
	Carts      CartRepo
	Orders     OrderRepo
	OrderItems OrderItemRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:         db,
		Catalog:    NewCatalogRepo(db),
		Overrides:  NewOverrideRepo(db),
		Carts:      NewCartRepo(db),
		Orders:     NewOrderRepo(db),
		OrderItems: NewOrderItemRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }
