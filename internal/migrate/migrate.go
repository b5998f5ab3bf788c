package migrate

import (
	"context"

	"basti-service/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto
	CreateChecks           bool // CHECK-constraint для целостности
	CreateIndexes          bool // индексы и UNIQUE
	CreateFKsViaSQL        bool // FK через SQL (поверх GORM-constraint)
	CreateUpdatedAtTrigger bool // триггер обновления updated_at
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
	}
}

func MigrateCoreDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Начало миграции базы данных маркетплейса")

	// Расширения
	if opt.CreateExtensions {
		log.Info("Создание расширений PostgreSQL")
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("Не удалось включить расширение pgcrypto", zap.Error(err))
			return err
		}
	}

	// Таблицы
	log.Info("Создание таблиц каталога, корзины и заказов")
	if err := db.AutoMigrate(
		&models.Region{},
		&models.Addon{},
		&models.Sweet{},
		&models.FeaturedCake{},
		&models.CakeShape{},
		&models.CakeFlavor{},
		&models.CakeDecoration{},
		&models.PredesignedCake{},
		&models.DesignedCakeConfig{},
		&models.RegionPriceOverride{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Error("Не удалось создать таблицы", zap.Error(err))
		return err
	}

	// Триггер updated_at
	if opt.CreateUpdatedAtTrigger {
		log.Info("Создание триггеров updated_at")
		if err := db.Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_orders_updated ON orders;
CREATE TRIGGER trg_orders_updated
BEFORE UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_cart_lines_updated ON cart_lines;
CREATE TRIGGER trg_cart_lines_updated
BEFORE UPDATE ON cart_lines
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_region_price_overrides_updated ON region_price_overrides;
CREATE TRIGGER trg_region_price_overrides_updated
BEFORE UPDATE ON region_price_overrides
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`).Error; err != nil {
			log.Error("Не удалось создать триггеры updated_at", zap.Error(err))
			return err
		}
	}

	// CHECK-constraint
	if opt.CreateChecks {
		log.Info("Создание CHECK-ограничений")

		// Статусы заказа (так как храним TEXT)
		if err := db.Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_status_allowed;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_status_allowed
  CHECK (status IN ('pending','confirmed','preparing','ready','out_for_delivery','delivered','cancelled'));
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для статусов заказа", zap.Error(err))
			return err
		}

		// Скидка в границах итога, цены неотрицательные
		if err := db.Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_prices;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_prices
  CHECK (total_price >= 0 AND discount_amount >= 0 AND discount_amount <= total_price AND final_price >= 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для цен заказа", zap.Error(err))
			return err
		}

		// Количество > 0
		if err := db.Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_quantity_gt_zero;
ALTER TABLE order_items
  ADD CONSTRAINT chk_order_items_quantity_gt_zero
  CHECK (quantity > 0);

ALTER TABLE cart_lines
  DROP CONSTRAINT IF EXISTS chk_cart_lines_quantity_gt_zero;
ALTER TABLE cart_lines
  ADD CONSTRAINT chk_cart_lines_quantity_gt_zero
  CHECK (quantity > 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для количества", zap.Error(err))
			return err
		}

		// Строка корзины ссылается ровно на один товар:
		// либо каталожный product_id, либо inline custom_config
		if err := db.Exec(`
ALTER TABLE cart_lines
  DROP CONSTRAINT IF EXISTS chk_cart_lines_exactly_one_ref;
ALTER TABLE cart_lines
  ADD CONSTRAINT chk_cart_lines_exactly_one_ref
  CHECK (
    (product_kind = 'custom_cake' AND custom_config IS NOT NULL AND product_id IS NULL)
    OR
    (product_kind <> 'custom_cake' AND product_id IS NOT NULL AND custom_config IS NULL)
  );
`).Error; err != nil {
			log.Error("Не удалось создать CHECK ссылки строки корзины", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE cart_lines
  DROP CONSTRAINT IF EXISTS chk_cart_lines_category_allowed;
ALTER TABLE cart_lines
  ADD CONSTRAINT chk_cart_lines_category_allowed
  CHECK (category IN ('big_cakes','small_cakes','others'));
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для категории корзины", zap.Error(err))
			return err
		}

		// Региональная цена существует только для addon/featured_cake/sweet
		// и обязана задавать хотя бы одну из цен
		if err := db.Exec(`
ALTER TABLE region_price_overrides
  DROP CONSTRAINT IF EXISTS chk_region_price_overrides_kind;
ALTER TABLE region_price_overrides
  ADD CONSTRAINT chk_region_price_overrides_kind
  CHECK (product_kind IN ('addon','featured_cake','sweet'));

ALTER TABLE region_price_overrides
  DROP CONSTRAINT IF EXISTS chk_region_price_overrides_some_price;
ALTER TABLE region_price_overrides
  ADD CONSTRAINT chk_region_price_overrides_some_price
  CHECK (price IS NOT NULL OR sizes_prices IS NOT NULL);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для региональных цен", zap.Error(err))
			return err
		}

		log.Info("CHECK-ограничения успешно созданы")
	}

	// Индексы
	if opt.CreateIndexes {
		log.Info("Создание индексов")

		// Одна строка корзины на (user, kind, product) для однозначно
		// ключуемых видов — опора для upsert при добавлении
		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_cart_lines_user_product
ON cart_lines (user_id, product_kind, product_id)
WHERE product_kind IN ('featured_cake','addon','sweet');
`).Error; err != nil {
			log.Error("Не удалось создать уникальный индекс ux_cart_lines_user_product", zap.Error(err))
			return err
		}

		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_cart_lines_user_included
ON cart_lines (user_id, is_included);
`).Error; err != nil {
			log.Error("Не удалось создать индекс ix_cart_lines_user_included", zap.Error(err))
			return err
		}

		// Для выборок: заказы пользователя по дате
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_orders_user_created
ON orders (user_id, created_at DESC);
`).Error; err != nil {
			log.Error("Не удалось создать индекс ix_orders_user_created", zap.Error(err))
			return err
		}

		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_orders_status_created
ON orders (status, created_at DESC);
`).Error; err != nil {
			log.Error("Не удалось создать индекс ix_orders_status_created", zap.Error(err))
			return err
		}

		log.Info("Индексы успешно созданы")
	}

	// Внешние ключи
	if opt.CreateFKsViaSQL {
		log.Info("Создание внешних ключей")

		// order_items.order_id -> orders.id (CASCADE)
		if err := db.Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_order,
  ADD CONSTRAINT fk_order_items_order
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("Не удалось создать FK order_items.order_id -> orders.id", zap.Error(err))
			return err
		}

		// Конфигурация шаблона держит свои части: удаление формы/вкуса/декора,
		// на которые ссылается конфигурация, запрещено (RESTRICT, не CASCADE)
		if err := db.Exec(`
ALTER TABLE designed_cake_configs
  DROP CONSTRAINT IF EXISTS fk_designed_cake_configs_cake,
  ADD CONSTRAINT fk_designed_cake_configs_cake
    FOREIGN KEY (predesigned_cake_id) REFERENCES predesigned_cakes(id) ON DELETE CASCADE;

ALTER TABLE designed_cake_configs
  DROP CONSTRAINT IF EXISTS fk_designed_cake_configs_shape,
  ADD CONSTRAINT fk_designed_cake_configs_shape
    FOREIGN KEY (shape_id) REFERENCES cake_shapes(id) ON DELETE RESTRICT;

ALTER TABLE designed_cake_configs
  DROP CONSTRAINT IF EXISTS fk_designed_cake_configs_flavor,
  ADD CONSTRAINT fk_designed_cake_configs_flavor
    FOREIGN KEY (flavor_id) REFERENCES cake_flavors(id) ON DELETE RESTRICT;

ALTER TABLE designed_cake_configs
  DROP CONSTRAINT IF EXISTS fk_designed_cake_configs_decoration,
  ADD CONSTRAINT fk_designed_cake_configs_decoration
    FOREIGN KEY (decoration_id) REFERENCES cake_decorations(id) ON DELETE RESTRICT;
`).Error; err != nil {
			log.Error("Не удалось создать FK конфигурации шаблона", zap.Error(err))
			return err
		}

		// Региональная цена живёт и умирает отдельно от товара,
		// но регион обязан существовать
		if err := db.Exec(`
ALTER TABLE region_price_overrides
  DROP CONSTRAINT IF EXISTS fk_region_price_overrides_region,
  ADD CONSTRAINT fk_region_price_overrides_region
    FOREIGN KEY (region_id) REFERENCES regions(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("Не удалось создать FK региональных цен", zap.Error(err))
			return err
		}

		log.Info("Внешние ключи успешно созданы")
	}

	log.Info("Миграция базы данных завершена")
	return nil
}
