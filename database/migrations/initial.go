// Package migrations registers the schema migrations. Import it for side
// effects wherever the migration runner is used.
package migrations

import (
	"gorm.io/gorm"

	"github.com/zaika-app/zaika/app/models"
	"github.com/zaika-app/zaika/pkg/migration"
)

func init() {
	migration.Register(createUsersTable{})
	migration.Register(createRestaurantsTable{})
	migration.Register(createMenuItemsTable{})
	migration.Register(createOrdersTable{})
	migration.Register(createOrderItemsTable{})
}

type createUsersTable struct{}

func (createUsersTable) Name() string { return "2026_01_10_000001_create_users_table" }
func (createUsersTable) Up(db *gorm.DB) error {
	return db.Migrator().AutoMigrate(&models.User{})
}
func (createUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.User{})
}

type createRestaurantsTable struct{}

func (createRestaurantsTable) Name() string { return "2026_01_10_000002_create_restaurants_table" }
func (createRestaurantsTable) Up(db *gorm.DB) error {
	return db.Migrator().AutoMigrate(&models.Restaurant{})
}
func (createRestaurantsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Restaurant{})
}

type createMenuItemsTable struct{}

func (createMenuItemsTable) Name() string { return "2026_01_10_000003_create_menu_items_table" }
func (createMenuItemsTable) Up(db *gorm.DB) error {
	return db.Migrator().AutoMigrate(&models.MenuItem{})
}
func (createMenuItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.MenuItem{})
}

type createOrdersTable struct{}

func (createOrdersTable) Name() string { return "2026_01_10_000004_create_orders_table" }
func (createOrdersTable) Up(db *gorm.DB) error {
	return db.Migrator().AutoMigrate(&models.Order{})
}
func (createOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Order{})
}

type createOrderItemsTable struct{}

func (createOrderItemsTable) Name() string { return "2026_01_10_000005_create_order_items_table" }
func (createOrderItemsTable) Up(db *gorm.DB) error {
	return db.Migrator().AutoMigrate(&models.OrderItem{})
}
func (createOrderItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.OrderItem{})
}
