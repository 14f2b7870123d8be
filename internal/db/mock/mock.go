package mock

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mitsypos/internal/costing"
	applog "mitsypos/internal/log"
	"mitsypos/internal/store"
	"mitsypos/models"
)

// New returns an in-memory sqlite database seeded with a small taqueria menu.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	db, err := gorm.Open(sqlite.Open("file:mitsypos-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Product{},
		&models.Ingredient{},
		&models.RecipeLine{},
		&models.Sale{},
		&models.PendingOrder{},
		&models.Setting{},
	); err != nil {
		return nil, err
	}

	if err := seed(ctx, store.New(db)); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

type portion struct {
	ingredient string
	quantity   float64
	unit       string
}

func seed(ctx context.Context, s *store.Store) error {
	applog.Debug(ctx, "seeding mock database")

	if err := s.EnsureDefaultSettings(ctx); err != nil {
		return err
	}

	var existing int64
	if err := s.DB().WithContext(ctx).Model(&models.Product{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		applog.Debug(ctx, "mock database already seeded", "products", existing)
		return nil
	}

	ingredients := []store.NewIngredient{
		{Name: "Tortilla", Unit: "Pza", UnitCost: 0.5, Stock: 100, ManageStock: true},
		{Name: "Carne asada", Unit: "Kg", UnitCost: 16, Stock: 6.25, ManageStock: true},
		{Name: "Queso Oaxaca", Unit: "Kg", UnitCost: 12, Stock: 3, ManageStock: true},
		{Name: "Cebolla", Unit: "Kg", UnitCost: 2, Stock: 4, ManageStock: true},
		{Name: "Horchata", Unit: "L", UnitCost: 8, Stock: 10, ManageStock: true},
	}
	byName := make(map[string]uint, len(ingredients))
	for _, input := range ingredients {
		ingredient, err := s.CreateIngredient(ctx, input)
		if err != nil {
			return err
		}
		byName[ingredient.Name] = ingredient.ID
	}

	menu := []struct {
		product store.NewProduct
		recipe  []portion
	}{
		{
			product: store.NewProduct{Name: "Taco de asada", Price: 15, ManageStock: true, MinimumStock: 10},
			recipe: []portion{
				{ingredient: "Tortilla", quantity: 2, unit: "Pza"},
				{ingredient: "Carne asada", quantity: 0.125, unit: "Kg"},
				{ingredient: "Cebolla", quantity: 0.0625, unit: "Kg"},
			},
		},
		{
			product: store.NewProduct{Name: "Quesadilla", Price: 25, ManageStock: true, MinimumStock: 5},
			recipe: []portion{
				{ingredient: "Tortilla", quantity: 1, unit: "Pza"},
				{ingredient: "Queso Oaxaca", quantity: 0.125, unit: "Kg"},
			},
		},
		{
			product: store.NewProduct{Name: "Agua de horchata", Price: 20, Unit: "Vaso", ManageStock: true},
			recipe: []portion{
				{ingredient: "Horchata", quantity: 0.5, unit: "L"},
			},
		},
		{
			product: store.NewProduct{Name: "Refresco", Price: 22, Cost: 12},
		},
	}

	engine := costing.New(s)
	for _, item := range menu {
		product, err := s.CreateProduct(ctx, item.product)
		if err != nil {
			return err
		}
		for _, p := range item.recipe {
			ingredientID, ok := byName[p.ingredient]
			if !ok {
				return fmt.Errorf("unknown seed ingredient %q", p.ingredient)
			}
			_, err := engine.AddRecipeLine(ctx, store.NewRecipeLine{
				ProductID:    product.ID,
				IngredientID: ingredientID,
				Quantity:     p.quantity,
				Unit:         p.unit,
			})
			if err != nil {
				return err
			}
		}
	}

	order := []models.OrderItem{
		{ProductID: 1, Name: "Taco de asada", Quantity: 3, UnitPrice: 15},
		{ProductID: 3, Name: "Agua de horchata", Quantity: 1, UnitPrice: 20},
	}
	if _, err := s.CreatePendingOrder(ctx, "Mesa 2", order); err != nil {
		return err
	}

	return nil
}
