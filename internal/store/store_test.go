package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mitsypos/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	if err := db.AutoMigrate(&models.Product{}, &models.Ingredient{}, &models.RecipeLine{}, &models.Sale{}, &models.PendingOrder{}, &models.Setting{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return New(db)
}

func ptr[T any](v T) *T {
	return &v
}

func TestCreateProductDerivesProfit(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	product, err := s.CreateProduct(ctx, NewProduct{Name: "  Taco  ", Price: 15, Cost: 4})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if product.ID == 0 {
		t.Fatal("expected generated id")
	}
	if product.Name != "Taco" || product.Unit != models.DefaultProductUnit || !product.Active {
		t.Fatalf("unexpected product: %+v", product)
	}
	if product.Profit != 11 {
		t.Fatalf("Profit = %v, want 11", product.Profit)
	}
	if product.CreatedAt.IsZero() {
		t.Fatal("expected creation timestamp")
	}

	if _, err := s.CreateProduct(ctx, NewProduct{Name: "   "}); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestGetProductNotFound(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, err := s.GetProduct(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetProduct() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateProductKeepsProfitConsistent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	product, err := s.CreateProduct(ctx, NewProduct{Name: "Quesadilla", Price: 30, Cost: 10})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	steps := []struct {
		name       string
		update     ProductUpdate
		wantPrice  float64
		wantCost   float64
		wantProfit float64
	}{
		{"price only", ProductUpdate{Price: ptr(35.0)}, 35, 10, 25},
		{"cost only", ProductUpdate{Cost: ptr(12.5)}, 35, 12.5, 22.5},
		{"both", ProductUpdate{Price: ptr(40.0), Cost: ptr(15.0)}, 40, 15, 25},
		{"neither", ProductUpdate{Name: ptr("Quesadilla grande")}, 40, 15, 25},
	}

	for _, step := range steps {
		if err := s.UpdateProduct(ctx, product.ID, step.update); err != nil {
			t.Fatalf("%s: UpdateProduct() error = %v", step.name, err)
		}
		got, err := s.GetProduct(ctx, product.ID)
		if err != nil {
			t.Fatalf("%s: GetProduct() error = %v", step.name, err)
		}
		if got.Price != step.wantPrice || got.Cost != step.wantCost || got.Profit != step.wantProfit {
			t.Fatalf("%s: price/cost/profit = %v/%v/%v, want %v/%v/%v", step.name, got.Price, got.Cost, got.Profit, step.wantPrice, step.wantCost, step.wantProfit)
		}
		if got.Profit != got.Price-got.Cost {
			t.Fatalf("%s: profit invariant broken: %+v", step.name, got)
		}
	}

	if err := s.UpdateProduct(ctx, 404, ProductUpdate{Price: ptr(1.0)}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateProduct(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDeactivateProductHidesFromList(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	keep, _ := s.CreateProduct(ctx, NewProduct{Name: "Agua de Jamaica", Price: 20})
	gone, _ := s.CreateProduct(ctx, NewProduct{Name: "Agua de Horchata", Price: 20})

	if err := s.DeactivateProduct(ctx, gone.ID); err != nil {
		t.Fatalf("DeactivateProduct() error = %v", err)
	}

	active, err := s.ListProducts(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(active) != 1 || active[0].ID != keep.ID {
		t.Fatalf("expected only %d active, got %+v", keep.ID, active)
	}

	all, err := s.ListProducts(ctx, ListOptions{IncludeInactive: true})
	if err != nil {
		t.Fatalf("ListProducts(all) error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 products including inactive, got %d", len(all))
	}

	reloaded, err := s.GetProduct(ctx, gone.ID)
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if reloaded.Active {
		t.Fatal("expected product to be inactive")
	}
}

func TestSearchProductsIgnoresAccents(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, NewProduct{Name: "Café de Olla", Price: 25}); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if _, err := s.CreateProduct(ctx, NewProduct{Name: "Té Verde", Price: 20}); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	matches, err := s.SearchProducts(ctx, "CAFE")
	if err != nil {
		t.Fatalf("SearchProducts() error = %v", err)
	}
	if len(matches) != 1 || matches[0].Name != "Café de Olla" {
		t.Fatalf("unexpected matches: %+v", matches)
	}
}

func TestAdjustIngredientStockAllowsNegative(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	ingredient, err := s.CreateIngredient(ctx, NewIngredient{Name: "Tortilla", Unit: "Pza", UnitCost: 0.5, Stock: 3})
	if err != nil {
		t.Fatalf("CreateIngredient() error = %v", err)
	}

	if err := s.AdjustIngredientStock(ctx, ingredient.ID, 10); err != nil {
		t.Fatalf("AdjustIngredientStock(+10) error = %v", err)
	}
	if err := s.AdjustIngredientStock(ctx, ingredient.ID, -20); err != nil {
		t.Fatalf("AdjustIngredientStock(-20) error = %v", err)
	}

	stock, err := s.IngredientStock(ctx, ingredient.ID)
	if err != nil {
		t.Fatalf("IngredientStock() error = %v", err)
	}
	if stock != -7 {
		t.Fatalf("stock = %v, want -7", stock)
	}

	if err := s.AdjustIngredientStock(ctx, 777, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("AdjustIngredientStock(missing) error = %v, want ErrNotFound", err)
	}
}

func TestFindIngredientByName(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateIngredient(ctx, NewIngredient{Name: "Jalapeño", UnitCost: 40})
	if err != nil {
		t.Fatalf("CreateIngredient() error = %v", err)
	}

	found, err := s.FindIngredientByName(ctx, " jalapeno ")
	if err != nil {
		t.Fatalf("FindIngredientByName() error = %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Fatalf("expected ingredient %d, got %+v", created.ID, found)
	}

	missing, err := s.FindIngredientByName(ctx, "habanero")
	if err != nil {
		t.Fatalf("FindIngredientByName() error = %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil, got %+v", missing)
	}
}

func TestRecipeComponentsFiltersInactive(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	taco, _ := s.CreateProduct(ctx, NewProduct{Name: "Taco", Price: 15})
	tortilla, _ := s.CreateIngredient(ctx, NewIngredient{Name: "Tortilla", Unit: "Pza", UnitCost: 0.5, Stock: 100})
	carne, _ := s.CreateIngredient(ctx, NewIngredient{Name: "Carne", UnitCost: 20, Stock: 5})

	if _, err := s.CreateRecipeLine(ctx, NewRecipeLine{ProductID: taco.ID, IngredientID: tortilla.ID, Quantity: 2, Unit: "Pza"}); err != nil {
		t.Fatalf("CreateRecipeLine() error = %v", err)
	}
	if _, err := s.CreateRecipeLine(ctx, NewRecipeLine{ProductID: taco.ID, IngredientID: carne.ID, Quantity: 0.1}); err != nil {
		t.Fatalf("CreateRecipeLine() error = %v", err)
	}

	components, err := s.RecipeComponents(ctx, taco.ID)
	if err != nil {
		t.Fatalf("RecipeComponents() error = %v", err)
	}
	if len(components) != 2 {
		t.Fatalf("expected 2 components, got %+v", components)
	}
	first := components[0]
	if first.IngredientID != tortilla.ID || first.IngredientName != "Tortilla" || first.Quantity != 2 || first.UnitCost != 0.5 || first.Stock != 100 || first.PortionUnit != "Pza" {
		t.Fatalf("unexpected first component: %+v", first)
	}
	if components[1].IngredientUnit != models.DefaultIngredientUnit {
		t.Fatalf("IngredientUnit = %q, want %q", components[1].IngredientUnit, models.DefaultIngredientUnit)
	}

	if err := s.DeactivateIngredient(ctx, carne.ID); err != nil {
		t.Fatalf("DeactivateIngredient() error = %v", err)
	}
	components, err = s.RecipeComponents(ctx, taco.ID)
	if err != nil {
		t.Fatalf("RecipeComponents() error = %v", err)
	}
	if len(components) != 1 || components[0].IngredientID != tortilla.ID {
		t.Fatalf("expected only tortilla after deactivation, got %+v", components)
	}

	lines, err := s.ListRecipeLines(ctx, 0)
	if err != nil {
		t.Fatalf("ListRecipeLines() error = %v", err)
	}
	if len(lines) != 1 || lines[0].ProductName != "Taco" || lines[0].IngredientName != "Tortilla" {
		t.Fatalf("unexpected recipe listing: %+v", lines)
	}

	ids, err := s.ProductIDsUsingIngredient(ctx, tortilla.ID)
	if err != nil {
		t.Fatalf("ProductIDsUsingIngredient() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != taco.ID {
		t.Fatalf("ProductIDsUsingIngredient() = %v, want [%d]", ids, taco.ID)
	}

	if err := s.DeactivateProduct(ctx, taco.ID); err != nil {
		t.Fatalf("DeactivateProduct() error = %v", err)
	}
	components, err = s.RecipeComponents(ctx, taco.ID)
	if err != nil {
		t.Fatalf("RecipeComponents() error = %v", err)
	}
	if len(components) != 0 {
		t.Fatalf("expected no components for inactive product, got %+v", components)
	}
}

func TestRecipeComponentsEmpty(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	components, err := s.RecipeComponents(context.Background(), 12)
	if err != nil {
		t.Fatalf("RecipeComponents() error = %v", err)
	}
	if components == nil || len(components) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", components)
	}
}

func TestDeleteRecipeLine(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	line, err := s.CreateRecipeLine(ctx, NewRecipeLine{ProductID: 1, IngredientID: 1, Quantity: 1})
	if err != nil {
		t.Fatalf("CreateRecipeLine() error = %v", err)
	}
	if err := s.DeleteRecipeLine(ctx, line.ID); err != nil {
		t.Fatalf("DeleteRecipeLine() error = %v", err)
	}
	if err := s.DeleteRecipeLine(ctx, line.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second DeleteRecipeLine() error = %v, want ErrNotFound", err)
	}
}

func TestSettingsAndSaleNumbers(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.EnsureDefaultSettings(ctx); err != nil {
		t.Fatalf("EnsureDefaultSettings() error = %v", err)
	}
	if err := s.SetStockManagementEnabled(ctx, true); err != nil {
		t.Fatalf("SetStockManagementEnabled() error = %v", err)
	}
	// Seeding again must not reset stored values.
	if err := s.EnsureDefaultSettings(ctx); err != nil {
		t.Fatalf("EnsureDefaultSettings() second call error = %v", err)
	}

	enabled, err := s.StockManagementEnabled(ctx)
	if err != nil {
		t.Fatalf("StockManagementEnabled() error = %v", err)
	}
	if !enabled {
		t.Fatal("expected stock management to stay enabled")
	}

	for want := 1; want <= 3; want++ {
		got, err := s.NextSaleNumber(ctx)
		if err != nil {
			t.Fatalf("NextSaleNumber() error = %v", err)
		}
		if got != want {
			t.Fatalf("NextSaleNumber() = %d, want %d", got, want)
		}
	}

	if _, ok, err := s.Setting(ctx, "missing"); err != nil || ok {
		t.Fatalf("Setting(missing) = ok %t, err %v", ok, err)
	}
}

func TestTransactionRollsBack(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx *Store) error {
		if _, err := tx.CreateProduct(ctx, NewProduct{Name: "Temporal", Price: 1}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transaction() error = %v, want boom", err)
	}

	products, err := s.ListProducts(ctx, ListOptions{IncludeInactive: true})
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected rollback, found %+v", products)
	}
}

func TestPendingOrderLifecycle(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	order, err := s.CreatePendingOrder(ctx, "Mesa 4", []models.OrderItem{{ProductID: 1, Name: "Taco", Quantity: 3, UnitPrice: 15}})
	if err != nil {
		t.Fatalf("CreatePendingOrder() error = %v", err)
	}
	if order.Total != 45 {
		t.Fatalf("Total = %v, want 45", order.Total)
	}

	updated, err := s.UpdatePendingOrder(ctx, order.ID, []models.OrderItem{
		{ProductID: 1, Name: "Taco", Quantity: 4, UnitPrice: 15},
		{ProductID: 2, Name: "Agua", Quantity: 1, UnitPrice: 20},
	})
	if err != nil {
		t.Fatalf("UpdatePendingOrder() error = %v", err)
	}
	if updated.Total != 80 {
		t.Fatalf("Total = %v, want 80", updated.Total)
	}

	reloaded, err := s.GetPendingOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetPendingOrder() error = %v", err)
	}
	if len(reloaded.Items) != 2 || reloaded.Items[1].Name != "Agua" || reloaded.Table != "Mesa 4" {
		t.Fatalf("unexpected reloaded order: %+v", reloaded)
	}

	if err := s.DeletePendingOrder(ctx, order.ID); err != nil {
		t.Fatalf("DeletePendingOrder() error = %v", err)
	}
	if _, err := s.GetPendingOrder(ctx, order.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetPendingOrder() after delete error = %v, want ErrNotFound", err)
	}

	if _, err := s.CreatePendingOrder(ctx, " ", nil); err == nil {
		t.Fatal("expected error for blank table")
	}
}

func TestListSalesFilters(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	for i, number := range []int{1, 1, 2} {
		sale := &models.Sale{Number: number, SoldAt: base.Add(time.Duration(i) * time.Hour), ProductName: "Taco", Quantity: 1, UnitPrice: 15, Total: 15}
		if err := s.CreateSale(ctx, sale); err != nil {
			t.Fatalf("CreateSale() error = %v", err)
		}
		if sale.PaymentMethod != models.DefaultPaymentMethod {
			t.Fatalf("PaymentMethod = %q, want default", sale.PaymentMethod)
		}
	}

	byNumber, err := s.ListSales(ctx, SaleFilter{Number: 1})
	if err != nil {
		t.Fatalf("ListSales() error = %v", err)
	}
	if len(byNumber) != 2 {
		t.Fatalf("expected 2 lines for ticket 1, got %d", len(byNumber))
	}

	since, err := s.ListSales(ctx, SaleFilter{Since: base.Add(90 * time.Minute)})
	if err != nil {
		t.Fatalf("ListSales(since) error = %v", err)
	}
	if len(since) != 1 || since[0].Number != 2 {
		t.Fatalf("unexpected sales since: %+v", since)
	}
}
