package services

import (
	"context"
	"errors"
	"testing"

	"marketplace-api/internal/models"
	"marketplace-api/internal/store"

	"github.com/rs/zerolog"
)

func newTestProductService() *ProductService {
	return NewProductService(store.NewMemoryStore(), zerolog.Nop())
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
func intPtr(v int) *int           { return &v }

func TestCreateProductDefaults(t *testing.T) {
	products := newTestProductService()

	product, err := products.Create(context.Background(), 1, &models.CreateProductRequest{
		Name:  "Shirt",
		Price: floatPtr(500),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if product.OriginalPrice != 500 {
		t.Errorf("expected original price to default to price, got %v", product.OriginalPrice)
	}
	if product.Category != models.DefaultCategory {
		t.Errorf("expected default category, got %q", product.Category)
	}
	if product.Stock != 0 {
		t.Errorf("expected default stock 0, got %d", product.Stock)
	}
	if product.CreatedBy != 1 {
		t.Errorf("expected creator id 1, got %d", product.CreatedBy)
	}
}

func TestCreateProductZeroOriginalPriceQuirk(t *testing.T) {
	products := newTestProductService()

	// An explicit original price of 0 is indistinguishable from "not
	// provided" and is overwritten with the price.
	product, err := products.Create(context.Background(), 1, &models.CreateProductRequest{
		Name:          "Shirt",
		Price:         floatPtr(500),
		OriginalPrice: 0,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if product.OriginalPrice != 500 {
		t.Errorf("expected original price 500, got %v", product.OriginalPrice)
	}
}

func TestCreateProductValidation(t *testing.T) {
	products := newTestProductService()
	ctx := context.Background()

	cases := []struct {
		name string
		req  models.CreateProductRequest
	}{
		{"missing name", models.CreateProductRequest{Price: floatPtr(10)}},
		{"missing price", models.CreateProductRequest{Name: "Shirt"}},
		{"negative price", models.CreateProductRequest{Name: "Shirt", Price: floatPtr(-1)}},
		{"negative stock", models.CreateProductRequest{Name: "Shirt", Price: floatPtr(10), Stock: -5}},
	}
	for _, tc := range cases {
		_, err := products.Create(ctx, 1, &tc.req)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}

	// Price zero is allowed, it only has to be present.
	if _, err := products.Create(ctx, 1, &models.CreateProductRequest{Name: "Free", Price: floatPtr(0)}); err != nil {
		t.Errorf("zero price should be accepted: %v", err)
	}
}

func TestListProductsCategoryFilter(t *testing.T) {
	products := newTestProductService()
	ctx := context.Background()

	for _, p := range []models.CreateProductRequest{
		{Name: "Shirt", Price: floatPtr(500), Category: "Men"},
		{Name: "Dress", Price: floatPtr(800), Category: "Women"},
		{Name: "Cap", Price: floatPtr(100), Category: "men"},
	} {
		req := p
		if _, err := products.Create(ctx, 1, &req); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	listed, err := products.List(ctx, "MEN")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 products in category men, got %d", len(listed))
	}

	// Anchored match, not substring: "Me" matches nothing.
	listed, err = products.List(ctx, "Me")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("expected no products for partial category, got %d", len(listed))
	}

	all, err := products.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 products, got %d", len(all))
	}
	// Newest first.
	if all[0].Name != "Cap" || all[2].Name != "Shirt" {
		t.Errorf("expected newest-first order, got %q ... %q", all[0].Name, all[2].Name)
	}
}

func TestUpdateProductPartial(t *testing.T) {
	products := newTestProductService()
	ctx := context.Background()

	product, err := products.Create(ctx, 1, &models.CreateProductRequest{
		Name:        "Shirt",
		Description: "Plain tee",
		Price:       floatPtr(500),
		Category:    "Men",
		Stock:       3,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := products.Update(ctx, product.ID, &models.UpdateProductRequest{
		Price: floatPtr(450),
		Stock: intPtr(10),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Price != 450 || updated.Stock != 10 {
		t.Errorf("expected updated price/stock, got %v/%d", updated.Price, updated.Stock)
	}
	if updated.Name != "Shirt" || updated.Description != "Plain tee" || updated.Category != "Men" {
		t.Errorf("untouched fields changed: %+v", updated)
	}

	if _, err := products.Update(ctx, product.ID, &models.UpdateProductRequest{Price: floatPtr(-1)}); err == nil {
		t.Error("expected negative price to be rejected on update")
	}
	if _, err := products.Update(ctx, product.ID, &models.UpdateProductRequest{Name: strPtr("  ")}); err == nil {
		t.Error("expected blank name to be rejected on update")
	}

	if _, err := products.Update(ctx, 9999, &models.UpdateProductRequest{Price: floatPtr(1)}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	products := newTestProductService()
	ctx := context.Background()

	product, err := products.Create(ctx, 1, &models.CreateProductRequest{Name: "Shirt", Price: floatPtr(500)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := products.Delete(ctx, product.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := products.GetByID(ctx, product.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := products.Delete(ctx, product.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
