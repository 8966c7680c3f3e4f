package services

import (
	"context"
	"errors"
	"testing"

	"marketplace-api/internal/models"
	"marketplace-api/internal/store"

	"github.com/rs/zerolog"
)

// buyRequestFixture wires user, product, and buy-request services over one
// shared in-memory store and registers a customer plus a listing.
type buyRequestFixture struct {
	users    *UserService
	products *ProductService
	requests *BuyRequestService
	customer *models.User
	product  *models.Product
}

func newBuyRequestFixture(t *testing.T) *buyRequestFixture {
	t.Helper()
	st := store.NewMemoryStore()
	log := zerolog.Nop()

	f := &buyRequestFixture{
		users:    NewUserService(st, newTestAuthService(), log),
		products: NewProductService(st, log),
		requests: NewBuyRequestService(st, log),
	}

	customer, err := f.users.Register(context.Background(), &models.RegisterRequest{
		Name: "Ann", Email: "ann@x.com", Password: "pw123456",
	})
	if err != nil {
		t.Fatalf("register customer: %v", err)
	}
	f.customer = customer

	product, err := f.products.Create(context.Background(), 99, &models.CreateProductRequest{
		Name: "Shirt", Price: floatPtr(500), Image: "http://img/shirt.png", Category: "Men",
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	f.product = product
	return f
}

func TestCreateBuyRequest(t *testing.T) {
	f := newBuyRequestFixture(t)

	request, err := f.requests.Create(context.Background(), f.customer.ID, &models.CreateBuyRequestRequest{
		ProductID: f.product.ID,
		Quantity:  2,
		Message:   "  please hold one for me  ",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if request.Status != string(models.StatusPending) {
		t.Errorf("expected initial status pending, got %q", request.Status)
	}
	if request.CustomerID != f.customer.ID {
		t.Errorf("expected customer %d, got %d", f.customer.ID, request.CustomerID)
	}
	if request.Message != "please hold one for me" {
		t.Errorf("expected trimmed message, got %q", request.Message)
	}
	if request.Product == nil || request.Product.Name != "Shirt" || request.Product.Price != 500 {
		t.Errorf("expected resolved product summary, got %+v", request.Product)
	}
	if request.Customer == nil || request.Customer.Email != "ann@x.com" {
		t.Errorf("expected resolved customer summary, got %+v", request.Customer)
	}
}

func TestCreateBuyRequestValidation(t *testing.T) {
	f := newBuyRequestFixture(t)
	ctx := context.Background()

	cases := []models.CreateBuyRequestRequest{
		{Quantity: 2},
		{ProductID: f.product.ID},
		{ProductID: f.product.ID, Quantity: -1},
	}
	for _, req := range cases {
		_, err := f.requests.Create(ctx, f.customer.ID, &req)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("Create(%+v): expected validation error, got %v", req, err)
		}
	}
}

func TestCreateBuyRequestNoExistenceCheck(t *testing.T) {
	f := newBuyRequestFixture(t)

	// A request against a product that was never created still succeeds;
	// the reference is only resolved at read time.
	request, err := f.requests.Create(context.Background(), f.customer.ID, &models.CreateBuyRequestRequest{
		ProductID: 12345,
		Quantity:  1,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if request.Product != nil {
		t.Errorf("expected nil product for dangling reference, got %+v", request.Product)
	}

	mine, err := f.requests.ListMine(context.Background(), f.customer.ID)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine) != 1 || mine[0].Product != nil {
		t.Errorf("expected the dangling request with nil product, got %+v", mine)
	}
}

func TestListMineScopedToCustomer(t *testing.T) {
	f := newBuyRequestFixture(t)
	ctx := context.Background()

	other, err := f.users.Register(ctx, &models.RegisterRequest{
		Name: "Bob", Email: "bob@x.com", Password: "pw123456",
	})
	if err != nil {
		t.Fatalf("register second customer: %v", err)
	}

	for _, customerID := range []int{f.customer.ID, other.ID, f.customer.ID} {
		if _, err := f.requests.Create(ctx, customerID, &models.CreateBuyRequestRequest{
			ProductID: f.product.ID, Quantity: 1,
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	mine, err := f.requests.ListMine(ctx, f.customer.ID)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 requests for customer, got %d", len(mine))
	}
	for _, r := range mine {
		if r.CustomerID != f.customer.ID {
			t.Errorf("ListMine leaked a foreign request: %+v", r)
		}
	}

	all, err := f.requests.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 requests system-wide, got %d", len(all))
	}
}

func TestUpdateStatus(t *testing.T) {
	f := newBuyRequestFixture(t)
	ctx := context.Background()

	request, err := f.requests.Create(ctx, f.customer.ID, &models.CreateBuyRequestRequest{
		ProductID: f.product.ID, Quantity: 1,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := f.requests.UpdateStatus(ctx, request.ID, "shipped"); err == nil {
		t.Error("expected invalid status to be rejected")
	}
	if _, err := f.requests.UpdateStatus(ctx, 9999, string(models.StatusApproved)); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}

	approved, err := f.requests.UpdateStatus(ctx, request.ID, string(models.StatusApproved))
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if approved.Status != string(models.StatusApproved) {
		t.Errorf("expected approved, got %q", approved.Status)
	}

	// Approved is not enforced as terminal: the re-transition succeeds.
	rejected, err := f.requests.UpdateStatus(ctx, request.ID, string(models.StatusRejected))
	if err != nil {
		t.Fatalf("UpdateStatus after approve: %v", err)
	}
	if rejected.Status != string(models.StatusRejected) {
		t.Errorf("expected rejected, got %q", rejected.Status)
	}
}

func TestDeleteProductLeavesRequestDangling(t *testing.T) {
	f := newBuyRequestFixture(t)
	ctx := context.Background()

	request, err := f.requests.Create(ctx, f.customer.ID, &models.CreateBuyRequestRequest{
		ProductID: f.product.ID, Quantity: 1,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if request.Product == nil {
		t.Fatal("expected resolved product before deletion")
	}

	if err := f.products.Delete(ctx, f.product.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	mine, err := f.requests.ListMine(ctx, f.customer.ID)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected the request to survive product deletion, got %d", len(mine))
	}
	if mine[0].Product != nil {
		t.Errorf("expected nil product after listing removal, got %+v", mine[0].Product)
	}
}
