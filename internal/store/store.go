package store

import (
	"context"
	"errors"

	"marketplace-api/internal/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already in use")
	ErrSellerExists   = errors.New("a seller account already exists")
)

// Store is the persistence surface for identities, listings, and buy
// requests. Implementations must enforce email uniqueness and the
// single-seller constraint themselves; callers treat the pre-checks they run
// as a latency optimization, not as the source of truth.
//
// Buy-request reads return records with Product and Customer resolved.
// A request whose listing has been deleted comes back with Product == nil.
type Store interface {
	// users
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id int) (*models.User, error)
	FindSeller(ctx context.Context) (*models.User, error)

	// products
	CreateProduct(ctx context.Context, product *models.Product) error
	FindProductByID(ctx context.Context, id int) (*models.Product, error)
	ListProducts(ctx context.Context, category string) ([]models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int) error

	// buy requests
	CreateBuyRequest(ctx context.Context, request *models.BuyRequest) error
	FindBuyRequestByID(ctx context.Context, id int) (*models.BuyRequest, error)
	ListBuyRequests(ctx context.Context) ([]models.BuyRequest, error)
	ListBuyRequestsByCustomer(ctx context.Context, customerID int) ([]models.BuyRequest, error)
	UpdateBuyRequestStatus(ctx context.Context, id int, status string) (*models.BuyRequest, error)
}
