package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"marketplace-api/internal/models"
)

// MemoryStore keeps all records in-process. It backs the test suite and dev
// mode (no DB_URL configured). The single mutex makes the check-then-create
// paths for email uniqueness and the singleton seller atomic.
type MemoryStore struct {
	mu            sync.RWMutex
	users         map[int]models.User
	emails        map[string]int
	sellerID      int
	products      map[int]models.Product
	requests      map[int]models.BuyRequest
	nextUserID    int
	nextProductID int
	nextRequestID int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int]models.User),
		emails:   make(map[string]int),
		products: make(map[int]models.Product),
		requests: make(map[int]models.BuyRequest),
	}
}

func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.emails[user.Email]; taken {
		return ErrDuplicateEmail
	}
	if user.Role == string(models.RoleSeller) && m.sellerID != 0 {
		return ErrSellerExists
	}

	m.nextUserID++
	user.ID = m.nextUserID
	user.CreatedAt = time.Now().UTC()
	m.users[user.ID] = *user
	m.emails[user.Email] = user.ID
	if user.Role == string(models.RoleSeller) {
		m.sellerID = user.ID
	}
	return nil
}

func (m *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emails[email]
	if !ok {
		return nil, ErrNotFound
	}
	user := m.users[id]
	return &user, nil
}

func (m *MemoryStore) FindUserByID(ctx context.Context, id int) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (m *MemoryStore) FindSeller(ctx context.Context) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.sellerID == 0 {
		return nil, ErrNotFound
	}
	seller := m.users[m.sellerID]
	return &seller, nil
}

func (m *MemoryStore) CreateProduct(ctx context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextProductID++
	product.ID = m.nextProductID
	product.CreatedAt = time.Now().UTC()
	m.products[product.ID] = *product
	return nil
}

func (m *MemoryStore) FindProductByID(ctx context.Context, id int) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	product, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &product, nil
}

func (m *MemoryStore) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := []models.Product{}
	for _, p := range m.products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		if !products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		}
		return products[i].ID > products[j].ID
	})
	return products, nil
}

func (m *MemoryStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[product.ID]; !ok {
		return ErrNotFound
	}
	m.products[product.ID] = *product
	return nil
}

func (m *MemoryStore) DeleteProduct(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *MemoryStore) CreateBuyRequest(ctx context.Context, request *models.BuyRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextRequestID++
	request.ID = m.nextRequestID
	request.CreatedAt = time.Now().UTC()
	m.requests[request.ID] = *request

	m.resolve(request)
	return nil
}

func (m *MemoryStore) FindBuyRequestByID(ctx context.Context, id int) (*models.BuyRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	request, ok := m.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	m.resolve(&request)
	return &request, nil
}

func (m *MemoryStore) ListBuyRequests(ctx context.Context) ([]models.BuyRequest, error) {
	return m.listBuyRequests(0), nil
}

func (m *MemoryStore) ListBuyRequestsByCustomer(ctx context.Context, customerID int) ([]models.BuyRequest, error) {
	return m.listBuyRequests(customerID), nil
}

func (m *MemoryStore) listBuyRequests(customerID int) []models.BuyRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()

	requests := []models.BuyRequest{}
	for _, r := range m.requests {
		if customerID != 0 && r.CustomerID != customerID {
			continue
		}
		m.resolve(&r)
		requests = append(requests, r)
	}
	sort.Slice(requests, func(i, j int) bool {
		if !requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].CreatedAt.After(requests[j].CreatedAt)
		}
		return requests[i].ID > requests[j].ID
	})
	return requests
}

func (m *MemoryStore) UpdateBuyRequestStatus(ctx context.Context, id int, status string) (*models.BuyRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	request, ok := m.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	request.Status = status
	m.requests[id] = request

	m.resolve(&request)
	return &request, nil
}

// resolve fills in the referenced product and customer summaries. Caller must
// hold at least the read lock. A deleted listing leaves Product nil.
func (m *MemoryStore) resolve(request *models.BuyRequest) {
	request.Product = nil
	request.Customer = nil
	if p, ok := m.products[request.ProductID]; ok {
		request.Product = &models.ProductSummary{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Image:    p.Image,
			Category: p.Category,
		}
	}
	if u, ok := m.users[request.CustomerID]; ok {
		request.Customer = &models.CustomerSummary{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
		}
	}
}
