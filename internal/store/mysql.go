package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace-api/internal/models"

	"github.com/go-sql-driver/mysql"
)

const mysqlDuplicateEntry = 1062

// MySQLStore implements Store on top of database/sql with the MySQL driver.
// The unique indexes created by db.RunMigrations (uniq_users_email,
// uniq_users_seller) are what actually guarantee email uniqueness and the
// single seller row.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) CreateUser(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)",
		user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt,
	)
	if err != nil {
		if dupErr := duplicateKey(err); dupErr != nil {
			return dupErr
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("user insert id: %w", err)
	}
	user.ID = int(id)
	return nil
}

// duplicateKey translates MySQL duplicate-entry errors into store sentinels
// by looking at which unique index was violated.
func duplicateKey(err error) error {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != mysqlDuplicateEntry {
		return nil
	}
	if strings.Contains(mysqlErr.Message, "uniq_users_seller") {
		return ErrSellerExists
	}
	return ErrDuplicateEmail
}

func (s *MySQLStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, role, created_at FROM users WHERE email = ?", email))
}

func (s *MySQLStore) FindUserByID(ctx context.Context, id int) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, role, created_at FROM users WHERE id = ?", id))
}

func (s *MySQLStore) FindSeller(ctx context.Context) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, role, created_at FROM users WHERE role = ? LIMIT 1",
		string(models.RoleSeller)))
}

func (s *MySQLStore) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}

func (s *MySQLStore) CreateProduct(ctx context.Context, product *models.Product) error {
	product.CreatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO products (name, description, price, original_price, image, category, stock, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.Name, product.Description, product.Price, product.OriginalPrice,
		product.Image, product.Category, product.Stock, product.CreatedBy, product.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("product insert id: %w", err)
	}
	product.ID = int(id)
	return nil
}

func (s *MySQLStore) FindProductByID(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, price, original_price, image, category, stock, created_by, created_at
		 FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice, &p.Image,
		&p.Category, &p.Stock, &p.CreatedBy, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

func (s *MySQLStore) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	query := `SELECT id, name, description, price, original_price, image, category, stock, created_by, created_at
		 FROM products`
	args := []interface{}{}
	if category != "" {
		query += " WHERE LOWER(category) = LOWER(?)"
		args = append(args, category)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice,
			&p.Image, &p.Category, &p.Stock, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *MySQLStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = ?, description = ?, price = ?, original_price = ?,
		 image = ?, category = ?, stock = ? WHERE id = ?`,
		product.Name, product.Description, product.Price, product.OriginalPrice,
		product.Image, product.Category, product.Stock, product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product rows: %w", err)
	}
	if affected == 0 {
		// The row may still exist with identical values; confirm before
		// reporting it missing.
		if _, findErr := s.FindProductByID(ctx, product.ID); findErr != nil {
			return findErr
		}
	}
	return nil
}

func (s *MySQLStore) DeleteProduct(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQLStore) CreateBuyRequest(ctx context.Context, request *models.BuyRequest) error {
	request.CreatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO buy_requests (product_id, customer_id, quantity, message, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		request.ProductID, request.CustomerID, request.Quantity,
		request.Message, request.Status, request.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert buy request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("buy request insert id: %w", err)
	}
	request.ID = int(id)

	resolved, err := s.FindBuyRequestByID(ctx, request.ID)
	if err != nil {
		return err
	}
	*request = *resolved
	return nil
}

const buyRequestSelect = `SELECT br.id, br.product_id, br.customer_id, br.quantity, br.message, br.status, br.created_at,
	p.id, p.name, p.price, p.image, p.category,
	u.id, u.name, u.email
	FROM buy_requests br
	LEFT JOIN products p ON p.id = br.product_id
	LEFT JOIN users u ON u.id = br.customer_id`

func (s *MySQLStore) FindBuyRequestByID(ctx context.Context, id int) (*models.BuyRequest, error) {
	rows, err := s.db.QueryContext(ctx, buyRequestSelect+" WHERE br.id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("find buy request: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("find buy request: %w", err)
		}
		return nil, ErrNotFound
	}
	return scanBuyRequest(rows)
}

func (s *MySQLStore) ListBuyRequests(ctx context.Context) ([]models.BuyRequest, error) {
	return s.listBuyRequests(ctx, buyRequestSelect+" ORDER BY br.created_at DESC, br.id DESC")
}

func (s *MySQLStore) ListBuyRequestsByCustomer(ctx context.Context, customerID int) ([]models.BuyRequest, error) {
	return s.listBuyRequests(ctx,
		buyRequestSelect+" WHERE br.customer_id = ? ORDER BY br.created_at DESC, br.id DESC", customerID)
}

func (s *MySQLStore) listBuyRequests(ctx context.Context, query string, args ...interface{}) ([]models.BuyRequest, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list buy requests: %w", err)
	}
	defer rows.Close()

	requests := []models.BuyRequest{}
	for rows.Next() {
		request, err := scanBuyRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *request)
	}
	return requests, rows.Err()
}

func scanBuyRequest(rows *sql.Rows) (*models.BuyRequest, error) {
	var (
		request       models.BuyRequest
		productID     sql.NullInt64
		productName   sql.NullString
		productPrice  sql.NullFloat64
		productImage  sql.NullString
		productCat    sql.NullString
		customerID    sql.NullInt64
		customerName  sql.NullString
		customerEmail sql.NullString
	)
	err := rows.Scan(
		&request.ID, &request.ProductID, &request.CustomerID, &request.Quantity,
		&request.Message, &request.Status, &request.CreatedAt,
		&productID, &productName, &productPrice, &productImage, &productCat,
		&customerID, &customerName, &customerEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("scan buy request: %w", err)
	}

	if productID.Valid {
		request.Product = &models.ProductSummary{
			ID:       int(productID.Int64),
			Name:     productName.String,
			Price:    productPrice.Float64,
			Image:    productImage.String,
			Category: productCat.String,
		}
	}
	if customerID.Valid {
		request.Customer = &models.CustomerSummary{
			ID:    int(customerID.Int64),
			Name:  customerName.String,
			Email: customerEmail.String,
		}
	}
	return &request, nil
}

func (s *MySQLStore) UpdateBuyRequestStatus(ctx context.Context, id int, status string) (*models.BuyRequest, error) {
	// RowsAffected is 0 both for an unknown id and for a no-op status write,
	// so the follow-up read decides whether this is a NotFound.
	_, err := s.db.ExecContext(ctx, "UPDATE buy_requests SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return nil, fmt.Errorf("update buy request status: %w", err)
	}
	return s.FindBuyRequestByID(ctx, id)
}
