package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace-api/internal/models"
	"marketplace-api/internal/store"

	"github.com/rs/zerolog"
)

type ProductService struct {
	store  store.Store
	logger zerolog.Logger
}

func NewProductService(st store.Store, logger zerolog.Logger) *ProductService {
	return &ProductService{
		store:  st,
		logger: logger,
	}
}

// List returns listings newest first. A non-empty category is matched whole,
// case-insensitively.
func (s *ProductService) List(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.store.ListProducts(ctx, strings.TrimSpace(category))
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *ProductService) GetByID(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.store.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error().Err(err).Int("product_id", id).Msg("Error fetching product")
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, sellerID int, req *models.CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Price == nil {
		return nil, validationError("name and price are required")
	}
	price := *req.Price
	if price < 0 {
		return nil, validationError("price cannot be negative")
	}
	if req.Stock < 0 {
		return nil, validationError("stock cannot be negative")
	}

	// A zero original price counts as "not provided" and falls back to the
	// price. An explicit original price of 0 is indistinguishable from unset.
	originalPrice := req.OriginalPrice
	if originalPrice == 0 {
		originalPrice = price
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = models.DefaultCategory
	}

	product := &models.Product{
		Name:          name,
		Description:   strings.TrimSpace(req.Description),
		Price:         price,
		OriginalPrice: originalPrice,
		Image:         req.Image,
		Category:      category,
		Stock:         req.Stock,
		CreatedBy:     sellerID,
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		s.logger.Error().Err(err).Msg("Error creating product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Int("product_id", product.ID).Int("seller_id", sellerID).Str("name", product.Name).Msg("Product created")
	return product, nil
}

// Update applies only the supplied fields and re-runs the same validators as
// Create on the result.
func (s *ProductService) Update(ctx context.Context, id int, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationError("name cannot be empty")
		}
		product.Name = name
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, validationError("price cannot be negative")
		}
		product.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		product.OriginalPrice = *req.OriginalPrice
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			category = models.DefaultCategory
		}
		product.Category = category
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, validationError("stock cannot be negative")
		}
		product.Stock = *req.Stock
	}

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error().Err(err).Int("product_id", id).Msg("Error updating product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info().Int("product_id", id).Msg("Product updated")
	return product, nil
}

// Delete removes a listing. Buy requests that reference it are left in place;
// their product simply resolves to null from then on.
func (s *ProductService) Delete(ctx context.Context, id int) error {
	err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		s.logger.Error().Err(err).Int("product_id", id).Msg("Error deleting product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info().Int("product_id", id).Msg("Product deleted")
	return nil
}
