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

type BuyRequestService struct {
	store  store.Store
	logger zerolog.Logger
}

func NewBuyRequestService(st store.Store, logger zerolog.Logger) *BuyRequestService {
	return &BuyRequestService{
		store:  st,
		logger: logger,
	}
}

// Create records a purchase intent for the authenticated customer. The
// customer id always comes from the verified claims, never from the request
// body. The product id is not checked against the catalog: a request against
// a listing that was never created, or is deleted later, simply resolves with
// a null product on read.
func (s *BuyRequestService) Create(ctx context.Context, customerID int, req *models.CreateBuyRequestRequest) (*models.BuyRequest, error) {
	if req.ProductID == 0 || req.Quantity == 0 {
		return nil, validationError("product id and quantity are required")
	}
	if req.Quantity < 1 {
		return nil, validationError("quantity must be at least 1")
	}

	request := &models.BuyRequest{
		ProductID:  req.ProductID,
		CustomerID: customerID,
		Quantity:   req.Quantity,
		Message:    strings.TrimSpace(req.Message),
		Status:     string(models.StatusPending),
	}

	if err := s.store.CreateBuyRequest(ctx, request); err != nil {
		s.logger.Error().Err(err).Msg("Error creating buy request")
		return nil, fmt.Errorf("failed to create buy request: %w", err)
	}

	s.logger.Info().
		Int("request_id", request.ID).
		Int("customer_id", customerID).
		Int("product_id", req.ProductID).
		Msg("Buy request submitted")
	return request, nil
}

// ListAll returns every buy request system-wide, newest first. Seller view.
func (s *BuyRequestService) ListAll(ctx context.Context) ([]models.BuyRequest, error) {
	requests, err := s.store.ListBuyRequests(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing buy requests")
		return nil, fmt.Errorf("failed to list buy requests: %w", err)
	}
	return requests, nil
}

// ListMine returns only the caller's own requests, newest first.
func (s *BuyRequestService) ListMine(ctx context.Context, customerID int) ([]models.BuyRequest, error) {
	requests, err := s.store.ListBuyRequestsByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error().Err(err).Int("customer_id", customerID).Msg("Error listing customer buy requests")
		return nil, fmt.Errorf("failed to list buy requests: %w", err)
	}
	return requests, nil
}

// UpdateStatus sets a request's status. Approved and rejected are not
// enforced as terminal: a seller may flip an approved request to rejected and
// back. Concurrent updates are last-write-wins.
func (s *BuyRequestService) UpdateStatus(ctx context.Context, id int, status string) (*models.BuyRequest, error) {
	if !models.ValidBuyRequestStatus(status) {
		return nil, validationError("invalid status value")
	}

	request, err := s.store.UpdateBuyRequestStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error().Err(err).Int("request_id", id).Msg("Error updating buy request status")
		return nil, fmt.Errorf("failed to update buy request: %w", err)
	}

	s.logger.Info().Int("request_id", id).Str("status", status).Msg("Buy request status updated")
	return request, nil
}
