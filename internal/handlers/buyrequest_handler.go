package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"marketplace-api/internal/middleware"
	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type BuyRequestHandler struct {
	buyRequestService *services.BuyRequestService
	logger            zerolog.Logger
}

func NewBuyRequestHandler(st store.Store, logger zerolog.Logger) *BuyRequestHandler {
	return &BuyRequestHandler{
		buyRequestService: services.NewBuyRequestService(st, logger),
		logger:            logger,
	}
}

func (h *BuyRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	var req models.CreateBuyRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	request, err := h.buyRequestService.Create(r.Context(), claims.UserID, &req)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			h.respondWithError(w, http.StatusBadRequest, "validation_failed", vErr.Message)
			return
		}
		h.logger.Error().Err(err).Msg("Creating buy request failed")
		h.respondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to submit buy request.")
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Buy request submitted successfully.",
		"request": request,
	})
}

func (h *BuyRequestHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	requests, err := h.buyRequestService.ListAll(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Listing buy requests failed")
		h.respondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch buy requests.")
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
	})
}

func (h *BuyRequestHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	requests, err := h.buyRequestService.ListMine(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Listing customer buy requests failed")
		h.respondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch your requests.")
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
	})
}

func (h *BuyRequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request_id", "Invalid buy request ID")
		return
	}

	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	request, err := h.buyRequestService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.respondWithError(w, http.StatusBadRequest, "validation_failed", "Invalid status value.")
		case errors.Is(err, services.ErrNotFound):
			h.respondWithError(w, http.StatusNotFound, "request_not_found", "Buy request not found.")
		default:
			h.logger.Error().Err(err).Msg("Updating buy request failed")
			h.respondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to update request.")
		}
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Request marked as " + request.Status + ".",
		"request": request,
	})
}

func (h *BuyRequestHandler) respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

func (h *BuyRequestHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
