package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"marketplace-api/internal/config"
	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/store"

	"github.com/rs/zerolog"
)

type AuthHandler struct {
	userService *services.UserService
	authService *services.AuthService
	cfg         config.Config
	logger      zerolog.Logger
}

func NewAuthHandler(st store.Store, authService *services.AuthService, cfg config.Config, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		userService: services.NewUserService(st, authService, logger),
		authService: authService,
		cfg:         cfg,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.respondWithError(w, http.StatusBadRequest, "validation_failed", vErr.Message)
		case errors.Is(err, services.ErrEmailTaken):
			h.respondWithError(w, http.StatusConflict, "email_taken", "Email already in use.")
		default:
			h.logger.Error().Err(err).Msg("Registration failed")
			h.respondWithError(w, http.StatusInternalServerError, "internal_error", "Server error during registration.")
		}
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		h.logger.Error().Err(err).Msg("Token generation failed")
		h.respondWithError(w, http.StatusInternalServerError, "token_generation_failed", "Failed to generate token")
		return
	}

	h.respondWithJSON(w, http.StatusCreated, models.AuthResponse{
		Message: "Registration successful.",
		Token:   token,
		User:    user,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	user, err := h.userService.Authenticate(r.Context(), &req)
	if err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.respondWithError(w, http.StatusBadRequest, "validation_failed", vErr.Message)
		case errors.Is(err, services.ErrInvalidCredentials):
			h.respondWithError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials.")
		default:
			h.logger.Error().Err(err).Msg("Login failed")
			h.respondWithError(w, http.StatusInternalServerError, "internal_error", "Server error during login.")
		}
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		h.logger.Error().Err(err).Msg("Token generation failed")
		h.respondWithError(w, http.StatusInternalServerError, "token_generation_failed", "Failed to generate token")
		return
	}

	h.respondWithJSON(w, http.StatusOK, models.AuthResponse{
		Message: "Login successful.",
		Token:   token,
		User:    user,
	})
}

// SeedSeller is the operational bootstrap endpoint: it creates the one seller
// account from configuration, or reports the existing one.
func (h *AuthHandler) SeedSeller(w http.ResponseWriter, r *http.Request) {
	seller, created, err := h.userService.SeedSeller(r.Context(), h.cfg.SellerName, h.cfg.SellerEmail, h.cfg.SellerPassword)
	if err != nil {
		h.logger.Error().Err(err).Msg("Seller seeding failed")
		h.respondWithError(w, http.StatusInternalServerError, "internal_error", "Server error while seeding seller.")
		return
	}

	if !created {
		h.respondWithJSON(w, http.StatusOK, models.SeedResponse{
			Message: "Seller already exists.",
			Email:   seller.Email,
		})
		return
	}

	h.respondWithJSON(w, http.StatusCreated, models.SeedResponse{
		Message: "Seller account created successfully.",
		Email:   seller.Email,
	})
}

func (h *AuthHandler) respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

func (h *AuthHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
