package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"marketplace-api/internal/config"
	"marketplace-api/internal/middleware"
	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type ProductHandler struct {
	productService *services.ProductService
	cfg            config.Config
	logger         zerolog.Logger
}

func NewProductHandler(st store.Store, cfg config.Config, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: services.NewProductService(st, logger),
		cfg:            cfg,
		logger:         logger,
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.logger.Error().Err(err).Msg("Listing products failed")
		h.respondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch products.")
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
	})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_product_id", "Invalid product ID")
		return
	}

	product, err := h.productService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			h.respondWithError(w, http.StatusNotFound, "product_not_found", "Product not found.")
			return
		}
		h.logger.Error().Err(err).Msg("Fetching product failed")
		h.respondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch product.")
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"product": product,
	})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	req, err := h.parseCreateRequest(r)
	if err != nil {
		h.respondUploadError(w, err)
		return
	}

	product, err := h.productService.Create(r.Context(), claims.UserID, req)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			h.respondWithError(w, http.StatusBadRequest, "validation_failed", vErr.Message)
			return
		}
		h.logger.Error().Err(err).Msg("Creating product failed")
		h.respondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to create product.")
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Product created.",
		"product": product,
	})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_product_id", "Invalid product ID")
		return
	}

	req, err := h.parseUpdateRequest(r)
	if err != nil {
		h.respondUploadError(w, err)
		return
	}

	product, err := h.productService.Update(r.Context(), id, req)
	if err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.respondWithError(w, http.StatusBadRequest, "validation_failed", vErr.Message)
		case errors.Is(err, services.ErrNotFound):
			h.respondWithError(w, http.StatusNotFound, "product_not_found", "Product not found.")
		default:
			h.logger.Error().Err(err).Msg("Updating product failed")
			h.respondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to update product.")
		}
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Product updated.",
		"product": product,
	})
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_product_id", "Invalid product ID")
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			h.respondWithError(w, http.StatusNotFound, "product_not_found", "Product not found.")
			return
		}
		h.logger.Error().Err(err).Msg("Deleting product failed")
		h.respondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to delete product.")
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Product deleted.",
	})
}

// parseCreateRequest accepts either a JSON body or multipart/form-data with
// an optional image file. An uploaded file wins over an image URL supplied in
// the body.
func (h *ProductHandler) parseCreateRequest(r *http.Request) (*models.CreateProductRequest, error) {
	if !isMultipart(r) {
		var req models.CreateProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, &services.ValidationError{Message: "invalid request body"}
		}
		return &req, nil
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, &services.ValidationError{Message: "invalid multipart form"}
	}

	req := &models.CreateProductRequest{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Image:       r.FormValue("image"),
		Category:    r.FormValue("category"),
	}
	if v := r.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &services.ValidationError{Message: "price must be a number"}
		}
		req.Price = &price
	}
	if v := r.FormValue("original_price"); v != "" {
		originalPrice, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &services.ValidationError{Message: "original_price must be a number"}
		}
		req.OriginalPrice = originalPrice
	}
	if v := r.FormValue("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return nil, &services.ValidationError{Message: "stock must be an integer"}
		}
		req.Stock = stock
	}

	imageURL, err := h.saveImageIfPresent(r)
	if err != nil {
		return nil, err
	}
	if imageURL != "" {
		req.Image = imageURL
	}
	return req, nil
}

func (h *ProductHandler) parseUpdateRequest(r *http.Request) (*models.UpdateProductRequest, error) {
	if !isMultipart(r) {
		var req models.UpdateProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, &services.ValidationError{Message: "invalid request body"}
		}
		return &req, nil
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, &services.ValidationError{Message: "invalid multipart form"}
	}

	// Partial update: only fields present in the form are touched.
	req := &models.UpdateProductRequest{}
	form := r.MultipartForm
	if v, ok := formValue(form, "name"); ok {
		req.Name = &v
	}
	if v, ok := formValue(form, "description"); ok {
		req.Description = &v
	}
	if v, ok := formValue(form, "image"); ok {
		req.Image = &v
	}
	if v, ok := formValue(form, "category"); ok {
		req.Category = &v
	}
	if v, ok := formValue(form, "price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &services.ValidationError{Message: "price must be a number"}
		}
		req.Price = &price
	}
	if v, ok := formValue(form, "original_price"); ok {
		originalPrice, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &services.ValidationError{Message: "original_price must be a number"}
		}
		req.OriginalPrice = &originalPrice
	}
	if v, ok := formValue(form, "stock"); ok {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return nil, &services.ValidationError{Message: "stock must be an integer"}
		}
		req.Stock = &stock
	}

	imageURL, err := h.saveImageIfPresent(r)
	if err != nil {
		return nil, err
	}
	if imageURL != "" {
		req.Image = &imageURL
	}
	return req, nil
}

func (h *ProductHandler) saveImageIfPresent(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", &services.ValidationError{Message: "invalid image upload"}
	}
	defer file.Close()

	return saveUploadedImage(file, header, h.cfg.UploadDir, h.cfg.BaseURL)
}

func (h *ProductHandler) respondUploadError(w http.ResponseWriter, err error) {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", vErr.Message)
		return
	}
	h.logger.Error().Err(err).Msg("Storing uploaded image failed")
	h.respondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to store uploaded image.")
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func formValue(form *multipart.Form, key string) (string, bool) {
	vals, ok := form.Value[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

func (h *ProductHandler) respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

func (h *ProductHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
