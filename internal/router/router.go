package router

import (
	"net/http"

	"marketplace-api/internal/config"
	"marketplace-api/internal/handlers"
	"marketplace-api/internal/middleware"
	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func SetupRouter(st store.Store, cfg config.Config, logger zerolog.Logger) *mux.Router {
	authService := services.NewAuthService(cfg.JWTSecret, logger)

	authHandler := handlers.NewAuthHandler(st, authService, cfg, logger)
	productHandler := handlers.NewProductHandler(st, cfg, logger)
	buyRequestHandler := handlers.NewBuyRequestHandler(st, logger)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(50), 100)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(rateLimiter.Middleware())

	api := r.PathPrefix("/api").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authHandler.Register).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")
	auth.HandleFunc("/seed-seller", authHandler.SeedSeller).Methods("POST")

	products := api.PathPrefix("/products").Subrouter()
	products.HandleFunc("", productHandler.List).Methods("GET")
	products.HandleFunc("/{id}", productHandler.Get).Methods("GET")

	sellerProducts := products.PathPrefix("").Subrouter()
	sellerProducts.Use(middleware.Authentication(authService, logger))
	sellerProducts.Use(middleware.RequireRole(models.RoleSeller))
	sellerProducts.HandleFunc("", productHandler.Create).Methods("POST")
	sellerProducts.HandleFunc("/{id}", productHandler.Update).Methods("PUT")
	sellerProducts.HandleFunc("/{id}", productHandler.Delete).Methods("DELETE")

	buyRequests := api.PathPrefix("/buy-requests").Subrouter()
	buyRequests.Use(middleware.Authentication(authService, logger))
	buyRequests.Use(middleware.RequestValidation())

	customerRequests := buyRequests.PathPrefix("").Subrouter()
	customerRequests.Use(middleware.RequireRole(models.RoleCustomer))
	customerRequests.HandleFunc("", buyRequestHandler.Create).Methods("POST")
	customerRequests.HandleFunc("/my", buyRequestHandler.ListMine).Methods("GET")

	sellerRequests := buyRequests.PathPrefix("").Subrouter()
	sellerRequests.Use(middleware.RequireRole(models.RoleSeller))
	sellerRequests.HandleFunc("", buyRequestHandler.ListAll).Methods("GET")
	sellerRequests.HandleFunc("/{id}", buyRequestHandler.UpdateStatus).Methods("PATCH")

	// Uploaded listing images are served as plain static files.
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
