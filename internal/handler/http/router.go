package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Egxr41k/volosmeister-backend/internal/service"
	"github.com/Egxr41k/volosmeister-backend/internal/storage"
	"github.com/Egxr41k/volosmeister-backend/pkg/health"
	"github.com/Egxr41k/volosmeister-backend/pkg/middleware"
)

// NewRouter creates a chi router with all catalog service routes registered.
func NewRouter(
	categoryService *service.CategoryService,
	productService *service.ProductService,
	manufacturerService *service.ManufacturerService,
	userService *service.UserService,
	dataService *service.DataService,
	store storage.Storage,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("catalog"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Category API endpoints
	categoryHandler := NewCategoryHandler(categoryService, logger)

	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", categoryHandler.ListCategories)
		r.Get("/tree", categoryHandler.ListTree)
		r.Get("/roots", categoryHandler.ListRoots)
		r.Get("/{idOrSlug}", categoryHandler.GetCategory)
		r.Get("/{id}/tree", categoryHandler.GetSubtree)
		r.Get("/{id}/chain", categoryHandler.GetChain)
		r.Get("/{id}/children", categoryHandler.GetChildren)
		r.Post("/", categoryHandler.CreateCategory)
		r.Put("/{id}", categoryHandler.UpdateCategory)
		r.Delete("/{id}", categoryHandler.DeleteCategory)
	})

	// Product API endpoints
	productHandler := NewProductHandler(productService, logger)

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", productHandler.ListProducts)
		r.Get("/by-category/{categoryId}", productHandler.ListByCategory)
		r.Get("/{idOrSlug}", productHandler.GetProduct)
		r.Get("/{id}/similar", productHandler.ListSimilar)
		r.Post("/", productHandler.CreateProduct)
		r.Put("/{id}", productHandler.UpdateProduct)
		r.Delete("/{id}", productHandler.DeleteProduct)
	})

	// Manufacturer API endpoints
	manufacturerHandler := NewManufacturerHandler(manufacturerService, logger)

	r.Route("/api/v1/manufacturers", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", manufacturerHandler.ListManufacturers)
		r.Get("/{idOrSlug}", manufacturerHandler.GetManufacturer)
		r.Post("/", manufacturerHandler.CreateManufacturer)
		r.Put("/{id}", manufacturerHandler.UpdateManufacturer)
		r.Delete("/{id}", manufacturerHandler.DeleteManufacturer)
	})

	// User API endpoints
	userHandler := NewUserHandler(userService, logger)

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", userHandler.ListUsers)
		r.Get("/{id}", userHandler.GetUser)
	})

	// Asset API endpoints
	assetHandler := NewAssetHandler(store, logger)

	r.Route("/api/v1/assets", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", assetHandler.ListAssets)
		r.Post("/", assetHandler.UploadAsset)
		r.Get("/{name}", assetHandler.GetAsset)
		r.Get("/{name}/url", assetHandler.GetAssetURL)
		r.Delete("/{name}", assetHandler.DeleteAsset)
	})

	// Served asset bytes, matching the public URLs the storage layer hands out.
	r.Get("/assets/{name}", assetHandler.GetAsset)

	// Import / export endpoints
	dataHandler := NewDataHandler(dataService, logger)

	r.Route("/api/v1/data", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/import", dataHandler.Import)
		r.Get("/export", dataHandler.Export)
	})

	return r
}
