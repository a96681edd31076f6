package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"stitchpress/internal/config"
	"stitchpress/internal/database"
	custommiddleware "stitchpress/internal/middleware"
	"stitchpress/internal/repository"
	"stitchpress/internal/service"
	"stitchpress/internal/storage"
	"stitchpress/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, database.Health(db))
	})

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(db)
	postRepo := repository.NewPostRepository(db)
	layoutRepo := repository.NewLayoutRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Initialize services
	catalogService := service.NewCatalogService(catalogRepo, logger)
	facetService := service.NewFacetService(catalogRepo, cfg.Catalog, redisClient, logger)
	smartSearch := service.NewSmartSearchService(cfg.AISearch, logger)
	contentService := service.NewContentService(postRepo, layoutRepo)
	adminService := service.NewAdminService(adminRepo, cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	// Image storage is optional: without Cloudinary credentials the upload
	// route responds 503 and everything else works.
	var images *storage.ImageStore
	if cfg.Cloudinary.CloudName != "" {
		store, err := storage.NewImageStore(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			logger.Warn("Image storage unavailable", zap.Error(err))
		} else {
			images = store
		}
	}

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(catalogService, facetService, logger)
	searchHandler := transport.NewSearchHandler(smartSearch, logger)
	contentHandler := transport.NewContentHandler(contentService, logger)
	adminHandler := transport.NewAdminHandler(adminService, contentService, images, logger)

	// Create route middleware
	authMiddleware := custommiddleware.AdminAuthMiddleware(cfg.JWT.Secret, logger)
	searchRateLimiter := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 30,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:smart-search",
	}, logger)

	// Register routes
	catalogHandler.RegisterRoutes(router)
	searchHandler.RegisterRoutes(router, searchRateLimiter)
	contentHandler.RegisterRoutes(router)
	adminHandler.RegisterRoutes(router, authMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
