package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"marketplace/internal/cache"
	"marketplace/internal/config"
	"marketplace/internal/domain"
	"marketplace/internal/media"
	custommiddleware "marketplace/internal/middleware"
	"marketplace/internal/repository"
	"marketplace/internal/service"
	"marketplace/internal/transport"

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

// NewServer wires repositories, services and handlers onto one router.
// redisClient may be nil, in which case catalog caching and rate limiting
// are disabled.
func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client, uploader media.Uploader) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.IsDevelopment()))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	subCategoryRepo := repository.NewSubCategoryRepository(db)
	offerTagRepo := repository.NewOfferTagRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)

	var catalog cache.Catalog = cache.Noop{}
	if redisClient != nil {
		catalog = cache.NewRedisCatalog(redisClient, cfg.Cache.TTL, logger)
	}

	// Services
	userService := service.NewUserService(userRepo, refreshTokenRepo, cfg.JWT.Secret,
		service.WithTokenExpiry(
			time.Duration(cfg.JWT.AccessExpiry)*time.Minute,
			time.Duration(cfg.JWT.RefreshExpiry)*24*time.Hour,
		),
	)
	categoryService := service.NewCategoryService(categoryRepo, catalog)
	subCategoryService := service.NewSubCategoryService(subCategoryRepo, categoryRepo, catalog)
	offerTagService := service.NewOfferTagService(offerTagRepo, catalog)
	storeService := service.NewStoreService(storeRepo)
	productService := service.NewProductService(service.ProductDeps{
		Products:           productRepo,
		Stores:             storeRepo,
		Categories:         categoryRepo,
		SubCategories:      subCategoryRepo,
		OfferTags:          offerTagRepo,
		CategoryService:    categoryService,
		SubCategoryService: subCategoryService,
		OfferTagService:    offerTagService,
	})

	// Every route sees the caller's session when there is one
	router.Use(custommiddleware.Authenticate(userService, logger))

	authRequired := custommiddleware.RequireAuth(userService, logger)
	uploadGuard := custommiddleware.RequireRole(logger, domain.RoleAdmin, domain.RoleSeller)

	router.Get("/health", healthHandler(db, redisClient))

	transport.NewUserHandler(
		userService,
		logger,
		time.Duration(cfg.JWT.AccessExpiry)*time.Minute,
		!cfg.Server.IsDevelopment(),
	).RegisterRoutes(router, authRequired, rateLimiter(redisClient, cfg.RateLimit, logger))
	transport.NewCatalogHandler(categoryService, subCategoryService, offerTagService, logger).RegisterRoutes(router)
	transport.NewStoreHandler(storeService, logger).RegisterRoutes(router)
	transport.NewProductHandler(productService, logger).RegisterRoutes(router)
	transport.NewUploadHandler(uploader, logger).RegisterRoutes(router, uploadGuard)
	transport.NewDashboardHandler(transport.DashboardDeps{
		Users:         userService,
		Categories:    categoryService,
		SubCategories: subCategoryService,
		OfferTags:     offerTagService,
		Stores:        storeService,
		Products:      productService,
	}, logger).RegisterRoutes(router)

	return &Server{
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
}

func rateLimiter(redisClient *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	if redisClient == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.Requests,
		Window:            cfg.Window,
		KeyPrefix:         "ratelimit:auth",
	}, logger)
}

func healthHandler(db *sql.DB, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"status": "ok", "database": "up", "redis": "disabled"}
		code := http.StatusOK

		if err := db.PingContext(ctx); err != nil {
			status["status"] = "degraded"
			status["database"] = "down"
			code = http.StatusServiceUnavailable
		}
		if redisClient != nil {
			status["redis"] = "up"
			if err := redisClient.Ping(ctx).Err(); err != nil {
				status["redis"] = "down"
			}
		}

		custommiddleware.RespondWithJSON(w, code, status)
	}
}

// NewRedisClient connects to Redis when it is enabled. It returns nil when
// Redis is disabled or unreachable so the server can run without it.
func NewRedisClient(cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	if !cfg.Enabled {
		logger.Info("Redis disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, continuing without cache and rate limiting",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		client.Close()
		return nil
	}

	logger.Info("Connected to Redis", zap.String("addr", cfg.Addr()))
	return client
}

// NewUploader returns the Cloudinary uploader, or a disabled one when no URL is configured
func NewUploader(cfg config.CloudinaryConfig, logger *zap.Logger) (media.Uploader, error) {
	if cfg.URL == "" {
		logger.Warn("CLOUDINARY_URL not set, image uploads are disabled")
		return media.Disabled{}, nil
	}
	return media.NewCloudinaryUploader(cfg.URL, cfg.Folder, logger)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
