// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "vendora/docs" // swagger docs
	"vendora/internal/authz"
	"vendora/internal/cache"
	"vendora/internal/config"
	"vendora/internal/coupon"
	"vendora/internal/database"
	"vendora/internal/featureflags"
	"vendora/internal/mail"
	"vendora/internal/middleware"
	"vendora/internal/models"
	"vendora/internal/observability"
	"vendora/internal/repository"
	"vendora/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo        repository.UserRepository
	storeRepo       repository.StoreRepository
	productRepo     repository.ProductRepository
	teamRepo        repository.TeamRepository
	subscriberRepo  repository.SubscriberRepository
	campaignRepo    repository.CampaignRepository
	couponRepo      repository.CouponRepository
	seoRepo         repository.SeoRepository
	integrationRepo repository.IntegrationRepository

	resolver     *authz.Resolver
	couponEngine *coupon.Engine
	featureFlags *featureflags.Manager

	storeService        *service.StoreService
	productService      *service.ProductService
	teamService         *service.TeamService
	marketingService    *service.MarketingService
	seoService          *service.SeoService
	integrationsService *service.IntegrationsService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	s := &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		promMiddleware:  middleware.InitMetrics("vendora-api"),
		userRepo:        repository.NewUserRepository(db),
		storeRepo:       repository.NewStoreRepository(db),
		productRepo:     repository.NewProductRepository(db),
		teamRepo:        repository.NewTeamRepository(db),
		subscriberRepo:  repository.NewSubscriberRepository(db),
		campaignRepo:    repository.NewCampaignRepository(db),
		couponRepo:      repository.NewCouponRepository(db),
		seoRepo:         repository.NewSeoRepository(db),
		integrationRepo: repository.NewIntegrationRepository(db),
		featureFlags:    featureflags.NewManager(cfg.FeatureFlags),
	}

	s.resolver = authz.NewResolver(s.storeRepo, s.teamRepo, nil)
	s.couponEngine = coupon.NewEngine(db, s.userRepo, nil)

	mailer := mail.NewDispatcher(cfg, nil)
	s.storeService = service.NewStoreService(s.storeRepo)
	s.productService = service.NewProductService(s.productRepo)
	s.teamService = service.NewTeamService(s.teamRepo, s.storeRepo, s.userRepo, s.resolver, mailer, nil)
	s.marketingService = service.NewMarketingService(s.subscriberRepo, s.campaignRepo, s.couponRepo, nil)
	s.seoService = service.NewSeoService(s.seoRepo, s.productRepo)
	s.integrationsService = service.NewIntegrationsService(s.integrationRepo)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Vendora Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/refresh", s.Refresh)
	auth.Post("/logout", s.Logout)

	// Public storefront reads (no auth)
	public := api.Group("/public")
	public.Get("/stores/:storeId/sitemap", s.GetSitemapData)
	public.Get("/stores/:storeId", s.GetPublicStore)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// Current-user routes
	me := protected.Group("/me")
	me.Get("/stores", s.GetMyStores)
	me.Get("/invitations", s.GetMyInvitations)
	me.Get("/feature-flags", s.GetFeatureFlags)

	// Invitation responses are addressed by invitation ID, not store, since
	// the invitee holds no role in the store yet.
	invitations := protected.Group("/invitations")
	invitations.Post("/:invitationId/accept", s.AcceptInvitation)
	invitations.Post("/:invitationId/decline", s.DeclineInvitation)

	// Store provisioning and store-scoped routes
	protected.Post("/stores", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "create_store"), s.CreateStore)

	stores := protected.Group("/stores/:storeId")
	stores.Get("/", s.RequirePermission(authz.ActionRead, authz.SubjectStore), s.GetStore)
	stores.Put("/", s.RequirePermission(authz.ActionUpdate, authz.SubjectStore), s.UpdateStore)
	stores.Patch("/", s.RequirePermission(authz.ActionUpdate, authz.SubjectStore), s.UpdateStore)
	stores.Delete("/", s.RequirePermission(authz.ActionDelete, authz.SubjectStore), s.DeleteStore)

	// Product routes
	products := stores.Group("/products")
	products.Get("/", s.RequirePermission(authz.ActionRead, authz.SubjectProduct), s.GetProducts)
	products.Post("/", s.RequirePermission(authz.ActionCreate, authz.SubjectProduct), s.CreateProduct)
	// Specific /:productId/:resource routes BEFORE generic /:productId
	products.Get("/:productId/seo", s.RequirePermission(authz.ActionRead, authz.SubjectSeo), s.GetProductSeoSettings)
	products.Put("/:productId/seo", s.RequirePermission(authz.ActionUpdate, authz.SubjectSeo), s.UpdateProductSeoSettings)
	products.Get("/:productId", s.RequirePermission(authz.ActionRead, authz.SubjectProduct), s.GetProduct)
	products.Put("/:productId", s.RequirePermission(authz.ActionUpdate, authz.SubjectProduct), s.UpdateProduct)
	products.Delete("/:productId", s.RequirePermission(authz.ActionDelete, authz.SubjectProduct), s.DeleteProduct)

	// Team routes
	team := stores.Group("/team")
	team.Get("/members", s.RequirePermission(authz.ActionRead, authz.SubjectTeam), s.GetTeamMembers)
	team.Put("/members/:userId/role", s.RequirePermission(authz.ActionUpdate, authz.SubjectTeam), s.UpdateTeamMemberRole)
	team.Delete("/members/:userId", s.RequirePermission(authz.ActionDelete, authz.SubjectTeam), s.RemoveTeamMember)
	team.Get("/invitations", s.RequirePermission(authz.ActionRead, authz.SubjectTeam), s.GetTeamInvitations)
	team.Post("/invitations", s.RequirePermission(authz.ActionCreate, authz.SubjectTeam), s.InviteTeamMember)

	// Marketing routes
	subscribers := stores.Group("/subscribers")
	subscribers.Get("/", s.RequirePermission(authz.ActionRead, authz.SubjectMarketing), s.GetSubscribers)
	subscribers.Post("/", s.RequirePermission(authz.ActionCreate, authz.SubjectMarketing), s.AddSubscriber)
	subscribers.Post("/unsubscribe", s.RequirePermission(authz.ActionUpdate, authz.SubjectMarketing), s.Unsubscribe)
	subscribers.Delete("/:subscriberId", s.RequirePermission(authz.ActionDelete, authz.SubjectMarketing), s.DeleteSubscriber)

	campaigns := stores.Group("/campaigns")
	campaigns.Get("/", s.RequirePermission(authz.ActionRead, authz.SubjectMarketing), s.GetCampaigns)
	campaigns.Post("/", s.RequirePermission(authz.ActionCreate, authz.SubjectMarketing), s.CreateCampaign)
	campaigns.Get("/:campaignId", s.RequirePermission(authz.ActionRead, authz.SubjectMarketing), s.GetCampaign)
	campaigns.Put("/:campaignId", s.RequirePermission(authz.ActionUpdate, authz.SubjectMarketing), s.UpdateCampaign)
	campaigns.Delete("/:campaignId", s.RequirePermission(authz.ActionDelete, authz.SubjectMarketing), s.DeleteCampaign)

	coupons := stores.Group("/coupons")
	coupons.Get("/", s.RequirePermission(authz.ActionRead, authz.SubjectMarketing), s.GetCoupons)
	coupons.Post("/", s.RequirePermission(authz.ActionCreate, authz.SubjectMarketing), s.CreateCoupon)
	// Checkout callbacks: any authenticated customer, no team role needed.
	coupons.Post("/validate", s.ValidateCoupon)
	coupons.Post("/redeem", s.RedeemCoupon)
	coupons.Get("/:couponId/usages", s.RequirePermission(authz.ActionRead, authz.SubjectMarketing), s.GetCouponUsages)
	coupons.Get("/:couponId", s.RequirePermission(authz.ActionRead, authz.SubjectMarketing), s.GetCoupon)
	coupons.Put("/:couponId", s.RequirePermission(authz.ActionUpdate, authz.SubjectMarketing), s.UpdateCoupon)
	coupons.Delete("/:couponId", s.RequirePermission(authz.ActionDelete, authz.SubjectMarketing), s.DeleteCoupon)

	// SEO routes
	seo := stores.Group("/seo")
	seo.Get("/", s.RequirePermission(authz.ActionRead, authz.SubjectSeo), s.GetStoreSeoSettings)
	seo.Put("/", s.RequirePermission(authz.ActionUpdate, authz.SubjectSeo), s.UpdateStoreSeoSettings)

	// Integration routes
	widgets := stores.Group("/widgets")
	widgets.Get("/", s.RequirePermission(authz.ActionRead, authz.SubjectIntegrations), s.GetWidgets)
	widgets.Post("/", s.RequirePermission(authz.ActionCreate, authz.SubjectIntegrations), s.CreateWidget)
	widgets.Get("/:widgetId", s.RequirePermission(authz.ActionRead, authz.SubjectIntegrations), s.GetWidget)
	widgets.Put("/:widgetId", s.RequirePermission(authz.ActionUpdate, authz.SubjectIntegrations), s.UpdateWidget)
	widgets.Delete("/:widgetId", s.RequirePermission(authz.ActionDelete, authz.SubjectIntegrations), s.DeleteWidget)

	tracking := stores.Group("/tracking")
	tracking.Get("/", s.RequirePermission(authz.ActionRead, authz.SubjectIntegrations), s.GetTrackingIntegrations)
	tracking.Put("/", s.RequirePermission(authz.ActionUpdate, authz.SubjectIntegrations), s.UpsertTrackingIntegration)
	tracking.Delete("/:provider", s.RequirePermission(authz.ActionDelete, authz.SubjectIntegrations), s.DeleteTrackingIntegration)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The API degrades without redis (no cache, fail-open rate limits)
		// but stays serviceable, so a missing client does not fail readiness.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := middleware.BearerToken(c.Get("Authorization"))
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, claims, err := middleware.ParseUserID(tokenString, s.config.JWTSecret)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(err.Error()))
		}

		// Check JTI for revocation
		if jti, exists := claims["jti"].(string); exists && jti != "" {
			if s.redis != nil {
				isBlacklisted, err := s.redis.Exists(c.Context(), "blacklist:"+jti).Result()
				if err == nil && isBlacklisted > 0 {
					return models.RespondWithError(c, fiber.StatusUnauthorized,
						models.NewUnauthorizedError("Token has been revoked"))
				}
			}
		}

		// Store user ID in context
		c.Locals("userID", userID)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// RequirePermission returns middleware that runs the store-scoped permission
// check for the route's module subject. Must be placed after AuthRequired so
// that userID is available in locals. The error strings in the decision are
// part of the API contract and map onto fixed HTTP statuses.
func (s *Server) RequirePermission(action authz.Action, subject authz.Subject) fiber.Handler {
	checker := s.resolver.Within(subject)
	return func(c *fiber.Ctx) error {
		storeID := c.Params("storeId")
		userID, _ := c.Locals("userID").(string)

		decision, err := checker.Require(c.Context(), storeID, userID, action, subject)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}

		if decision.Allowed {
			observability.AuthzDecisions.WithLabelValues(string(subject), "allowed").Inc()
			c.Locals("role", decision.Role)
			return c.Next()
		}

		observability.AuthzDecisions.WithLabelValues(string(subject), "denied").Inc()
		switch decision.Error {
		case authz.MsgUnauthorized:
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(decision.Error))
		case authz.MsgStoreNotFound:
			return models.RespondWithError(c, fiber.StatusNotFound,
				&models.AppError{Code: "NOT_FOUND", Message: decision.Error})
		default:
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError(decision.Error))
		}
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Vendora API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
