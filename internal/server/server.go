package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/iamkashifkhn/parkfinder-consumer/internal/auth"
	"github.com/iamkashifkhn/parkfinder-consumer/internal/booking"
	"github.com/iamkashifkhn/parkfinder-consumer/internal/config"
	"github.com/iamkashifkhn/parkfinder-consumer/internal/draft"
	"github.com/iamkashifkhn/parkfinder-consumer/internal/pricing"
	"github.com/iamkashifkhn/parkfinder-consumer/internal/review"
	"github.com/iamkashifkhn/parkfinder-consumer/internal/upstream"
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *config.Config
}

func New(cfg *config.Config, database *sqlx.DB, rdb *redis.Client) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())

	upstreamClient := upstream.New(cfg.UpstreamAPIURL, cfg.UpstreamTimeout)

	pricingService := pricing.NewService(upstreamClient, rdb, cfg.QuoteCacheTTL)
	pricingHandler := pricing.NewHandler(pricingService)

	draftService := draft.NewService(draft.NewPostgresStore(database))
	draftHandler := draft.NewHandler(draftService)

	bookingClient := booking.NewClient(upstreamClient)
	guard := booking.NewGuard(rdb, cfg.BookingLockTTL)
	bookingService := booking.NewService(bookingClient, draftService, guard, cfg.StripePublishableKey)
	bookingHandler := booking.NewHandler(bookingService)

	reviewService := review.NewService(review.NewClient(upstreamClient), bookingService)
	reviewHandler := review.NewHandler(reviewService)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		// Quotes hit the upstream pricing endpoint on every date change, so
		// this route alone is rate limited.
		protected.GET("/parking/:id/quote", RateLimitMiddleware(10, 20), pricingHandler.GetQuote)

		protected.POST("/drafts", draftHandler.CreateDraft)
		protected.GET("/drafts/:draftID", draftHandler.GetDraft)
		protected.PATCH("/drafts/:draftID", draftHandler.SetBookingDetails)
		protected.DELETE("/drafts/:draftID", draftHandler.ClearDraft)
		protected.POST("/drafts/:draftID/book", bookingHandler.BookDraft)

		protected.GET("/bookings", bookingHandler.ListBookings)
		protected.GET("/bookings/:bookingID", bookingHandler.GetBooking)
		protected.DELETE("/bookings/:bookingID", bookingHandler.CancelBooking)
		protected.GET("/bookings/:bookingID/payment-session", bookingHandler.PaymentSession)
		protected.POST("/bookings/:bookingID/payment-result", bookingHandler.ApplyPaymentResult)
		protected.POST("/bookings/:bookingID/review", reviewHandler.CreateReview)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.httpServer = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
