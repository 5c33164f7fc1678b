package handler

import (
	"custodial-wallet/internal/adapter/http/middleware"
	redisStore "custodial-wallet/internal/adapter/storage/redis"
	"custodial-wallet/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	RegistrationSvc ports.RegistrationService
	LedgerSvc       ports.LedgerService
	CryptoSvc       ports.CryptoLedgerService
	RecipientSvc    ports.RecipientService
	StatementSvc    ports.StatementService
	TokenSvc        ports.TokenService           // nil = identity gate disabled
	RateLimitStore  *redisStore.RateLimitStore   // nil = rate limiting disabled
	HealthCheckers  []ports.HealthChecker
	Logger          zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis when configured)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	api := r.Group("/api")

	// The identity gate is optional: the demo trusts the email each request
	// names unless a token service is wired in.
	authed := func() gin.HandlerFunc {
		if deps.TokenSvc == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.IdentityAuth(deps.TokenSvc, deps.Logger)
	}()

	if deps.TokenSvc != nil {
		tokenHandler := NewTokenHandler(deps.TokenSvc)
		api.POST("/auth/token", rl("auth_token"), tokenHandler.Issue)
	}

	userHandler := NewUserHandler(deps.RegistrationSvc)
	user := api.Group("/user", authed)
	{
		user.GET("", rl("user"), userHandler.GetUser)
		user.POST("", rl("user"), userHandler.RegisterUser)
		user.DELETE("", rl("user"), userHandler.ResetUser)
	}

	recipientHandler := NewRecipientHandler(deps.RecipientSvc)
	api.GET("/recipients", authed, rl("recipients"), recipientHandler.List)

	transactionHandler := NewTransactionHandler(deps.LedgerSvc, deps.CryptoSvc)
	transactions := api.Group("/transactions", authed)
	{
		transactions.GET("", rl("transactions"), transactionHandler.List)
		transactions.POST("", rl("transactions"), transactionHandler.Create)
	}

	statementHandler := NewStatementHandler(deps.StatementSvc)
	api.GET("/statements", authed, rl("statements"), statementHandler.Export)

	return r
}
