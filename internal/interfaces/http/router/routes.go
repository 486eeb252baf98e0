package router

import (
	"net/http"

	"github.com/bilemo/api/internal/domain/account"
	"github.com/bilemo/api/internal/infrastructure/auth"
	"github.com/bilemo/api/internal/infrastructure/config"
	"github.com/bilemo/api/internal/infrastructure/logger"
	"github.com/bilemo/api/internal/interfaces/http/dto"
	"github.com/bilemo/api/internal/interfaces/http/handler"
	"github.com/bilemo/api/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Messages returned to non-admin clients on admin-only routes
const (
	DenyListClients   = "Vous n'avez pas les droits suffisants pour voir la liste des clients"
	DenyCreateClient  = "Vous n'avez pas les droits suffisants pour créer un client"
	DenyUpdateClient  = "Vous n'avez pas les droits suffisants pour mettre à jour un client"
	DenyDeleteClient  = "Vous n'avez pas les droits suffisants pour supprimer un client"
	DenyCreateProduct = "Vous n'avez pas les droits suffisants pour créer un produit"
	DenyUpdateProduct = "Vous n'avez pas les droits suffisants pour mettre à jour un produit"
	DenyDeleteProduct = "Vous n'avez pas les droits suffisants pour supprimer un produit"
)

// Handlers groups the HTTP handlers mounted by NewEngine
type Handlers struct {
	Auth     *handler.AuthHandler
	Client   *handler.ClientHandler
	Customer *handler.CustomerHandler
	Product  *handler.ProductHandler
	Health   *handler.HealthHandler
}

// Dependencies carries what the middleware chain needs
type Dependencies struct {
	HTTP       config.HTTPConfig
	JWTService *auth.JWTService
	Revoker    auth.TokenRevoker
	Roles      middleware.RoleLoader // current roles for admin-only routes
	Tracing    middleware.TracingConfig
	Logger     *zap.Logger
}

// NewEngine builds the gin engine with the middleware chain and every route
func NewEngine(deps Dependencies, h Handlers) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(deps.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}
	middleware.SetupValidator()

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(deps.Tracing)...)
	engine.Use(
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORS(deps.HTTP),
		middleware.BodyLimit(deps.HTTP.MaxBodySize),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route introuvable", c.GetString(logger.GinRequestIDKey)))
	})

	if h.Health != nil {
		engine.GET("/health", h.Health.Check)
	}

	jwtCfg := middleware.DefaultJWTConfig(deps.JWTService)
	jwtCfg.Revoker = deps.Revoker
	jwtCfg.Logger = log

	r := NewRouter(engine, WithPrefix("/api"), WithMiddleware(middleware.JWTAuthMiddlewareWithConfig(jwtCfg)))
	r.Register(NewDomainGroup("auth", "").
		POST("/login_check", h.Auth.Login))
	admin := adminGuard(deps.Roles)
	r.Register(clientRoutes(h.Client, h.Auth, admin))
	r.Register(customerRoutes(h.Customer))
	r.Register(productRoutes(h.Product, admin))
	r.Setup()

	return engine
}

// adminGuard builds the ROLE_ADMIN check answering with message on refusal
func adminGuard(roles middleware.RoleLoader) func(message string) gin.HandlerFunc {
	return func(message string) gin.HandlerFunc {
		return middleware.RequireRole(roles, account.RoleAdmin, message)
	}
}

func clientRoutes(h *handler.ClientHandler, authHandler *handler.AuthHandler, admin func(string) gin.HandlerFunc) *DomainGroup {
	return NewDomainGroup("clients", "/clients").
		GET("", admin(DenyListClients), h.List).
		POST("", admin(DenyCreateClient), h.Create).
		GET("/:id", h.GetByID).
		PUT("/:id", admin(DenyUpdateClient), h.Update).
		DELETE("/:id", admin(DenyDeleteClient), h.Delete).
		PUT("/:id/password", authHandler.ChangePassword)
}

// Ownership of customers is enforced by the service, not by role
func customerRoutes(h *handler.CustomerHandler) *DomainGroup {
	return NewDomainGroup("customers", "/customers").
		GET("", h.List).
		POST("", h.Create).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

func productRoutes(h *handler.ProductHandler, admin func(string) gin.HandlerFunc) *DomainGroup {
	return NewDomainGroup("products", "/products").
		GET("", h.List).
		POST("", admin(DenyCreateProduct), h.Create).
		GET("/:id", h.GetByID).
		PUT("/:id", admin(DenyUpdateProduct), h.Update).
		DELETE("/:id", admin(DenyDeleteProduct), h.Delete)
}
