package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	"storefront/internal/service/profile"
	"storefront/internal/service/session"
)

type sessionService interface {
	Register(ctx context.Context, in session.RegisterInput) (string, error)
	Login(ctx context.Context, account, password string) error
	Logout(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	Current(ctx context.Context) (string, bool, error)
	UpdateProfileImage(ctx context.Context, data []byte) (string, error)
}

type profileService interface {
	Current() (profile.Profile, bool)
	Load(ctx context.Context) (profile.Profile, error)
	Refresh(ctx context.Context) <-chan error
	Reset()
}

type catalogService interface {
	List() []domain.Product
	Get(id string) (domain.Product, bool)
}

type purchaseLister interface {
	ListRecent(ctx context.Context, limit int) ([]domain.Purchase, error)
}

type assetLoader interface {
	Load(name string) ([]byte, bool)
}

// Deps carries the services behind the routes. Cart and Checkout must share one engine.
type Deps struct {
	Session     sessionService
	Profile     profileService
	Catalog     catalogService
	Purchases   purchaseLister
	Assets      assetLoader
	Cart        *cartsvc.Engine
	Checkout    *checkoutsvc.Service
	Metrics     http.Handler
	CORSOrigins []string
}

// storefront serialises access to the single cart and checkout flow.
type storefront struct {
	mu       sync.Mutex
	cart     *cartsvc.Engine
	checkout *checkoutsvc.Service
}

type handlers struct {
	logger    *log.Logger
	session   sessionService
	profile   profileService
	catalog   catalogService
	purchases purchaseLister
	assets    assetLoader
	store     *storefront
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if logger == nil {
		logger = logDiscard()
	}
	if deps.Session == nil || deps.Catalog == nil || deps.Cart == nil || deps.Checkout == nil {
		return nil, errors.New("httpserver: session, catalog, cart and checkout are required")
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(deps.CORSOrigins)))

	h := &handlers{
		logger:    logger,
		session:   deps.Session,
		profile:   deps.Profile,
		catalog:   deps.Catalog,
		purchases: deps.Purchases,
		assets:    deps.Assets,
		store:     &storefront{cart: deps.Cart, checkout: deps.Checkout},
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.POST("/logout", h.logout)
	router.GET("/catalog", h.listCatalog)
	router.GET("/assets/:name", h.asset)

	member := router.Group("/", h.requireLogin)
	member.GET("/me", h.me)
	member.DELETE("/me", h.deleteAccount)
	member.GET("/me/image", h.profileImage)
	member.PUT("/me/image", h.updateProfileImage)

	member.GET("/cart", h.getCart)
	member.POST("/cart/items", h.addToCart)
	member.DELETE("/cart/items/:id", h.removeFromCart)
	member.POST("/cart/items/:id/toggle", h.toggleCart)
	member.POST("/cart/items/:id/increase", h.increaseQuantity)
	member.POST("/cart/items/:id/decrease", h.decreaseQuantity)
	member.POST("/cart/items/:id/select", h.toggleSelected)

	member.GET("/favorites", h.listFavorites)
	member.POST("/favorites/:id", h.toggleFavorite)
	member.DELETE("/favorites/:id", h.removeFavorite)

	member.GET("/checkout", h.checkoutStatus)
	member.POST("/checkout", h.beginCheckout)
	member.POST("/checkout/confirm", h.confirmCheckout)
	member.POST("/checkout/ack", h.acknowledgeCheckout)
	member.POST("/checkout/cancel", h.cancelCheckout)

	member.GET("/purchases", h.listPurchases)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// requireLogin rejects requests when nobody is logged in.
func (h *handlers) requireLogin(c *gin.Context) {
	account, ok, err := h.session.Current(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		c.Abort()
		return
	}
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}
	c.Set("account", account)
	c.Next()
}

func (h *handlers) writeError(c *gin.Context, err error) {
	var verr *session.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, session.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid account or password"})
	case errors.Is(err, session.ErrNotLoggedIn):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
	case errors.Is(err, checkoutsvc.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		h.logger.Printf("http: %s %s error=%v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
