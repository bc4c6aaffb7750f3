package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

type addToCartRequest struct {
	ID string `json:"id"`
}

type cartView struct {
	Items         []domain.Product `json:"items"`
	TotalQuantity int              `json:"totalQuantity"`
	TotalAmount   string           `json:"totalAmount"`
}

// cartSnapshot must be called with the store lock held.
func (h *handlers) cartSnapshot() cartView {
	return cartView{
		Items:         h.store.cart.Items(),
		TotalQuantity: h.store.cart.TotalSelectedQuantity(),
		TotalAmount:   h.store.cart.TotalSelectedAmount(),
	}
}

// catalogItem resolves :id against the catalog and writes 404 when it is unknown.
func (h *handlers) catalogItem(c *gin.Context, id string) (domain.Product, bool) {
	p, ok := h.catalog.Get(strings.TrimSpace(id))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return domain.Product{}, false
	}
	return p.CartLine(), true
}

func (h *handlers) getCart(c *gin.Context) {
	h.store.mu.Lock()
	view := h.cartSnapshot()
	h.store.mu.Unlock()
	c.JSON(http.StatusOK, view)
}

func (h *handlers) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}
	p, ok := h.catalogItem(c, req.ID)
	if !ok {
		return
	}
	h.mutateCart(c, func() { h.store.cart.AddToCart(p) })
}

func (h *handlers) toggleCart(c *gin.Context) {
	p, ok := h.catalogItem(c, c.Param("id"))
	if !ok {
		return
	}
	h.mutateCart(c, func() { h.store.cart.ToggleCart(p) })
}

func (h *handlers) removeFromCart(c *gin.Context) {
	id := c.Param("id")
	h.mutateCart(c, func() { h.store.cart.RemoveFromCart(id) })
}

func (h *handlers) increaseQuantity(c *gin.Context) {
	id := c.Param("id")
	h.mutateCart(c, func() { h.store.cart.IncreaseQuantity(id) })
}

func (h *handlers) decreaseQuantity(c *gin.Context) {
	id := c.Param("id")
	h.mutateCart(c, func() { h.store.cart.DecreaseQuantity(id) })
}

func (h *handlers) toggleSelected(c *gin.Context) {
	id := c.Param("id")
	h.mutateCart(c, func() { h.store.cart.ToggleSelected(id) })
}

func (h *handlers) mutateCart(c *gin.Context, fn func()) {
	h.store.mu.Lock()
	fn()
	view := h.cartSnapshot()
	h.store.mu.Unlock()
	c.JSON(http.StatusOK, view)
}

func (h *handlers) listFavorites(c *gin.Context) {
	h.store.mu.Lock()
	favorites := h.store.cart.Favorites()
	h.store.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

func (h *handlers) toggleFavorite(c *gin.Context) {
	p, ok := h.catalogItem(c, c.Param("id"))
	if !ok {
		return
	}
	h.store.mu.Lock()
	h.store.cart.ToggleFavorite(p)
	favorite := h.store.cart.IsFavorite(p.ID)
	favorites := h.store.cart.Favorites()
	h.store.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"id": p.ID, "isFavorite": favorite, "favorites": favorites})
}

func (h *handlers) removeFavorite(c *gin.Context) {
	h.store.mu.Lock()
	h.store.cart.RemoveFromFavorites(c.Param("id"))
	favorites := h.store.cart.Favorites()
	h.store.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}
