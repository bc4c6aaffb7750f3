package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	checkoutsvc "storefront/internal/service/checkout"
)

type checkoutView struct {
	State         checkoutsvc.State    `json:"state"`
	Items         []domain.Product     `json:"items"`
	TotalQuantity int                  `json:"totalQuantity"`
	TotalAmount   string               `json:"totalAmount"`
	Receipt       *checkoutsvc.Receipt `json:"receipt,omitempty"`
}

// checkoutSnapshot must be called with the store lock held.
func (h *handlers) checkoutSnapshot() checkoutView {
	view := checkoutView{
		State:         h.store.checkout.State(),
		Items:         h.store.cart.SelectedItems(),
		TotalQuantity: h.store.cart.TotalSelectedQuantity(),
		TotalAmount:   h.store.cart.TotalSelectedAmount(),
	}
	if view.Items == nil {
		view.Items = []domain.Product{}
	}
	if receipt, ok := h.store.checkout.Receipt(); ok {
		view.Receipt = &receipt
	}
	return view
}

func (h *handlers) checkoutStatus(c *gin.Context) {
	h.store.mu.Lock()
	view := h.checkoutSnapshot()
	h.store.mu.Unlock()
	c.JSON(http.StatusOK, view)
}

func (h *handlers) beginCheckout(c *gin.Context) {
	h.transition(c, h.store.checkout.Begin)
}

func (h *handlers) cancelCheckout(c *gin.Context) {
	h.transition(c, h.store.checkout.Cancel)
}

func (h *handlers) acknowledgeCheckout(c *gin.Context) {
	h.transition(c, h.store.checkout.Acknowledge)
}

func (h *handlers) confirmCheckout(c *gin.Context) {
	h.store.mu.Lock()
	receipt, err := h.store.checkout.Confirm(c.Request.Context())
	h.store.mu.Unlock()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

func (h *handlers) transition(c *gin.Context, fn func() error) {
	h.store.mu.Lock()
	err := fn()
	view := h.checkoutSnapshot()
	h.store.mu.Unlock()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
