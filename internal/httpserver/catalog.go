package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultPurchaseLimit = 50

func (h *handlers) listCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": h.catalog.List()})
}

func (h *handlers) asset(c *gin.Context) {
	if h.assets == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
		return
	}
	data, ok := h.assets.Load(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

func (h *handlers) listPurchases(c *gin.Context) {
	if h.purchases == nil {
		c.JSON(http.StatusOK, gin.H{"purchases": []interface{}{}})
		return
	}
	limit := defaultPurchaseLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	purchases, err := h.purchases.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if purchases == nil {
		c.JSON(http.StatusOK, gin.H{"purchases": []interface{}{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}
