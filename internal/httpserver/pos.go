package httpserver

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pos-terminal/internal/backend"
	"pos-terminal/internal/domain"
	"pos-terminal/internal/session"
)

type posHandlers struct {
	session *session.Session
	backend *backend.Client
	logger  *log.Logger
}

type addItemRequest struct {
	ID       int64   `json:"id" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Category string  `json:"category"`
	Price    float64 `json:"price" binding:"gte=0"`
}

type adjustRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type editItemRequest struct {
	Note  string `json:"note"`
	Price string `json:"price"`
}

type amountRequest struct {
	Amount float64 `json:"amount" binding:"gte=0"`
}

type percentRequest struct {
	Percent float64 `json:"percent" binding:"gte=0"`
}

func (h posHandlers) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.View())
}

func (h posHandlers) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.session.AddItem(c.Request.Context(), domain.Product{
		ID:       req.ID,
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
	})
	c.JSON(http.StatusOK, h.session.View())
}

func (h posHandlers) adjustQuantity(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.session.AdjustQuantity(c.Request.Context(), index, req.Delta)
	c.JSON(http.StatusOK, h.session.View())
}

func (h posHandlers) editItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}
	var req editItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.session.EditItem(c.Request.Context(), index, req.Note, req.Price, isAdmin(c))
	c.JSON(http.StatusOK, h.session.View())
}

func (h posHandlers) removeItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}
	h.session.RemoveItem(c.Request.Context(), index)
	c.JSON(http.StatusOK, h.session.View())
}

func (h posHandlers) clearCart(c *gin.Context) {
	h.session.Clear(c.Request.Context())
	c.JSON(http.StatusOK, h.session.View())
}

func (h posHandlers) setCash(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.session.SetCash(c.Request.Context(), req.Amount)
	c.JSON(http.StatusOK, h.session.View())
}

func (h posHandlers) setSurcharge(c *gin.Context) {
	var req percentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.session.SetSurchargePercent(c.Request.Context(), req.Percent)
	c.JSON(http.StatusOK, h.session.View())
}

func (h posHandlers) selectTable(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid table id"})
		return
	}
	tables, err := h.backend.ListTables(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "table list unavailable"})
		return
	}
	for _, table := range tables {
		if table.ID != id {
			continue
		}
		if table.Status == domain.TableDisabled {
			c.JSON(http.StatusConflict, gin.H{"error": "table is disabled"})
			return
		}
		h.session.SelectTable(c.Request.Context(), table)
		c.JSON(http.StatusOK, h.session.View())
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
}

func (h posHandlers) selectTakeAway(c *gin.Context) {
	h.session.SelectTakeAway(c.Request.Context())
	c.JSON(http.StatusOK, h.session.View())
}

func (h posHandlers) notifyKitchen(c *gin.Context) {
	if err := h.session.NotifyKitchen(c.Request.Context()); err != nil {
		if errors.Is(err, domain.ErrNothingToFire) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Printf("notify kitchen: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "pending order submission failed"})
		return
	}
	c.JSON(http.StatusOK, h.session.View())
}

func (h posHandlers) checkout(c *gin.Context) {
	receipt, err := h.session.Checkout(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyCart), errors.Is(err, domain.ErrInsufficientCash):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Printf("checkout: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "order submission failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orderId":   receipt.OrderID,
		"createdAt": receipt.CreatedAt,
		"cart":      h.session.View(),
	})
}

func (h posHandlers) listProducts(c *gin.Context) {
	products, err := h.backend.SearchProducts(c.Request.Context(), c.Query("category"), c.Query("search"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "product catalog unavailable"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h posHandlers) listTables(c *gin.Context) {
	tables, err := h.backend.ListTables(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "table list unavailable"})
		return
	}
	c.JSON(http.StatusOK, tables)
}
