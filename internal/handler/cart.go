package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farmart/livestock-api/internal/dto"
	"github.com/farmart/livestock-api/internal/middleware"
	"github.com/farmart/livestock-api/internal/model"
)

type CartService interface {
	GetCart(ctx context.Context, actor model.Actor) (*dto.CartResponse, error)
	AddItem(ctx context.Context, actor model.Actor, req dto.AddCartItemRequest) (*dto.CartItemResponse, error)
	UpdateItem(ctx context.Context, actor model.Actor, itemID uuid.UUID, quantity int) (*dto.CartItemResponse, error)
	DeleteItem(ctx context.Context, actor model.Actor, itemID uuid.UUID) error
	Clear(ctx context.Context, actor model.Actor) error
}

type CartHandler struct {
	svc CartService
}

func NewCartHandler(svc CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.svc.GetCart(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	item, err := h.svc.AddItem(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeInvalidID(c, "cart item")
		return
	}
	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	item, err := h.svc.UpdateItem(c.Request.Context(), middleware.GetActor(c), itemID, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CartHandler) DeleteItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeInvalidID(c, "cart item")
		return
	}

	if err := h.svc.DeleteItem(c.Request.Context(), middleware.GetActor(c), itemID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context(), middleware.GetActor(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
