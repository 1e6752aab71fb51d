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

type CatalogService interface {
	Create(ctx context.Context, actor model.Actor, req dto.CreateAnimalRequest) (*dto.AnimalResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.AnimalResponse, error)
	Update(ctx context.Context, actor model.Actor, id uuid.UUID, req dto.UpdateAnimalRequest) (*dto.AnimalResponse, error)
}

type AnimalHandler struct {
	catalog CatalogService
}

func NewAnimalHandler(catalog CatalogService) *AnimalHandler {
	return &AnimalHandler{catalog: catalog}
}

func (h *AnimalHandler) Create(c *gin.Context) {
	var req dto.CreateAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	resp, err := h.catalog.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AnimalHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeInvalidID(c, "animal")
		return
	}

	resp, err := h.catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AnimalHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeInvalidID(c, "animal")
		return
	}
	var req dto.UpdateAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	resp, err := h.catalog.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
