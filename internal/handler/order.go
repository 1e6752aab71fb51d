package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farmart/livestock-api/internal/dto"
	"github.com/farmart/livestock-api/internal/middleware"
	"github.com/farmart/livestock-api/internal/model"
	"github.com/farmart/livestock-api/internal/service"
)

type OrderService interface {
	CreateOrder(ctx context.Context, actor model.Actor) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, actor model.Actor, orderID uuid.UUID, req dto.UpdateOrderStatusRequest) (*model.Order, error)
}

type OrderQueries interface {
	GetOrder(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error)
	ListOrders(ctx context.Context, actor model.Actor, q service.ListQuery) ([]model.Order, model.Pagination, error)
	ListFarmerOrders(ctx context.Context, actor model.Actor, q service.ListQuery) ([]model.Order, model.Pagination, error)
	ListUserOrders(ctx context.Context, actor model.Actor, userID uuid.UUID, q service.ListQuery) ([]model.Order, model.Pagination, error)
	ItemsForAnimal(ctx context.Context, actor model.Actor, animalID uuid.UUID) (*model.Animal, []model.OrderItem, error)
	ListAll(ctx context.Context, q service.ListQuery) ([]model.Order, model.Pagination, error)
}

type OrderHandler struct {
	orders  OrderService
	queries OrderQueries
}

func NewOrderHandler(orders OrderService, queries OrderQueries) *OrderHandler {
	return &OrderHandler{orders: orders, queries: queries}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	order, err := h.orders.CreateOrder(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToOrderResponse(order))
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeInvalidID(c, "order")
		return
	}
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), middleware.GetActor(c), orderID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UpdateOrderStatusResponse{
		Message: "Order status updated to " + string(order.Status),
		Order:   dto.ToOrderResponse(order),
	})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

func (h *OrderHandler) GetOrderItems(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.OrderItemsResponse{
		OrderID:     order.ID,
		Items:       dto.ToOrderItemResponses(order.Items),
		ItemsCount:  order.Count(),
		TotalAmount: order.TotalAmount,
	})
}

func (h *OrderHandler) loadOrder(c *gin.Context) (*model.Order, bool) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeInvalidID(c, "order")
		return nil, false
	}
	order, err := h.queries.GetOrder(c.Request.Context(), middleware.GetActor(c), orderID)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return order, true
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	h.list(c, func(q service.ListQuery) ([]model.Order, model.Pagination, error) {
		return h.queries.ListOrders(c.Request.Context(), middleware.GetActor(c), q)
	})
}

func (h *OrderHandler) ListFarmerOrders(c *gin.Context) {
	h.list(c, func(q service.ListQuery) ([]model.Order, model.Pagination, error) {
		return h.queries.ListFarmerOrders(c.Request.Context(), middleware.GetActor(c), q)
	})
}

func (h *OrderHandler) ListUserOrders(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeInvalidID(c, "user")
		return
	}
	h.list(c, func(q service.ListQuery) ([]model.Order, model.Pagination, error) {
		return h.queries.ListUserOrders(c.Request.Context(), middleware.GetActor(c), userID, q)
	})
}

// ListAllOrders is the unscoped listing. It is only routed when explicitly
// enabled in configuration.
func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	var req dto.AdminListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBindError(c, err)
		return
	}
	q := listQuery(req.ListOrdersRequest)
	if req.CustomerID != "" {
		q.CustomerID = uuid.MustParse(req.CustomerID)
	}
	orders, page, err := h.queries.ListAll(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderList(orders, page))
}

func (h *OrderHandler) ItemsForAnimal(c *gin.Context) {
	animalID, err := uuid.Parse(c.Query("animal_id"))
	if err != nil {
		writeInvalidID(c, "animal")
		return
	}

	animal, items, err := h.queries.ItemsForAnimal(c.Request.Context(), middleware.GetActor(c), animalID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AnimalOrderItemsResponse{
		Animal:     *dto.ToAnimalSummary(animal),
		OrderItems: dto.ToOrderItemResponses(items),
		TotalItems: len(items),
	})
}

func (h *OrderHandler) list(c *gin.Context, fetch func(service.ListQuery) ([]model.Order, model.Pagination, error)) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBindError(c, err)
		return
	}
	orders, page, err := fetch(listQuery(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderList(orders, page))
}

func listQuery(req dto.ListOrdersRequest) service.ListQuery {
	return service.ListQuery{
		Page:   model.NewPage(req.Page, req.PerPage),
		Status: req.Status,
	}
}

func toOrderList(orders []model.Order, page model.Pagination) dto.OrderListResponse {
	resp := dto.OrderListResponse{
		Orders:     make([]dto.OrderSummaryResponse, 0, len(orders)),
		Pagination: dto.ToPaginationResponse(page),
	}
	for i := range orders {
		resp.Orders = append(resp.Orders, dto.ToOrderSummary(&orders[i]))
	}
	return resp
}
