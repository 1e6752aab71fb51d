package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmart/livestock-api/internal/model"
)

// --- Auth ---

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Username string `json:"username" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=farmer customer"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID       uuid.UUID  `json:"id"`
	Email    string     `json:"email"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// --- Animal ---

type CreateAnimalRequest struct {
	Name  string          `json:"name" binding:"required"`
	Type  string          `json:"type" binding:"required"`
	Breed string          `json:"breed" binding:"required"`
	Price decimal.Decimal `json:"price" binding:"required"`
}

type UpdateAnimalRequest struct {
	Name  *string          `json:"name"`
	Type  *string          `json:"type"`
	Breed *string          `json:"breed"`
	Price *decimal.Decimal `json:"price"`
}

type AnimalResponse struct {
	ID          uuid.UUID       `json:"id"`
	FarmerID    uuid.UUID       `json:"farmer_id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Breed       string          `json:"breed"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type AnimalSummaryResponse struct {
	ID          uuid.UUID       `json:"id"`
	FarmerID    uuid.UUID       `json:"farmer_id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Breed       string          `json:"breed"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"is_available"`
}

// --- Cart ---

type AddCartItemRequest struct {
	AnimalID uuid.UUID `json:"animal_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"omitempty,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CartResponse struct {
	Items       []CartItemResponse `json:"cart_items"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	TotalItems  int                `json:"total_items"`
}

type CartItemResponse struct {
	ID       uuid.UUID              `json:"id"`
	AnimalID uuid.UUID              `json:"animal_id"`
	Quantity int                    `json:"quantity"`
	Animal   *AnimalSummaryResponse `json:"animal,omitempty"`
}

// --- Order ---

type UpdateOrderStatusRequest struct {
	Status      string  `json:"status" binding:"required"`
	FarmerNotes *string `json:"farmer_notes"`
}

type ListOrdersRequest struct {
	Page    int    `form:"page,default=1" binding:"min=1"`
	PerPage int    `form:"per_page,default=20" binding:"min=1,max=100"`
	Status  string `form:"status" binding:"omitempty,oneof=pending confirmed rejected completed"`
}

type AdminListOrdersRequest struct {
	ListOrdersRequest
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
}

type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	CustomerID  uuid.UUID           `json:"customer_id"`
	Status      model.OrderStatus   `json:"status"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	FarmerNotes *string             `json:"farmer_notes"`
	Items       []OrderItemResponse `json:"items"`
	ItemsCount  int                 `json:"items_count"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type OrderSummaryResponse struct {
	ID          uuid.UUID         `json:"id"`
	CustomerID  uuid.UUID         `json:"customer_id"`
	Status      model.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	ItemsCount  int               `json:"items_count"`
	CreatedAt   time.Time         `json:"created_at"`
}

type OrderItemResponse struct {
	ID       uuid.UUID              `json:"id"`
	OrderID  uuid.UUID              `json:"order_id"`
	AnimalID uuid.UUID              `json:"animal_id"`
	Animal   *AnimalSummaryResponse `json:"animal"`
	Quantity int                    `json:"quantity"`
	Price    decimal.Decimal        `json:"price"`
	Subtotal decimal.Decimal        `json:"subtotal"`
}

type PaginationResponse struct {
	Total       int  `json:"total"`
	Pages       int  `json:"pages"`
	CurrentPage int  `json:"current_page"`
	PerPage     int  `json:"per_page"`
	HasNext     bool `json:"has_next"`
	HasPrev     bool `json:"has_prev"`
}

type OrderListResponse struct {
	Orders     []OrderSummaryResponse `json:"orders"`
	Pagination PaginationResponse     `json:"pagination"`
}

type OrderItemsResponse struct {
	OrderID     uuid.UUID           `json:"order_id"`
	Items       []OrderItemResponse `json:"items"`
	ItemsCount  int                 `json:"items_count"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
}

type AnimalOrderItemsResponse struct {
	Animal     AnimalSummaryResponse `json:"animal"`
	OrderItems []OrderItemResponse   `json:"order_items"`
	TotalItems int                   `json:"total_items"`
}

type UpdateOrderStatusResponse struct {
	Message string        `json:"message"`
	Order   OrderResponse `json:"order"`
}

// --- Mappers ---

func ToAnimalResponse(a *model.Animal) AnimalResponse {
	return AnimalResponse{
		ID: a.ID, FarmerID: a.FarmerID, Name: a.Name, Type: a.Type, Breed: a.Breed,
		Price: a.Price, IsAvailable: a.IsAvailable, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
	}
}

func ToAnimalSummary(a *model.Animal) *AnimalSummaryResponse {
	if a == nil {
		return nil
	}
	return &AnimalSummaryResponse{
		ID: a.ID, FarmerID: a.FarmerID, Name: a.Name, Type: a.Type, Breed: a.Breed,
		Price: a.Price, IsAvailable: a.IsAvailable,
	}
}

func ToOrderItemResponses(items []model.OrderItem) []OrderItemResponse {
	out := make([]OrderItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, OrderItemResponse{
			ID:       item.ID,
			OrderID:  item.OrderID,
			AnimalID: item.AnimalID,
			Animal:   ToAnimalSummary(item.Animal),
			Quantity: item.Quantity,
			Price:    item.Price,
			Subtotal: item.Subtotal(),
		})
	}
	return out
}

// ToOrderResponse is the detailed projection with nested items.
func ToOrderResponse(o *model.Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		FarmerNotes: o.FarmerNotes,
		Items:       ToOrderItemResponses(o.Items),
		ItemsCount:  o.Count(),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// ToOrderSummary is the list projection: counts items instead of embedding them.
func ToOrderSummary(o *model.Order) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		ItemsCount:  o.Count(),
		CreatedAt:   o.CreatedAt,
	}
}

func ToPaginationResponse(p model.Pagination) PaginationResponse {
	return PaginationResponse{
		Total: p.Total, Pages: p.Pages, CurrentPage: p.CurrentPage,
		PerPage: p.PerPage, HasNext: p.HasNext, HasPrev: p.HasPrev,
	}
}
