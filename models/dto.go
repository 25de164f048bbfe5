package models

import "time"

// Request payloads. Validation that gin's binding tags can express lives
// here; everything else (existence, stock) is checked by the services.

type OrderItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	UserID          int64              `json:"userId" binding:"required"`
	ShippingAddress string             `json:"shippingAddress" binding:"required"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"min=0"`
	Stock       int     `json:"stock" binding:"min=0"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
}

// ProductSearchCriteria carries the optional search filters; nil means the
// filter is not applied. Filters combine with AND.
type ProductSearchCriteria struct {
	Name     *string
	Category *string
	MinPrice *float64
	MaxPrice *float64
	Active   *bool
}

// Outbound projections.

type ProductDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
	Active      bool    `json:"active"`
}

type OrderItemDTO struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Subtotal    float64 `json:"subtotal"`
}

type OrderDTO struct {
	ID              int64          `json:"id"`
	UserID          int64          `json:"userId"`
	Status          OrderStatus    `json:"status"`
	ShippingAddress string         `json:"shippingAddress"`
	TotalAmount     float64        `json:"totalAmount"`
	CreatedAt       time.Time      `json:"createdAt"`
	Items           []OrderItemDTO `json:"items"`
}

type UserDTO struct {
	ID        int64    `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Role      UserRole `json:"role"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// PagedResponse is the pagination envelope shared by all list endpoints.
type PagedResponse[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	IsLastPage    bool  `json:"isLastPage"`
}

// NewPagedResponse derives the page metadata from the total element count.
func NewPagedResponse[T any](content []T, page, size int, total int64) PagedResponse[T] {
	totalPages := int((total + int64(size) - 1) / int64(size))
	return PagedResponse[T]{
		Content:       content,
		PageNumber:    page,
		PageSize:      size,
		TotalElements: total,
		TotalPages:    totalPages,
		IsLastPage:    page >= totalPages-1,
	}
}
