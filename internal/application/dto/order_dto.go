package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea; sin product_id es una pieza a medida (description y unit_price obligatorios).
type OrderItemRequest struct {
	ProductID   *string          `json:"product_id"`
	Description string           `json:"description"`
	Quantity    int              `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
}

type CreateOrderRequest struct {
	CustomerID   string             `json:"customer_id"`
	StoreID      *string            `json:"store_id"`
	AssignedTo   *string            `json:"assigned_to"`
	DeliveryDate *time.Time         `json:"delivery_date"`
	Items        []OrderItemRequest `json:"items"`
}

type OrderItemResponse struct {
	ID          string          `json:"id"`
	ProductID   *string         `json:"product_id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type OrderResponse struct {
	ID           string              `json:"id"`
	TenantID     string              `json:"tenant_id"`
	StoreID      *string             `json:"store_id"`
	Number       string              `json:"number"`
	CustomerID   string              `json:"customer_id,omitempty"`
	CustomerName string              `json:"customer_name"`
	Status       string              `json:"status"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	TaxTotal     decimal.Decimal     `json:"tax_total"`
	Total        decimal.Decimal     `json:"total"`
	AssignedTo   *string             `json:"assigned_to"`
	CreatedBy    string              `json:"created_by"`
	DeliveryDate *time.Time          `json:"delivery_date"`
	Items        []OrderItemResponse `json:"items,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}
