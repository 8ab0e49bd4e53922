package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateTicketRequest struct {
	CustomerID  *string `json:"customer_id"`
	Subject     string  `json:"subject"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	StoreID     *string `json:"store_id"`
	AssignedTo  *string `json:"assigned_to"`
}

type TicketResponse struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id"`
	StoreID     *string    `json:"store_id"`
	CustomerID  *string    `json:"customer_id"`
	Subject     string     `json:"subject"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	AssignedTo  *string    `json:"assigned_to"`
	CreatedBy   string     `json:"created_by"`
	ResolvedAt  *time.Time `json:"resolved_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateLeadRequest struct {
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	Source         string          `json:"source"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	StoreID        *string         `json:"store_id"`
	AssignedTo     *string         `json:"assigned_to"`
}

type LeadResponse struct {
	ID             string          `json:"id"`
	TenantID       string          `json:"tenant_id"`
	StoreID        *string         `json:"store_id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	Source         string          `json:"source"`
	Kind           string          `json:"kind"`
	Stage          string          `json:"stage"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	AssignedTo     *string         `json:"assigned_to"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
