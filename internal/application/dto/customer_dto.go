package dto

import "time"

// CreateCustomerRequest entrada para crear un cliente.
type CreateCustomerRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Status      string  `json:"status"`
	StoreID     *string `json:"store_id"`
	AssignedTo  *string `json:"assigned_to"`
	Birthday    *string `json:"birthday"`
	Anniversary *string `json:"anniversary"`
	Notes       string  `json:"notes"`
}

// UpdateCustomerRequest campos nil no se modifican.
type UpdateCustomerRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Status      *string `json:"status"`
	StoreID     *string `json:"store_id"`
	AssignedTo  *string `json:"assigned_to"`
	Birthday    *string `json:"birthday"`
	Anniversary *string `json:"anniversary"`
	Notes       *string `json:"notes"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id"`
	StoreID     *string    `json:"store_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Status      string     `json:"status"`
	AssignedTo  *string    `json:"assigned_to"`
	CreatedBy   string     `json:"created_by"`
	Birthday    *time.Time `json:"birthday"`
	Anniversary *time.Time `json:"anniversary"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
