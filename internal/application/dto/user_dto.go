package dto

import "time"

// RegisterRequest alta de una joyería nueva: crea el tenant, su primera tienda y el business_admin.
type RegisterRequest struct {
	BusinessName string `json:"business_name"`
	StoreName    string `json:"store_name"`
	City         string `json:"city"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

// CreateUserRequest alta de un miembro del equipo por el business_admin.
type CreateUserRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	StoreID  *string `json:"store_id"`
	Floor    int     `json:"floor"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	StoreID   *string   `json:"store_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Floor     int       `json:"floor"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token JWT más el usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type TenantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateStoreRequest struct {
	Name   string `json:"name"`
	City   string `json:"city"`
	Floors int    `json:"floors"`
}

type StoreResponse struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Floors   int    `json:"floors"`
}
