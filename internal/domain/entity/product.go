package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa una pieza del catálogo.
type Product struct {
	ID          string
	TenantID    string
	SKU         string // código único por tenant
	Name        string
	Description string
	Category    string // rings, necklaces, earrings, bracelets, watches
	Metal       string // gold, silver, platinum
	Purity      string // 18k, 925...
	WeightGrams decimal.Decimal
	Price       decimal.Decimal
	TaxRate     decimal.Decimal
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
