// Package ports contratos de salida de la capa de aplicación. Los adaptadores viven en infrastructure.
package ports

import (
	"context"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
)

// ChangePublisher anuncia "algo cambió en la tabla X" después de cada mutación exitosa.
// Un fallo al publicar no revierte la mutación.
type ChangePublisher interface {
	Publish(ctx context.Context, ev entity.ChangeEvent) error
}

// CatalogIndex búsqueda de texto del catálogo. Si no está disponible se usa ILIKE en Postgres.
type CatalogIndex interface {
	Index(ctx context.Context, products ...*entity.Product) error
	Remove(ctx context.Context, id string) error
	// Search devuelve IDs en orden de relevancia.
	Search(ctx context.Context, tenantID, query string, limit int) ([]string, error)
}

// ReceiptRenderer genera el comprobante PDF de un pedido.
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, order *entity.Order, tenant *entity.Tenant, store *entity.Store) ([]byte, error)
}
