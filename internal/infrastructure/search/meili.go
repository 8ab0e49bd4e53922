// Package search índice de texto del catálogo sobre Meilisearch.
// Si Meilisearch no responde el caso de uso cae a ILIKE en PostgreSQL.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
	"github.com/rs/zerolog"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
)

const idxProducts = "crm_products"

// ProductDocument forma indexada de una pieza.
type ProductDocument struct {
	ID          string  `json:"id"`
	TenantID    string  `json:"tenantId"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Metal       string  `json:"metal"`
	Purity      string  `json:"purity"`
	Price       float64 `json:"price"` // solo para ordenar; el monto exacto vive en PostgreSQL
	InStock     bool    `json:"inStock"`
}

// Meili implementa ports.CatalogIndex.
type Meili struct {
	client  meili.ServiceManager
	log     zerolog.Logger
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili crea el cliente y configura el índice. Nunca falla: si Meilisearch no está
// disponible queda marcado como no sano y un monitor lo reconfigura al recuperarse.
func NewMeili(url, apiKey string, log zerolog.Logger) *Meili {
	m := &Meili{
		client: meili.New(url, meili.WithAPIKey(apiKey)),
		log:    log.With().Str("component", "search").Logger(),
		done:   make(chan struct{}),
	}
	if _, err := m.client.Health(); err != nil {
		m.log.Warn().Err(err).Str("url", url).Msg("meilisearch no disponible")
	} else {
		m.healthy.Store(true)
		m.configure()
	}
	go m.healthLoop()
	return m
}

func (m *Meili) configure() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{Uid: idxProducts, PrimaryKey: "id"}); err != nil {
		m.log.Debug().Err(err).Msg("create index (puede existir)")
	}
	index := m.client.Index(idxProducts)
	filterable := []interface{}{"tenantId", "category", "metal", "inStock"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		m.log.Warn().Err(err).Msg("filterable attributes")
	}
	searchable := []string{"name", "sku", "description", "category", "metal", "purity"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		m.log.Warn().Err(err).Msg("searchable attributes")
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			was := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !was {
				m.log.Info().Msg("meilisearch recuperado, reconfigurando índice")
				m.configure()
			}
		}
	}
}

// Close detiene el monitor de salud.
func (m *Meili) Close() { close(m.done) }

// Healthy indica si Meilisearch responde.
func (m *Meili) Healthy() bool { return m.healthy.Load() }

// Index agrega o reemplaza documentos.
func (m *Meili) Index(_ context.Context, products ...*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	docs := make([]ProductDocument, 0, len(products))
	for _, p := range products {
		docs = append(docs, ToDocument(p))
	}
	if _, err := m.client.Index(idxProducts).AddDocuments(docs, nil); err != nil {
		return fmt.Errorf("meilisearch add documents: %w", err)
	}
	return nil
}

// Remove quita un producto del índice.
func (m *Meili) Remove(_ context.Context, id string) error {
	if _, err := m.client.Index(idxProducts).DeleteDocument(id, nil); err != nil {
		return fmt.Errorf("meilisearch delete document: %w", err)
	}
	return nil
}

// Search IDs de productos del tenant en orden de relevancia.
func (m *Meili) Search(_ context.Context, tenantID, query string, limit int) ([]string, error) {
	if !m.healthy.Load() {
		return nil, fmt.Errorf("meilisearch unhealthy")
	}
	if limit <= 0 {
		limit = 20
	}
	resp, err := m.client.Index(idxProducts).Search(query, &meili.SearchRequest{
		Limit:                int64(limit),
		Filter:               TenantFilter(tenantID),
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		m.healthy.Store(false)
		return nil, fmt.Errorf("meilisearch search: %w", err)
	}
	ids := make([]string, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		if id := hitID(hit); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// TenantFilter expresión de filtro de Meilisearch.
func TenantFilter(tenantID string) string {
	return "tenantId = " + strconv.Quote(tenantID)
}

// ToDocument proyección indexable de un producto.
func ToDocument(p *entity.Product) ProductDocument {
	price, _ := p.Price.Float64()
	return ProductDocument{
		ID:          p.ID,
		TenantID:    p.TenantID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Metal:       p.Metal,
		Purity:      p.Purity,
		Price:       price,
		InStock:     p.Stock > 0,
	}
}

func hitID(hit meili.Hit) string {
	raw, ok := hit["id"]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}
