package dto

// ListQuery parámetros de listado. From/To aceptan fecha (2006-01-02) o RFC3339.
type ListQuery struct {
	Status string `query:"status"`
	Search string `query:"search"`
	Store  string `query:"store"`
	From   string `query:"from"`
	To     string `query:"to"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
	// All sin paginar; solo para llamadas internas (dashboard).
	All bool `query:"-"`
}

// DefaultPage aplica límites: 0 = 200, máximo 500.
func (q *ListQuery) DefaultPage() {
	if q.Limit <= 0 {
		q.Limit = 200
	}
	if q.Limit > 500 {
		q.Limit = 500
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// Page recorta items según Limit/Offset (tras DefaultPage) y devuelve también el total.
func Page[T any](items []T, q ListQuery) ([]T, int) {
	total := len(items)
	if q.All {
		return items, total
	}
	q.DefaultPage()
	if q.Offset >= total {
		return []T{}, total
	}
	end := q.Offset + q.Limit
	if end > total {
		end = total
	}
	return items[q.Offset:end], total
}

// ListResponse envoltura de listados: {"results": [...], "count": n}.
// count es el total visible, no el tamaño de la página.
type ListResponse[T any] struct {
	Results []T `json:"results"`
	Count   int `json:"count"`
}

// NewListResponse nunca serializa results como null.
func NewListResponse[T any](items []T) *ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return &ListResponse[T]{Results: items, Count: len(items)}
}

// MutationResponse cuerpo de create/update/delete/cambio de estado.
type MutationResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// StatusRequest PATCH /:id/status y /:id/stage.
type StatusRequest struct {
	Status string `json:"status"`
	Stage  string `json:"stage"`
}

// Value devuelve el campo que venga informado.
func (r StatusRequest) Value() string {
	if r.Status != "" {
		return r.Status
	}
	return r.Stage
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewPagedResponse una página de un total mayor.
func NewPagedResponse[T any](items []T, total int) *ListResponse[T] {
	resp := NewListResponse(items)
	resp.Count = total
	return resp
}
