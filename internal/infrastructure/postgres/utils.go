package postgres

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/joyeria-crm/internal/domain/repository"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// conds acumula condiciones WHERE; cada "?" de expr se reemplaza por el placeholder del valor.
type conds struct {
	parts []string
	args  []any
}

func (c *conds) add(expr string, v any) {
	c.args = append(c.args, v)
	c.parts = append(c.parts, strings.ReplaceAll(expr, "?", "$"+strconv.Itoa(len(c.args))))
}

func (c *conds) where() string {
	if len(c.parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.parts, " AND ")
}

// page agrega LIMIT/OFFSET como argumentos. limit <= 0 = sin límite.
func (c *conds) page(limit, offset int) string {
	var b strings.Builder
	if limit > 0 {
		c.args = append(c.args, limit)
		b.WriteString(" LIMIT $" + strconv.Itoa(len(c.args)))
	}
	if offset > 0 {
		c.args = append(c.args, offset)
		b.WriteString(" OFFSET $" + strconv.Itoa(len(c.args)))
	}
	return b.String()
}

// common aplica tenant, tienda, estado y rango de fechas. alias prefija las columnas.
func (c *conds) common(f repository.ListFilter, alias, statusCol, dateCol string) {
	if f.TenantID != "" {
		c.add(alias+"tenant_id = ?", f.TenantID)
	}
	if f.StoreID != "" {
		c.add(alias+"store_id = ?", f.StoreID)
	}
	if f.Status != "" && statusCol != "" {
		c.add(alias+statusCol+" = ?", f.Status)
	}
	if f.From != nil && dateCol != "" {
		c.add(alias+dateCol+" >= ?", *f.From)
	}
	if f.To != nil && dateCol != "" {
		c.add(alias+dateCol+" < ?", *f.To)
	}
}

// likePattern escapa comodines y envuelve en %...%.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

// nullIfEmpty convierte "" a NULL.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
