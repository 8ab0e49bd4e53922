package livelist

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/joyeria-crm/pkg/textnorm"
)

// Window ventana de calendario relativa a "ahora".
type Window int

const (
	WindowToday Window = iota
	WindowThisWeek  // semana ISO
	WindowThisMonth
)

// InWindow compara por fecha de calendario en la zona horaria de now.
func InWindow(t time.Time, w Window, now time.Time) bool {
	t = t.In(now.Location())
	switch w {
	case WindowToday:
		ty, tm, td := t.Date()
		ny, nm, nd := now.Date()
		return ty == ny && tm == nm && td == nd
	case WindowThisWeek:
		ty, tw := t.ISOWeek()
		ny, nw := now.ISOWeek()
		return ty == ny && tw == nw
	case WindowThisMonth:
		return t.Year() == now.Year() && t.Month() == now.Month()
	}
	return false
}

// CountInWindow cuenta registros cuya fecha cae en la ventana. Fechas inválidas no cuentan.
func CountInWindow[T any](items []T, at func(T) Date, w Window, now time.Time) int {
	n := 0
	for _, it := range items {
		if t, ok := at(it).Time(); ok && InWindow(t, w, now) {
			n++
		}
	}
	return n
}

// CountByStatus conteo por estado.
func CountByStatus[T any](items []T, status func(T) string) map[string]int {
	out := make(map[string]int)
	for _, it := range items {
		out[status(it)]++
	}
	return out
}

// SumDecimal suma exacta (ingresos, valor de pipeline).
func SumDecimal[T any](items []T, value func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(value(it))
	}
	return total
}

// Percentage part/total*100 con un decimal; 0 si total es 0.
func Percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(total)) / 10
}

// Group partición por clave.
type Group[T any] struct {
	Key   string
	Items []T
}

// GroupBy partición estable: primero las claves de order (aunque queden vacías), luego las
// demás en orden de primera aparición. Dentro de cada grupo se conserva el orden original.
func GroupBy[T any](items []T, key func(T) string, order []string) []Group[T] {
	idx := make(map[string]int, len(order))
	groups := make([]Group[T], 0, len(order))
	for _, k := range order {
		if _, dup := idx[k]; dup {
			continue
		}
		idx[k] = len(groups)
		groups = append(groups, Group[T]{Key: k, Items: make([]T, 0)})
	}
	for _, it := range items {
		k := key(it)
		i, ok := idx[k]
		if !ok {
			i = len(groups)
			idx[k] = i
			groups = append(groups, Group[T]{Key: k, Items: make([]T, 0)})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

// Search subconjunto cuyo texto contiene term (sin tildes ni mayúsculas). Term vacío = todo.
func Search[T any](items []T, term string, text func(T) []string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if textnorm.Contains(term, text(it)...) {
			out = append(out, it)
		}
	}
	return out
}
