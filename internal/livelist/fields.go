package livelist

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvalidDate lo que se muestra cuando una fecha falta o no se puede interpretar.
const InvalidDate = "Invalid Date"

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07",
	"2006-01-02",
}

// Date fecha tolerante: si no es válida se representa como InvalidDate en lugar de fallar.
type Date struct {
	t     time.Time
	valid bool
}

// NewDate envuelve un instante válido.
func NewDate(t time.Time) Date { return Date{t: t, valid: true} }

// ParseDate prueba los formatos conocidos; nunca falla.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t)
		}
	}
	return Date{}
}

// Valid indica si hay fecha.
func (d Date) Valid() bool { return d.valid }

// Time devuelve el instante y si es válido.
func (d Date) Time() (time.Time, bool) { return d.t, d.valid }

// Format como time.Format, o InvalidDate.
func (d Date) Format(layout string) string {
	if !d.valid {
		return InvalidDate
	}
	return d.t.Format(layout)
}

func (d Date) String() string { return d.Format(time.RFC3339) }

// Fields acceso defensivo a un elemento crudo de la colección.
// Las claves admiten ruta con puntos ("customer.name") para objetos anidados.
type Fields map[string]any

// ParseFields decodifica un objeto JSON; false si el elemento no es un objeto.
func ParseFields(raw json.RawMessage) (Fields, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil || m == nil {
		return nil, false
	}
	return Fields(m), true
}

func (f Fields) lookup(key string) (any, bool) {
	var cur any = map[string]any(f)
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// Has indica si alguna de las claves tiene valor no nulo.
func (f Fields) Has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := f.lookup(k); ok {
			return true
		}
	}
	return false
}

// String primer valor escalar no vacío entre keys (números y bool se convierten a texto).
func (f Fields) String(keys ...string) string {
	for _, k := range keys {
		v, ok := f.lookup(k)
		if !ok {
			continue
		}
		var s string
		switch x := v.(type) {
		case string:
			s = strings.TrimSpace(x)
		case json.Number:
			s = x.String()
		case bool:
			s = strconv.FormatBool(x)
		}
		if s != "" {
			return s
		}
	}
	return ""
}

// StringOr como String pero con valor por defecto.
func (f Fields) StringOr(def string, keys ...string) string {
	if s := f.String(keys...); s != "" {
		return s
	}
	return def
}

// Int entero o def. Acepta número JSON o texto numérico.
func (f Fields) Int(key string, def int) int {
	v, ok := f.lookup(key)
	if !ok {
		return def
	}
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n)
		}
		if fl, err := x.Float64(); err == nil {
			return int(fl)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			return n
		}
	}
	return def
}

// Decimal monto exacto; cero si falta o no es numérico.
func (f Fields) Decimal(key string) decimal.Decimal {
	v, ok := f.lookup(key)
	if !ok {
		return decimal.Zero
	}
	var s string
	switch x := v.(type) {
	case json.Number:
		s = x.String()
	case string:
		s = strings.TrimSpace(x)
	default:
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Bool valor lógico o def.
func (f Fields) Bool(key string, def bool) bool {
	v, ok := f.lookup(key)
	if !ok {
		return def
	}
	switch x := v.(type) {
	case bool:
		return x
	case string:
		if b, err := strconv.ParseBool(x); err == nil {
			return b
		}
	}
	return def
}

// Date primera fecha válida entre keys. Números se interpretan como epoch (segundos o milisegundos).
func (f Fields) Date(keys ...string) Date {
	for _, k := range keys {
		v, ok := f.lookup(k)
		if !ok {
			continue
		}
		switch x := v.(type) {
		case string:
			if d := ParseDate(x); d.Valid() {
				return d
			}
		case json.Number:
			n, err := x.Int64()
			if err != nil || n <= 0 {
				continue
			}
			if n > 1e12 {
				return NewDate(time.UnixMilli(n).UTC())
			}
			return NewDate(time.Unix(n, 0).UTC())
		}
	}
	return Date{}
}
