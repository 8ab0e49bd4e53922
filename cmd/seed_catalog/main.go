// seed_catalog genera un script SQL para poblar el catálogo de un tenant a partir del
// XML del proveedor (ISO-8859-1, números con formato colombiano: 1.250.000,50).
//
// Uso: go run ./cmd/seed_catalog <tenant_id> [ruta/catalogo.xml] [salida.sql]
// Por defecto lee catalogo.xml del directorio actual y escribe en stdout.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// product fila lista para INSERT.
type product struct {
	SKU, Name, Description, Category, Metal, Purity string
	Weight, Price, TaxRate                          decimal.Decimal
	Stock                                           int
}

var categories = map[string]string{
	"anillos":  "rings",
	"anillo":   "rings",
	"collares": "necklaces",
	"cadenas":  "necklaces",
	"aretes":   "earrings",
	"topos":    "earrings",
	"pulseras": "bracelets",
	"manillas": "bracelets",
	"relojes":  "watches",
}

var metals = map[string]string{
	"oro":     "gold",
	"plata":   "silver",
	"platino": "platinum",
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog <tenant_id> [catalogo.xml] [salida.sql]")
		os.Exit(2)
	}
	tenantID := os.Args[1]
	if _, err := uuid.Parse(tenantID); err != nil {
		fmt.Fprintf(os.Stderr, "tenant_id inválido: %v\n", err)
		os.Exit(2)
	}
	xmlPath := "catalogo.xml"
	if len(os.Args) > 2 {
		xmlPath = os.Args[2]
	}
	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	products, skipped, err := parseCatalog(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar XML: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if len(os.Args) > 3 {
		file, err := os.Create(os.Args[3])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		out = file
	}
	if err := writeSQL(out, tenantID, products, time.Now().UTC()); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d productos, %d omitidos\n", len(products), skipped)
}

// parseCatalog decodifica el XML. Cada campo de <pieza> puede venir como elemento hijo
// o como atributo. Las piezas sin referencia, sin nombre o con precio ilegible se omiten;
// si una referencia se repite gana la última.
func parseCatalog(r io.Reader) ([]product, int, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToUpper(charset) {
		case "ISO-8859-1", "ISO8859-1", "LATIN1":
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		case "WINDOWS-1252":
			return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
		}
		return input, nil
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, 0, err
	}

	bySKU := make(map[string]product)
	skipped := 0
	for _, el := range doc.FindElements("//pieza") {
		sku := strings.ToUpper(field(el, "ref", "referencia"))
		name := field(el, "nombre")
		price, err := parseNumber(field(el, "precio"))
		if sku == "" || name == "" || err != nil || price.IsNegative() {
			skipped++
			continue
		}
		weight, _ := parseNumber(field(el, "peso"))
		rawTax := field(el, "iva")
		tax, err := parseNumber(rawTax)
		if err != nil || rawTax == "" {
			tax = decimal.NewFromInt(19)
		}
		stock, _ := strconv.Atoi(field(el, "existencias"))
		bySKU[sku] = product{
			SKU:         sku,
			Name:        name,
			Description: field(el, "descripcion"),
			Category:    mapOr(categories, field(el, "categoria")),
			Metal:       mapOr(metals, field(el, "metal")),
			Purity:      strings.ToLower(field(el, "ley")),
			Weight:      weight,
			Price:       price,
			TaxRate:     tax,
			Stock:       stock,
		}
	}

	// Ordenar por SKU para salida estable
	out := make([]product, 0, len(bySKU))
	for _, p := range bySKU {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, skipped, nil
}

// field primer valor no vacío entre los hijos y los atributos con esos nombres.
func field(el *etree.Element, names ...string) string {
	for _, n := range names {
		if child := el.SelectElement(n); child != nil {
			if v := strings.TrimSpace(child.Text()); v != "" {
				return v
			}
		}
		if v := strings.TrimSpace(el.SelectAttrValue(n, "")); v != "" {
			return v
		}
	}
	return ""
}

// parseNumber "1.250.000,50" → 1250000.50. Vacío = 0.
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return decimal.NewFromString(s)
}

func mapOr(m map[string]string, raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if v, ok := m[key]; ok {
		return v
	}
	return key
}

func writeSQL(w io.Writer, tenantID string, products []product, now time.Time) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de proveedor\n")
	fmt.Fprintf(&b, "-- Tenant %s, %d productos\n\n", tenantID, len(products))
	ts := now.Format(time.RFC3339)
	for _, p := range products {
		b.WriteString("INSERT INTO products (id, tenant_id, sku, name, description, category, metal, purity, weight_grams, price, tax_rate, stock, created_at, updated_at)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', '%s', '%s', '%s', '%s', '%s', %s, %s, %s, %d, '%s', '%s')\n",
			uuid.New().String(), tenantID, escapeSQL(p.SKU), escapeSQL(p.Name), escapeSQL(p.Description),
			escapeSQL(p.Category), escapeSQL(p.Metal), escapeSQL(p.Purity),
			p.Weight.StringFixed(3), p.Price.StringFixed(2), p.TaxRate.StringFixed(2), p.Stock, ts, ts)
		b.WriteString("ON CONFLICT (tenant_id, sku) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,\n")
		b.WriteString("  price = EXCLUDED.price, tax_rate = EXCLUDED.tax_rate, stock = EXCLUDED.stock, updated_at = EXCLUDED.updated_at;\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
