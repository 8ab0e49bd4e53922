// Package textnorm normaliza texto para búsquedas: sin tildes, minúsculas y espacios colapsados.
// "  Anillo de COMPROMISO  Platino" y "anillo de compromiso platino" comparan igual,
// igual que "José" y "jose".
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Fold devuelve la forma canónica de s para comparar.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(folder.String(out)), " ")
}

// Contains indica si needle aparece en alguno de los haystacks tras normalizar.
// Un needle vacío coincide con todo.
func Contains(needle string, haystacks ...string) bool {
	n := Fold(needle)
	if n == "" {
		return true
	}
	for _, h := range haystacks {
		if strings.Contains(Fold(h), n) {
			return true
		}
	}
	return false
}
