// Package texto normaliza texto para búsquedas insensibles a acentos y
// mayúsculas (nombres de contribuyentes escritos con y sin tildes).
package texto

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var quitarAcentos = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize devuelve el texto en minúsculas, sin acentos y con espacios
// colapsados: "José  PÉREZ " → "jose perez".
func Normalize(s string) string {
	out, _, err := transform.String(quitarAcentos, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// Matches indica si needle aparece dentro de haystack, comparando ambos
// normalizados.
func Matches(haystack, needle string) bool {
	n := Normalize(needle)
	if n == "" {
		return false
	}
	return strings.Contains(Normalize(haystack), n)
}
