// Package normalize pliega texto de usuario a una forma canónica comparable:
// minúsculas, sin tildes ni diéresis. Así "Dañado", "danado" y "DAÑADO"
// coinciden con el motivo de merma "danado".
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold devuelve s en minúsculas y sin marcas diacríticas.
// Si la transformación falla (entrada no UTF-8 válida) devuelve s en minúsculas.
func Fold(s string) string {
	out, _, err := transform.String(folder, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}
