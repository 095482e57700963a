// Package naturalkey normaliza claves naturales (título de cargo, nombre de empleado,
// nombre de tipo de certificado) para compararlas sin distinguir mayúsculas.
package naturalkey

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold devuelve la forma canónica de comparación: sin espacios extremos y con case folding Unicode.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Equal compara dos claves naturales sin distinguir mayúsculas.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}
