package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ValidTurnos is the canonical set of shift names the dataset accepts.
var ValidTurnos = []string{"MAÑANA", "MEDIO DIA", "TARDE", "NOCHE"}

var foldChain = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold returns the comparison form of a value: compatibility-decomposed
// (NFKD, so ordinal indicators and full-width characters also come out as
// plain letters) with combining marks stripped, lower-cased and trimmed.
// "Química Orgánica " and "quimica organica" fold to the same string. All
// fuzzy matching in the service goes through this form.
func Fold(s string) string {
	out, _, err := transform.String(foldChain, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// NormalizeTurno canonicalizes the shift spellings that show up in the
// academic office workbooks. Unknown values pass through upper-cased;
// acceptance is decided by IsValidTurno.
func NormalizeTurno(s string) string {
	t := strings.ToUpper(strings.TrimSpace(s))
	t = strings.ReplaceAll(t, "DÍA", "DIA")
	t = strings.ReplaceAll(t, "MEDIODIA", "MEDIO DIA")
	if t == "MANANA" || t == "MAÑANA" {
		return "MAÑANA"
	}
	return t
}

// IsValidTurno reports whether s canonicalizes to one of ValidTurnos.
func IsValidTurno(s string) bool {
	t := NormalizeTurno(s)
	for _, v := range ValidTurnos {
		if t == v {
			return true
		}
	}
	return false
}

// NaturalKey returns the comparison form of the (grupo, aula, horario)
// natural key.
func NaturalKey(grupo, aula, horario string) string {
	return Fold(grupo) + "|" + Fold(aula) + "|" + Fold(horario)
}
