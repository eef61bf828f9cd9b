package dto

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// Locales soportados para el renderizado de fechas en respuestas. El matcher
// resuelve el Accept-Language del cliente contra esta lista; el primero es el
// default. Esto es presentación pura: el motor de conciliación nunca ve fechas
// formateadas.
var supportedLocales = []language.Tag{
	language.Spanish, // default
	language.English,
}

var localeMatcher = language.NewMatcher(supportedLocales)

var monthsES = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// MatchLocale resuelve el header Accept-Language a uno de los locales
// soportados. Un header vacío o irreconocible cae al español.
func MatchLocale(acceptLanguage string) language.Tag {
	tag, _ := language.MatchStrings(localeMatcher, acceptLanguage)
	return tag
}

// FormatTimestamp renderiza un timestamp según el locale:
// es -> "2 de enero de 2026, 15:04"; en -> "January 2, 2026, 15:04".
func FormatTimestamp(t time.Time, tag language.Tag) string {
	base, _ := tag.Base()
	if base.String() == "es" {
		return fmt.Sprintf("%d de %s de %d, %02d:%02d",
			t.Day(), monthsES[t.Month()-1], t.Year(), t.Hour(), t.Minute())
	}
	return t.Format("January 2, 2006, 15:04")
}

// MonthLabel devuelve una etiqueta legible del mes según el locale,
// ej: "agosto 2026" / "August 2026". Usada por el dashboard.
func MonthLabel(t time.Time, tag language.Tag) string {
	base, _ := tag.Base()
	if base.String() == "es" {
		return fmt.Sprintf("%s %d", monthsES[t.Month()-1], t.Year())
	}
	return t.Format("January 2006")
}
