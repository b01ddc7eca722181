package questionnaire

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	polymorphicMarker = "[x]"
	valueSuffix       = ".value"
)

// NormalizeLinkID strips a trailing ".value" segment. The control id keeps a
// polymorphism marker; the answer path drops it.
func NormalizeLinkID(linkID string) (controlID, path string) {
	controlID = linkID
	if strings.HasSuffix(controlID, valueSuffix) && len(controlID) > len(valueSuffix) {
		controlID = strings.TrimSuffix(controlID, valueSuffix)
	}
	path = strings.ReplaceAll(controlID, polymorphicMarker, "")
	return controlID, path
}

// Label turns the last segment of a linkId into a display label,
// e.g. "Patient.birthDate" becomes "Birth Date".
func Label(linkID string) string {
	_, path := NormalizeLinkID(linkID)
	segment := path
	if i := strings.LastIndex(path, "."); i >= 0 {
		segment = path[i+1:]
	}
	if segment == "" {
		return ""
	}
	return cases.Title(language.English).String(splitCamelCase(segment))
}

func splitCamelCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) {
			b.WriteRune(' ')
		}
		if r == '_' || r == '-' {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
