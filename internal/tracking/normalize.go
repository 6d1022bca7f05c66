package tracking

import "strings"

// Canonical attribute vocabulary.
const (
	AttrColour   = "colour"
	AttrSize     = "size"
	AttrMaterial = "material"
	AttrWeight   = "weight"
)

// attributeMap maps cleaned attribute names to the canonical vocabulary.
// Keys are the post-cleaning form, so accented source words appear with
// their non-alphanumeric characters removed.
var attributeMap = map[string]string{
	"color":   AttrColour,
	"colour":  AttrColour,
	"colore":  AttrColour,
	"couleur": AttrColour,
	"farbe":   AttrColour,

	"size":   AttrSize,
	"talla":  AttrSize,
	"talle":  AttrSize,
	"taille": AttrSize,
	"grosse": AttrSize,
	"gre":    AttrSize, // größe
	"tamano": AttrSize,
	"tamao":  AttrSize, // tamaño

	"material":  AttrMaterial,
	"materiale": AttrMaterial,
	"matire":    AttrMaterial, // matière

	"weight": AttrWeight,
	"peso":   AttrWeight,
	"poids":  AttrWeight,
}

// platformPrefixes are stripped before cleaning. Order matters:
// WooCommerce form fields arrive as attribute_pa_color.
var platformPrefixes = []string{"attribute_", "pa_"}

// NormalizeAttribute maps a raw, possibly locale-specific attribute name
// onto the canonical vocabulary. Unmapped names fall back to the cleaned
// form. The result is deterministic and idempotent.
func NormalizeAttribute(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	for _, prefix := range platformPrefixes {
		name = strings.TrimPrefix(name, prefix)
	}
	name = stripNonAlnum(name)
	if canonical, ok := attributeMap[name]; ok {
		return canonical
	}
	return name
}

// AttributeMap returns a copy of the canonical map, keyed as the client
// snippet expects it.
func AttributeMap() map[string]string {
	out := make(map[string]string, len(attributeMap))
	for k, v := range attributeMap {
		out[k] = v
	}
	return out
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
