package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAttributeCanonicalMap(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"color", "colour"},
		{"colour", "colour"},
		{"colore", "colour"},
		{"couleur", "colour"},
		{"farbe", "colour"},
		{"size", "size"},
		{"talla", "size"},
		{"talle", "size"},
		{"taille", "size"},
		{"größe", "size"},
		{"grosse", "size"},
		{"tamano", "size"},
		{"tamaño", "size"},
		{"material", "material"},
		{"materiale", "material"},
		{"matière", "material"},
		{"weight", "weight"},
		{"peso", "weight"},
		{"poids", "weight"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeAttribute(tt.raw), "raw %q", tt.raw)
	}
}

func TestNormalizeAttributePrefixes(t *testing.T) {
	assert.Equal(t, "colour", NormalizeAttribute("pa_color"))
	assert.Equal(t, "colour", NormalizeAttribute("attribute_pa_color"))
	assert.Equal(t, "size", NormalizeAttribute("attribute_talla"))
	// An unmapped name falls back to its cleaned form.
	assert.Equal(t, "finish", NormalizeAttribute("pa_finish"))
}

func TestNormalizeAttributeCasingAndWhitespace(t *testing.T) {
	assert.Equal(t, "colour", NormalizeAttribute("  Couleur "))
	assert.Equal(t, "size", NormalizeAttribute("TALLA"))
	assert.Equal(t, "material", NormalizeAttribute("Matière\t"))
}

func TestNormalizeAttributeUnmapped(t *testing.T) {
	assert.Equal(t, "fabrictype", NormalizeAttribute("Fabric-Type"))
	assert.Equal(t, "lining", NormalizeAttribute("lining"))
	assert.Equal(t, "", NormalizeAttribute(""))
	assert.Equal(t, "", NormalizeAttribute("   "))
}

func TestNormalizeAttributeIdempotent(t *testing.T) {
	inputs := []string{
		"pa_color", "Couleur", "attribute_pa_talla", "größe",
		"Fabric-Type", "weight", "", "pa_finish",
	}
	for _, raw := range inputs {
		once := NormalizeAttribute(raw)
		assert.Equal(t, once, NormalizeAttribute(once), "raw %q", raw)
	}
}
