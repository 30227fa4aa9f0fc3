package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectStyle(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{"anime", "an anime warrior on a rooftop", "anime"},
		{"cartoon maps to anime group", "a cartoon mascot for my bakery", "anime"},
		{"3d", "a 3d logo concept", "3D render"},
		{"painting", "a painting of a harbor", "digital painting"},
		{"kawaii", "a kawaii mascot", "kawaii"},
		{"fantasy", "a magical forest", "fantasy art"},
		{"product", "a product shot of my candle", "product mockup"},
		{"default photorealistic", "a quiet mountain lake at dawn", "photorealistic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, strings.ToLower(detectStyle(tt.prompt)), strings.ToLower(tt.want))
		})
	}
}

// Priority order is part of the contract: when a prompt matches multiple
// keyword groups, the first group in table order wins.
func TestDetectStylePriorityOrder(t *testing.T) {
	// "cute" matches the kawaii group, "anime" the anime group; anime wins.
	style := detectStyle("a cute anime girl")
	assert.Contains(t, style, "anime")
	assert.NotContains(t, style, "kawaii")

	// "render" beats "painting" because the 3D group comes first.
	style = detectStyle("a painting style render")
	assert.Contains(t, style, "3D render")
}

func TestBuildStyledPrompt(t *testing.T) {
	got := BuildStyledPrompt("  a cozy bookshop  ")

	assert.Contains(t, got, "a cozy bookshop")
	assert.Contains(t, got, "photorealistic")
	assert.Contains(t, got, "Sharp detail")
	assert.Contains(t, got, "No text")
	assert.NotContains(t, got, "  a cozy bookshop")

	// Deterministic.
	assert.Equal(t, got, BuildStyledPrompt("  a cozy bookshop  "))
}
