package assistant

import (
	"fmt"
	"strings"
)

// styleRule maps a keyword group to the visual style appended to the
// generation prompt. Rules are evaluated in order; the first group with any
// keyword present in the prompt wins.
type styleRule struct {
	keywords []string
	style    string
}

// styleRules is the ordered style-detection table. Order is significant:
// "a cute anime girl" must select the anime style even though it also
// matches the kawaii group.
var styleRules = []styleRule{
	{keywords: []string{"cartoon", "anime"}, style: "vibrant anime style, clean cel shading, expressive"},
	{keywords: []string{"3d", "render"}, style: "polished 3D render, soft studio lighting, smooth surfaces"},
	{keywords: []string{"painting", "artistic"}, style: "digital painting, visible brush strokes, rich color palette"},
	{keywords: []string{"kawaii", "cute"}, style: "kawaii style, soft pastel colors, adorable and friendly"},
	{keywords: []string{"fantasy", "magical"}, style: "fantasy art, magical atmosphere, dramatic cinematic lighting"},
	{keywords: []string{"product", "mockup"}, style: "professional product mockup, studio lighting, commercial photography"},
}

// defaultStyle is used when no keyword group matches.
const defaultStyle = "photorealistic, natural lighting, true-to-life detail"

// detectStyle returns the style label for the prompt.
func detectStyle(prompt string) string {
	lowered := strings.ToLower(prompt)
	for _, rule := range styleRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.style
			}
		}
	}
	return defaultStyle
}

// BuildStyledPrompt rewrites a raw user prompt into an elaborated
// image-generation prompt: the detected style plus fixed quality and
// composition directives. Deterministic, no external calls.
func BuildStyledPrompt(userPrompt string) string {
	return fmt.Sprintf(
		"%s. Style: %s. Sharp detail, balanced composition, clean uncluttered background. "+
			"No text, no watermarks, no logos. Avoid distorted anatomy and warped shapes.",
		strings.TrimSpace(userPrompt), detectStyle(userPrompt),
	)
}
