package assistant

import "strings"

// FallbackMessage is returned instead of calling the image provider when a
// request asks for layout-heavy or text-heavy visuals that generation models
// handle poorly.
const FallbackMessage = "That sounds like something better built with a design tool! " +
	"Image models struggle with layouts, charts, and readable text. " +
	"Try Canva for infographics, checklists, and templates — or describe a " +
	"scene or object instead and I'll happily generate that for you. 🎨"

// layoutKeywords flags prompts that are really asking for structured layouts
// or text-heavy graphics. Substring match against the lowercased prompt.
var layoutKeywords = []string{
	"infographic",
	"checklist",
	"chart",
	"graph",
	"diagram",
	"flowchart",
	"timeline",
	"dashboard",
	"spreadsheet",
	"table of",
	"comparison table",
	"menu design",
	"price list",
	"pricing",
	"calendar",
	"schedule",
	"planner",
	"worksheet",
	"template",
	"resume",
	"curriculum vitae",
	"invoice",
	"form with",
	"survey",
	"questionnaire",
	"quiz",
	"certificate",
	"newsletter",
	"brochure",
	"flyer with text",
	"slide deck",
	"presentation",
	"pie chart",
	"bar chart",
	"mind map",
	"org chart",
	"step-by-step",
	"step by step",
	"tutorial",
	"how-to guide",
	"carousel",
	"grid layout",
}

// NeedsVisualFallback reports whether the prompt should bypass image
// generation in favor of the canned fallback suggestion. Keyword presence
// dominates: a prompt mixing a layout keyword with ordinary descriptive
// content is still routed to the fallback.
func NeedsVisualFallback(prompt string) bool {
	lowered := strings.ToLower(prompt)
	for _, kw := range layoutKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
