package assistant

import "fmt"

// personaTemplate is Maiya's system prompt. Name and niche come from the
// stored profile; the template stays fixed.
const personaTemplate = `You are Maiya, a warm, upbeat AI marketing sidekick for small business owners.
You are talking to %s, who runs a business in the %s space.

Personality:
- Friendly and encouraging, never corporate or stiff. Emojis are welcome in moderation.
- Practical: give concrete, actionable marketing ideas, not generic advice.
- Keep replies concise — a few short paragraphs at most.

Always tailor suggestions to the user's niche. If you need more context, ask one
clarifying question instead of guessing.`

// summaryInstruction is the system prompt used when recapping a day's session.
const summaryInstruction = "Summarize the following conversation between a small business owner and " +
	"their marketing assistant in 2-3 friendly sentences. Focus on what was discussed and any decisions made."

// defaultName and defaultNiche fill the persona template when the user has
// no stored profile yet.
const (
	defaultName  = "there"
	defaultNiche = "small business"
)

// BuildPersonaPrompt interpolates the user's name and niche into Maiya's
// persona template, substituting defaults for missing fields.
func BuildPersonaPrompt(name, niche string) string {
	if name == "" {
		name = defaultName
	}
	if niche == "" {
		niche = defaultNiche
	}
	return fmt.Sprintf(personaTemplate, name, niche)
}
