// Package assistant implements Maiya's message routing and prompt heuristics:
// deciding whether a user message becomes a chat completion, an image
// generation, or a static reply, and how image prompts are elaborated.
package assistant

import "strings"

// State is the per-session routing state.
type State int

const (
	// StateIdle is the normal chat state.
	StateIdle State = iota
	// StateAwaitingImageDescription means Maiya just asked what image the
	// user would like; the next message is read as an image description.
	StateAwaitingImageDescription
)

// Action tells the caller how to handle the routed message.
type Action int

const (
	// ActionChat forwards the message to the chat-completion provider.
	ActionChat Action = iota
	// ActionAskImageSubject emits the static clarifying question; no provider call.
	ActionAskImageSubject
	// ActionRedirectStock emits the static stock-photo redirect; no provider call.
	ActionRedirectStock
	// ActionVisualFallback emits the layout fallback message; no provider call.
	ActionVisualFallback
	// ActionGenerateImage calls the image provider with Decision.Prompt.
	ActionGenerateImage
)

// Decision is the routing outcome for one user message.
type Decision struct {
	Action Action
	// Reply is the static assistant reply for non-provider actions.
	Reply string
	// Prompt is the styled image prompt when Action is ActionGenerateImage.
	Prompt string
	// Next is the session state after this message. The pending-image state
	// never survives more than one message: every path out of
	// StateAwaitingImageDescription lands back in StateIdle.
	Next State
}

// Static assistant replies.
const (
	// AskImageMessage is emitted when the user triggers image mode.
	AskImageMessage = "Ooh, fun! 🎨 What kind of image would you like me to create? " +
		"Describe the scene, mood, or style you have in mind — the more detail the better!"

	// StockRedirectMessage is emitted for disallowed or too-vague subjects.
	StockRedirectMessage = "For photos of everyday subjects like that, a stock photo site " +
		"will serve you much better — try Unsplash or Pexels for free, high-quality shots. " +
		"If you'd like custom branded artwork instead, describe the scene and style and I'll create it!"

	// ApologyMessage is surfaced when a provider call fails.
	ApologyMessage = "Oh no, something went wrong on my end! 😔 Give me a moment and try sending that again."
)

// Rules is the configurable keyword-to-route table driving the router.
// The source variants duplicated these lists across branches; here they are
// one data structure so callers can tune routing without touching logic.
type Rules struct {
	// Triggers are phrases that switch the session into image mode.
	Triggers []string
	// InvalidSubjects are concrete subjects the image route refuses,
	// matched as whole words or phrases in the description.
	InvalidSubjects []string
	// MinDescriptionChars and MinDescriptionWords gate descriptions that
	// are too short to generate anything useful from.
	MinDescriptionChars int
	MinDescriptionWords int
}

// DefaultRules returns the routing table used in production.
func DefaultRules() Rules {
	return Rules{
		Triggers: []string{
			"generate image",
			"generate an image",
			"create image",
			"create an image",
			"make an image",
			"make me an image",
			"draw me something",
		},
		InvalidSubjects: []string{
			"dog", "cat", "puppy", "kitten",
			"person", "people", "man", "woman", "baby", "child",
			"face", "selfie", "celebrity", "my photo",
		},
		MinDescriptionChars: 5,
		MinDescriptionWords: 2,
	}
}

// Router decides how each user message is handled given the session state.
// Route is a pure function of (state, message) and the rule table.
type Router struct {
	rules Rules
}

// NewRouter creates a router with the given rule table.
func NewRouter(rules Rules) *Router {
	return &Router{rules: rules}
}

// Route classifies one user message.
func (r *Router) Route(state State, message string) Decision {
	normalized := strings.ToLower(strings.TrimSpace(message))

	if state == StateAwaitingImageDescription {
		return r.routeImageDescription(normalized, message)
	}

	if r.matchesTrigger(normalized) {
		return Decision{
			Action: ActionAskImageSubject,
			Reply:  AskImageMessage,
			Next:   StateAwaitingImageDescription,
		}
	}

	return Decision{Action: ActionChat, Next: StateIdle}
}

// routeImageDescription handles the message following the clarifying
// question. Every branch returns to StateIdle.
func (r *Router) routeImageDescription(normalized, original string) Decision {
	if r.tooShort(normalized) || r.namesInvalidSubject(normalized) {
		return Decision{
			Action: ActionRedirectStock,
			Reply:  StockRedirectMessage,
			Next:   StateIdle,
		}
	}

	if NeedsVisualFallback(normalized) {
		return Decision{
			Action: ActionVisualFallback,
			Reply:  FallbackMessage,
			Next:   StateIdle,
		}
	}

	return Decision{
		Action: ActionGenerateImage,
		Prompt: BuildStyledPrompt(original),
		Next:   StateIdle,
	}
}

// matchesTrigger reports whether the message is exactly, or substantially,
// a trigger phrase. "Substantially" allows a couple of filler words around
// the phrase ("please generate an image") without letting a long chat
// message that merely mentions images flip into image mode.
func (r *Router) matchesTrigger(normalized string) bool {
	words := wordCount(normalized)
	for _, trigger := range r.rules.Triggers {
		if normalized == trigger {
			return true
		}
		if strings.Contains(normalized, trigger) && words <= wordCount(trigger)+2 {
			return true
		}
	}
	return false
}

func (r *Router) tooShort(normalized string) bool {
	return len(normalized) < r.rules.MinDescriptionChars ||
		wordCount(normalized) < r.rules.MinDescriptionWords
}

// namesInvalidSubject reports whether the description names a disallowed
// concrete subject. Single-word entries match whole words only, so
// "category" does not match "cat"; multi-word entries match as phrases.
func (r *Router) namesInvalidSubject(normalized string) bool {
	words := fieldsTrimmed(normalized)
	for _, subject := range r.rules.InvalidSubjects {
		if strings.ContainsRune(subject, ' ') {
			if strings.Contains(normalized, subject) {
				return true
			}
			continue
		}
		for _, w := range words {
			if w == subject {
				return true
			}
		}
	}
	return false
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// fieldsTrimmed splits on whitespace and strips surrounding punctuation so
// "a dog!" still matches the "dog" subject.
func fieldsTrimmed(s string) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.Trim(f, ".,!?;:'\"()"))
	}
	return out
}
