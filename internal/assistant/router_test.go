package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *Router {
	return NewRouter(DefaultRules())
}

func TestRouteTriggerPhrase(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name    string
		message string
	}{
		{"exact", "generate image"},
		{"case insensitive", "Generate Image"},
		{"trimmed", "  generate image  "},
		{"with article", "generate an image"},
		{"with filler", "please generate an image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := r.Route(StateIdle, tt.message)
			assert.Equal(t, ActionAskImageSubject, d.Action)
			assert.Equal(t, StateAwaitingImageDescription, d.Next)
			assert.Equal(t, AskImageMessage, d.Reply)
		})
	}
}

func TestRouteChatMessageStaysIdle(t *testing.T) {
	r := newTestRouter()

	tests := []string{
		"how do I market my bakery?",
		"can you write an instagram caption for me",
		// Mentions images but is a full sentence, not a trigger.
		"what do you think about using an image of my storefront in the next post we generate together?",
	}

	for _, msg := range tests {
		d := r.Route(StateIdle, msg)
		assert.Equal(t, ActionChat, d.Action, "message %q", msg)
		assert.Equal(t, StateIdle, d.Next)
	}
}

func TestRouteInvalidSubjectRedirects(t *testing.T) {
	r := newTestRouter()

	tests := []string{
		"dog",
		"a dog in a park",
		"A CAT",
		"a person smiling",
		"my photo but better",
	}

	for _, msg := range tests {
		d := r.Route(StateAwaitingImageDescription, msg)
		assert.Equal(t, ActionRedirectStock, d.Action, "message %q", msg)
		assert.Equal(t, StateIdle, d.Next)
		assert.Equal(t, StockRedirectMessage, d.Reply)
	}
}

func TestRouteInvalidSubjectWholeWordOnly(t *testing.T) {
	r := newTestRouter()

	// "category" contains "cat" but is not the subject "cat".
	d := r.Route(StateAwaitingImageDescription, "a banner for my jewelry category launch")
	assert.Equal(t, ActionGenerateImage, d.Action)
}

func TestRouteTooShortDescriptionRedirects(t *testing.T) {
	r := newTestRouter()

	for _, msg := range []string{"ok", "sky", "sunset"} {
		d := r.Route(StateAwaitingImageDescription, msg)
		assert.Equal(t, ActionRedirectStock, d.Action, "message %q", msg)
		assert.Equal(t, StateIdle, d.Next)
	}
}

func TestRouteLayoutDescriptionFallsBack(t *testing.T) {
	r := newTestRouter()

	d := r.Route(StateAwaitingImageDescription, "an infographic about morning routines")
	assert.Equal(t, ActionVisualFallback, d.Action)
	assert.Equal(t, StateIdle, d.Next)
	assert.Equal(t, FallbackMessage, d.Reply)
}

func TestRouteValidDescriptionGeneratesStyledPrompt(t *testing.T) {
	r := newTestRouter()

	d := r.Route(StateAwaitingImageDescription, "a cute anime girl holding a coffee cup")
	require.Equal(t, ActionGenerateImage, d.Action)
	assert.Equal(t, StateIdle, d.Next)
	assert.Contains(t, d.Prompt, "a cute anime girl holding a coffee cup")
	assert.Contains(t, d.Prompt, "anime")
}

// The pending-image state never survives more than one message.
func TestRouteAwaitingAlwaysReturnsToIdle(t *testing.T) {
	r := newTestRouter()

	for _, msg := range []string{
		"dog",
		"an infographic about tea",
		"a misty forest at sunrise",
		"x",
	} {
		d := r.Route(StateAwaitingImageDescription, msg)
		assert.Equal(t, StateIdle, d.Next, "message %q", msg)
	}
}

func TestRouteCustomRules(t *testing.T) {
	r := NewRouter(Rules{
		Triggers:            []string{"picture time"},
		InvalidSubjects:     []string{"unicorn"},
		MinDescriptionChars: 5,
		MinDescriptionWords: 2,
	})

	d := r.Route(StateIdle, "picture time")
	assert.Equal(t, ActionAskImageSubject, d.Action)

	// Default trigger no longer applies.
	d = r.Route(StateIdle, "generate image")
	assert.Equal(t, ActionChat, d.Action)

	d = r.Route(StateAwaitingImageDescription, "a unicorn at dawn")
	assert.Equal(t, ActionRedirectStock, d.Action)
}
