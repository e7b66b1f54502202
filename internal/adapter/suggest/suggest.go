// Package suggest asks a language model which saved snippets fit what the
// user is doing right now.
package suggest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"

	"github.com/go-playground/validator/v10"
)

// DefaultApplication is reported when the caller cannot tell which
// application is in front.
const DefaultApplication = "VS Code"

// MaxHistory bounds the clipboard history sent with a request.
const MaxHistory = 5

var ErrNoSuggestions = errors.New("suggest: model returned no suggestions")

var validate = validator.New()

// Request is the context a suggestion is computed from. SavedSnippets are
// rendered as "Name: <name>, Content: <content>".
type Request struct {
	CurrentApplication string   `json:"currentApplication" validate:"required"`
	CurrentText        string   `json:"currentText"`
	ClipboardHistory   []string `json:"clipboardHistory" validate:"max=5"`
	SavedSnippets      []string `json:"savedSnippets"`
}

func (r *Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("suggest: invalid request: %w", err)
	}
	return nil
}

// EnsureDefaults fills the application name when it is missing.
func (r *Request) EnsureDefaults() {
	if r.CurrentApplication == "" {
		r.CurrentApplication = DefaultApplication
	}
}

type Response struct {
	SuggestedSnippets []string `json:"suggestedSnippets" validate:"dive,required"`
}

func (r *Response) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("suggest: invalid response: %w", err)
	}
	return nil
}

// Suggester returns the snippets relevant to req.
type Suggester interface {
	Suggest(ctx context.Context, req Request) (Response, error)
}

const systemPrompt = "You are an AI assistant designed to suggest relevant snippets to the user based on their current context. " +
	`Reply with a JSON object of the form {"suggestedSnippets": ["..."]}.`

var userPrompt = template.Must(template.New("prompt").Parse(`The current application the user is using is: {{.CurrentApplication}}
The text the user is currently typing is: {{.CurrentText}}
The user's recent clipboard history is: {{range .ClipboardHistory}}{{.}}
{{end}}
The user's saved snippets are: {{range .SavedSnippets}}{{.}}
{{end}}
Suggest the most relevant snippets to the user, taking into account the current application, the text the user is typing, and the user's recent clipboard history. Only suggest snippets that are highly relevant to the current context.

Make sure that suggestedSnippets values are copied from the user saved snippets.
Return an array of strings.
`))

// Prompt renders the user message for req.
func Prompt(req Request) (string, error) {
	var buf bytes.Buffer
	if err := userPrompt.Execute(&buf, req); err != nil {
		return "", fmt.Errorf("suggest: render prompt: %w", err)
	}
	return buf.String(), nil
}
