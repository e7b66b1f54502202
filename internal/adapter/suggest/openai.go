package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const DefaultModel = "gpt-4o-mini"

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for proxies and tests
	Logger  *slog.Logger
}

type OpenAI struct {
	client *openai.Client
	model  string
	log    *slog.Logger
}

func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("suggest: OPENAI_API_KEY not set")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(oc), model: cfg.Model, log: cfg.Logger}, nil
}

func (o *OpenAI) Suggest(ctx context.Context, req Request) (Response, error) {
	req.EnsureDefaults()
	if err := req.Validate(); err != nil {
		return Response{}, err
	}
	prompt, err := Prompt(req)
	if err != nil {
		return Response{}, err
	}

	o.log.Debug("requesting suggestions", "model", o.model, "history", len(req.ClipboardHistory), "snippets", len(req.SavedSnippets))
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return Response{}, fmt.Errorf("suggest: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, ErrNoSuggestions
	}

	return parseResponse(resp.Choices[0].Message.Content)
}

func parseResponse(content string) (Response, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimSuffix(strings.TrimPrefix(content, "```"), "```")

	var out Response
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return Response{}, fmt.Errorf("suggest: decode model output: %w", err)
	}
	if err := out.Validate(); err != nil {
		return Response{}, err
	}
	if out.SuggestedSnippets == nil {
		out.SuggestedSnippets = []string{}
	}
	return out, nil
}
