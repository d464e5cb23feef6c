// Package extractor maps a transcribed caller utterance to the structured
// (intent, field, value, is_correction) signal the intake controller
// consumes. The model only extracts; validation and state live downstream.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"medintake/app/config"

	_ "embed"

	"github.com/samber/do"
	"github.com/sashabaranov/go-openai"
)

//go:embed extract_prompt.txt
var extractPromptTemplate string

const maxExtractDuration = 30 * time.Second

// Input is the conversation context handed to the model for one turn.
type Input struct {
	Utterance       string
	Intent          string
	PendingField    string
	AwaitingConfirm bool
	RemainingFields []string
}

// Signal is the model's reading of the turn. Empty strings mean "absent".
type Signal struct {
	Intent       string `json:"intent"`
	Field        string `json:"field"`
	Value        string `json:"value"`
	IsCorrection bool   `json:"is_correction"`
}

type Service struct {
	client *openai.Client
	model  string
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	clientConfig := openai.DefaultConfig(cfg.OpenAI.Extractor.Token)
	clientConfig.BaseURL = cfg.OpenAI.Extractor.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: maxExtractDuration,
	}

	return &Service{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.OpenAI.Extractor.Model,
	}, nil
}

func (s *Service) Extract(ctx context.Context, in Input) (*Signal, error) {
	templateValues := map[string]any{
		"utterance":        in.Utterance,
		"intent":           orNone(in.Intent),
		"pending_field":    orNone(in.PendingField),
		"awaiting_confirm": fmt.Sprint(in.AwaitingConfirm),
		"remaining_fields": orNone(strings.Join(in.RemainingFields, ", ")),
	}

	prompt := extractPromptTemplate
	for key, value := range templateValues {
		prompt = strings.ReplaceAll(prompt, "{"+key+"}", fmt.Sprint(value))
	}

	ctx, cancel := context.WithTimeout(ctx, maxExtractDuration)
	defer cancel()

	aiResponse, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxCompletionTokens: 300,
			Temperature:         0.2,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(aiResponse.Choices) == 0 {
		return nil, fmt.Errorf("no chat completion found")
	}

	result := aiResponse.Choices[0].Message.Content
	result = strings.Trim(result, "`")
	result = strings.TrimSpace(result)
	result = strings.TrimPrefix(result, "json")
	result = strings.TrimSpace(result)

	var signal Signal
	if err = json.Unmarshal([]byte(result), &signal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal signal: %w", err)
	}

	signal.Value = strings.TrimSpace(signal.Value)

	return &signal, nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
