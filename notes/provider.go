package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ProviderType names a generation backend.
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOpenAI ProviderType = "openai" // any OpenAI-compatible endpoint
)

// DefaultGeminiURL is the generativelanguage API root; the model path is appended.
const DefaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta"

// Generator sends one prompt and returns the first candidate's text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// ProviderConfig selects and configures a Generator.
type ProviderConfig struct {
	Type        ProviderType `json:"type"`
	APIKey      string       `json:"apiKey"`
	APIURL      string       `json:"apiUrl"`
	Model       string       `json:"model"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"maxTokens"`
}

// NewProvider returns the Generator for config.Type; an empty type means Gemini.
func NewProvider(config ProviderConfig) (Generator, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("no model configured for provider %q", config.Type)
	}
	switch config.Type {
	case ProviderGemini, "":
		if config.APIURL == "" {
			config.APIURL = DefaultGeminiURL
		}
		return &GeminiProvider{Config: config, HTTPClient: &http.Client{}}, nil
	case ProviderOpenAI:
		return NewOpenAIProvider(config), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

// GeminiProvider calls the Gemini generateContent endpoint over plain HTTP.
// HTTPClient has no timeout of its own; callers bound the call through ctx.
type GeminiProvider struct {
	Config     ProviderConfig
	HTTPClient *http.Client
}

func (p *GeminiProvider) Name() string { return string(ProviderGemini) }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig map[string]any  `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}
	gen := map[string]any{}
	if p.Config.Temperature > 0 {
		gen["temperature"] = p.Config.Temperature
	}
	if p.Config.MaxTokens > 0 {
		gen["maxOutputTokens"] = p.Config.MaxTokens
	}
	if len(gen) > 0 {
		reqBody.GenerationConfig = gen
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(p.Config.APIURL, "/"), p.Config.Model, url.QueryEscape(p.Config.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := p.doRequest(req)
	if err != nil {
		return "", err
	}

	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("API error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("API returned no candidates")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func (p *GeminiProvider) doRequest(req *http.Request) ([]byte, error) {
	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(string(body), 512))
	}
	return body, nil
}

// OpenAIProvider talks to any OpenAI-compatible chat completions API.
type OpenAIProvider struct {
	Config ProviderConfig
	client openai.Client
}

// NewOpenAIProvider builds the SDK client from config.
func NewOpenAIProvider(config ProviderConfig) *OpenAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.APIURL != "" {
		opts = append(opts, option.WithBaseURL(config.APIURL))
	}
	return &OpenAIProvider{Config: config, client: openai.NewClient(opts...)}
}

func (p *OpenAIProvider) Name() string { return string(ProviderOpenAI) }

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: p.Config.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if p.Config.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(p.Config.MaxTokens))
	}
	if p.Config.Temperature > 0 {
		params.Temperature = openai.Float(p.Config.Temperature)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
