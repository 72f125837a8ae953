package notes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	gen, err := NewProvider(ProviderConfig{Model: "gemini-3-flash-preview", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "gemini", gen.Name())
	assert.Equal(t, DefaultGeminiURL, gen.(*GeminiProvider).Config.APIURL)

	gen, err = NewProvider(ProviderConfig{Type: ProviderOpenAI, Model: "gpt-4o-mini", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "openai", gen.Name())

	_, err = NewProvider(ProviderConfig{Type: "claude", Model: "x"})
	assert.Error(t, err)

	_, err = NewProvider(ProviderConfig{Type: ProviderGemini})
	assert.Error(t, err)
}

func TestGeminiGenerate(t *testing.T) {
	var got geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[
			{"content":{"role":"model","parts":[{"text":"  Title: Cells\n"},{"text":"ignored"}]}},
			{"content":{"role":"model","parts":[{"text":"second candidate"}]}}
		]}`))
	}))
	defer srv.Close()

	p := &GeminiProvider{
		Config:     ProviderConfig{APIURL: srv.URL + "/", APIKey: "secret", Model: "gemini-test"},
		HTTPClient: srv.Client(),
	}
	out, err := p.Generate(context.Background(), "summarize this")
	require.NoError(t, err)
	assert.Equal(t, "  Title: Cells\n", out)

	require.Len(t, got.Contents, 1)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "summarize this", got.Contents[0].Parts[0].Text)
	assert.Nil(t, got.GenerationConfig)
}

func TestGeminiGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http status", http.StatusTooManyRequests, `{"error":{"code":429,"message":"quota"}}`},
		{"api error", http.StatusOK, `{"error":{"code":400,"message":"bad key"}}`},
		{"no candidates", http.StatusOK, `{"candidates":[]}`},
		{"no parts", http.StatusOK, `{"candidates":[{"content":{"parts":[]}}]}`},
		{"not json", http.StatusOK, `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := &GeminiProvider{
				Config:     ProviderConfig{APIURL: srv.URL, APIKey: "k", Model: "m"},
				HTTPClient: srv.Client(),
			}
			_, err := p.Generate(context.Background(), "x")
			assert.Error(t, err)
		})
	}
}

func TestGeminiGenerationConfig(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer srv.Close()

	p := &GeminiProvider{
		Config:     ProviderConfig{APIURL: srv.URL, Model: "m", Temperature: 0.2, MaxTokens: 512},
		HTTPClient: srv.Client(),
	}
	_, err := p.Generate(context.Background(), "x")
	require.NoError(t, err)

	gen, ok := got["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0.2, gen["temperature"])
	assert.Equal(t, float64(512), gen["maxOutputTokens"])
}

func TestOpenAIGenerate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-test",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "Title: Cells"}}]
		}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(ProviderConfig{
		Type:   ProviderOpenAI,
		APIKey: "sk-test",
		APIURL: srv.URL + "/v1/",
		Model:  "gpt-test",
	})
	out, err := p.Generate(context.Background(), "summarize this")
	require.NoError(t, err)
	assert.Equal(t, "Title: Cells", out)

	assert.Equal(t, "gpt-test", got["model"])
	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	msg := msgs[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "summarize this", msg["content"])
}
