package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogcli/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.AIConfig{
		APIKey:         "test-key",
		BaseURL:        server.URL,
		Model:          "gpt-4o-mini",
		ImageModel:     "dall-e-3",
		RequestTimeout: 5 * time.Second,
	}, nil, nil)
}

func TestChatCompletion(t *testing.T) {
	var gotBody map[string]interface{}
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "generated copy"}},
			},
		})
	})

	out, err := client.ChatCompletion(context.Background(), ChatRequest{
		System:      "You are a copywriter.",
		Prompt:      "write",
		Temperature: 0.8,
		MaxTokens:   1500,
	})
	require.NoError(t, err)
	assert.Equal(t, "generated copy", out)

	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
	assert.Equal(t, 0.8, gotBody["temperature"])
	assert.Equal(t, float64(1500), gotBody["max_tokens"])
}

func TestChatCompletion_NoChoices(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.ChatCompletion(context.Background(), ChatRequest{Prompt: "x"})
	assert.True(t, IsProviderError(err))
}

func TestChatCompletion_ProviderError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.ChatCompletion(context.Background(), ChatRequest{Prompt: "x"})
	require.Error(t, err)

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusTooManyRequests, pe.StatusCode)
}

func TestGenerateImage(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47}
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "1024x1024", body["size"])
		assert.Equal(t, "dall-e-3", body["model"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{
				{"b64_json": base64.StdEncoding.EncodeToString(raw)},
			},
		})
	})

	img, err := client.GenerateImage(context.Background(), "product shot", "1024x1024")
	require.NoError(t, err)
	assert.Equal(t, raw, img)
}

func TestSearchWeb(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]string{
				{"url": "https://example.com/a.jpg", "title": "A"},
				{"url": "https://example.com/page"},
			},
		})
	})

	results, err := client.SearchWeb(context.Background(), "serum product image")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "https://example.com/a.jpg", results[0].URL)
}

func TestCleanJSONContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading chatter", "Here is the JSON:\n{\"a\":1}", `{"a":1}`},
		{"array", "output:\n[1,2]", "[1,2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONContent(tt.in))
		})
	}
}
