package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// OllamaClient is a client for the Ollama HTTP API. It implements both
// the Embedder and Generator interfaces.
type OllamaClient struct {
	BaseURL        string
	DefaultModel   string
	EmbeddingModel string
	ExpectedSize   int // Expected embedding vector size for validation
	client         *http.Client
}

// NewOllamaClient creates a new Ollama client.
// expectedSize is the embedding vector size (from QDRANT_VECTOR_SIZE config);
// every embedding returned by EmbedText is validated against it.
func NewOllamaClient(baseURL, defaultModel, embeddingModel string, expectedSize int) *OllamaClient {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaClient{
		BaseURL:        baseURL,
		DefaultModel:   defaultModel,
		EmbeddingModel: embeddingModel,
		ExpectedSize:   expectedSize,
		client:         http.DefaultClient,
	}
}

// embeddingsRequest represents the request payload for the embeddings API.
type embeddingsRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// embeddingsResponse represents the response from the embeddings API.
type embeddingsResponse struct {
	Embedding []float64 `json:"embedding"`
}

// EmbedText generates an embedding for the given text.
// Validates that the returned vector matches the expected size.
func (c *OllamaClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("empty input text")
	}

	url := fmt.Sprintf("%s/api/embeddings", c.BaseURL)

	payload := embeddingsRequest{
		Model:  c.EmbeddingModel,
		Prompt: text,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var embResp embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(embResp.Embedding) != c.ExpectedSize {
		return nil, fmt.Errorf("embedding has size %d, expected %d", len(embResp.Embedding), c.ExpectedSize)
	}

	vec := make([]float32, len(embResp.Embedding))
	for i, v := range embResp.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

// generateRequest represents the request payload for the generate API.
type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

// generateResponse represents one NDJSON line from the generate API.
type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate produces an answer for the prompt, blocking until the model
// finishes. An empty model selects the client's default model.
func (c *OllamaClient) Generate(ctx context.Context, prompt, model string) (string, error) {
	var result bytes.Buffer
	err := c.generate(ctx, prompt, model, func(chunk string) error {
		result.WriteString(chunk)
		return nil
	})
	if err != nil {
		return "", err
	}
	return result.String(), nil
}

// GenerateStream produces an answer incrementally, invoking the callback
// for each text fragment as the model emits it.
func (c *OllamaClient) GenerateStream(ctx context.Context, prompt, model string, callback func(chunk string) error) error {
	return c.generate(ctx, prompt, model, callback)
}

// generate issues the request and decodes the NDJSON stream Ollama emits
// for both streaming and non-streaming callers.
func (c *OllamaClient) generate(ctx context.Context, prompt, model string, callback func(chunk string) error) error {
	if model == "" {
		model = c.DefaultModel
	}

	url := fmt.Sprintf("%s/api/generate", c.BaseURL)

	payload := generateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: true,
		Options: map[string]any{
			"temperature": 0.7,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInference, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		// Ollama answers 404 for models that are not pulled
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: model %q: %s", ErrModelUnavailable, model, string(raw))
		}
		return fmt.Errorf("%w: bad status %d: %s", ErrInference, resp.StatusCode, string(raw))
	}

	decoder := json.NewDecoder(resp.Body)
	for {
		var genResp generateResponse
		if err := decoder.Decode(&genResp); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("%w: failed to decode response: %v", ErrInference, err)
		}

		if genResp.Response != "" {
			if err := callback(genResp.Response); err != nil {
				return fmt.Errorf("callback error: %w", err)
			}
		}

		if genResp.Done {
			break
		}
	}

	return nil
}

// tagsResponse represents the response from the tags API.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Models lists the model names available in the Ollama runtime.
func (c *OllamaClient) Models(ctx context.Context) ([]string, error) {
	url := fmt.Sprintf("%s/api/tags", c.BaseURL)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}
