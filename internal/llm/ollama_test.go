package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaClient_EmbedText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("path = %q, want /api/embeddings", r.URL.Path)
		}
		var req embeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Model != "nomic-embed-text" || req.Prompt != "hello" {
			t.Errorf("request = %+v", req)
		}
		_ = json.NewEncoder(w).Encode(embeddingsResponse{Embedding: []float64{0.25, -0.5, 1.0}})
	}))
	defer server.Close()

	c := NewOllamaClient(server.URL, "llama3.1:8b", "nomic-embed-text", 3)

	vec, err := c.EmbedText(context.Background(), "hello")
	if err != nil {
		t.Fatalf("EmbedText() unexpected error: %v", err)
	}
	want := []float32{0.25, -0.5, 1.0}
	if len(vec) != len(want) {
		t.Fatalf("EmbedText() returned %d dims, want %d", len(vec), len(want))
	}
	for i := range want {
		if vec[i] != want[i] {
			t.Errorf("vec[%d] = %f, want %f", i, vec[i], want[i])
		}
	}
}

func TestOllamaClient_EmbedText_SizeMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(embeddingsResponse{Embedding: []float64{0.1, 0.2}})
	}))
	defer server.Close()

	c := NewOllamaClient(server.URL, "", "nomic-embed-text", 768)

	if _, err := c.EmbedText(context.Background(), "hello"); err == nil {
		t.Error("EmbedText() with wrong vector size should fail")
	}
}

func TestOllamaClient_EmbedText_EmptyInput(t *testing.T) {
	c := NewOllamaClient("http://unused", "", "m", 3)
	if _, err := c.EmbedText(context.Background(), ""); err == nil {
		t.Error("EmbedText(\"\") should fail without calling the API")
	}
}

func TestOllamaClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q, want /api/generate", r.URL.Path)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Model != "llama3.1:8b" {
			t.Errorf("model = %q, want the default model", req.Model)
		}
		// Ollama streams NDJSON lines
		fmt.Fprintln(w, `{"model":"llama3.1:8b","response":"Hello","done":false}`)
		fmt.Fprintln(w, `{"model":"llama3.1:8b","response":" world","done":false}`)
		fmt.Fprintln(w, `{"model":"llama3.1:8b","response":"","done":true}`)
	}))
	defer server.Close()

	c := NewOllamaClient(server.URL, "llama3.1:8b", "nomic-embed-text", 768)

	answer, err := c.Generate(context.Background(), "say hello", "")
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if answer != "Hello world" {
		t.Errorf("Generate() = %q, want %q", answer, "Hello world")
	}
}

func TestOllamaClient_GenerateStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"response":"a","done":false}`)
		fmt.Fprintln(w, `{"response":"b","done":true}`)
	}))
	defer server.Close()

	c := NewOllamaClient(server.URL, "m", "e", 768)

	var chunks []string
	err := c.GenerateStream(context.Background(), "p", "m", func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("GenerateStream() unexpected error: %v", err)
	}
	if len(chunks) != 2 || chunks[0] != "a" || chunks[1] != "b" {
		t.Errorf("chunks = %v", chunks)
	}
}

func TestOllamaClient_Generate_ModelUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	c := NewOllamaClient(server.URL, "m", "e", 768)

	_, err := c.Generate(context.Background(), "p", "missing-model")
	if !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("Generate() error = %v, want ErrModelUnavailable", err)
	}
}

func TestOllamaClient_Generate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewOllamaClient(server.URL, "m", "e", 768)

	_, err := c.Generate(context.Background(), "p", "")
	if !errors.Is(err, ErrInference) {
		t.Errorf("Generate() error = %v, want ErrInference", err)
	}
}

func TestOllamaClient_Models(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %q, want /api/tags", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3.1:8b"},{"name":"nomic-embed-text"}]}`))
	}))
	defer server.Close()

	c := NewOllamaClient(server.URL, "m", "e", 768)

	names, err := c.Models(context.Background())
	if err != nil {
		t.Fatalf("Models() unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "llama3.1:8b" || names[1] != "nomic-embed-text" {
		t.Errorf("Models() = %v", names)
	}
}
