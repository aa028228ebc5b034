package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("stream should be disabled")
		}
		if req.Model != "test-model" {
			t.Errorf("unexpected model: %s", req.Model)
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "To reset the router, hold the button.", Done: true})
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL, Model: "test-model"})
	got, err := c.Generate(context.Background(), "How do I reset the router?")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if got != "To reset the router, hold the button." {
		t.Errorf("unexpected completion: %q", got)
	}
}

func TestGenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not loaded"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	if _, err := c.Generate(context.Background(), "hi"); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestGenerateContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Response: "late", Done: true})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewClient(Config{BaseURL: server.URL})
	if _, err := c.Generate(ctx, "hi"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{})
	if c.baseURL != "http://localhost:11434" {
		t.Errorf("unexpected default base url: %s", c.baseURL)
	}
	if c.model != "mistral" {
		t.Errorf("unexpected default model: %s", c.model)
	}
}
