package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaExtract_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Decode request: %v", err)
		}
		if req.Format != "json" {
			t.Errorf("Expected format json, got %q", req.Format)
		}
		if req.Stream {
			t.Error("Expected non-streaming request")
		}
		if req.System == "" {
			t.Error("Expected system prompt to be set")
		}
		if req.Options.Temperature != 0 {
			t.Errorf("Expected temperature 0, got %f", req.Options.Temperature)
		}

		resp := ollamaResponse{
			Model:           req.Model,
			Response:        `{"airway": "obstructed", "sbp": 80, "gcs": 6}`,
			Done:            true,
			PromptEvalCount: 120,
			EvalCount:       40,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p, err := NewOllamaProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOllamaProvider failed: %v", err)
	}

	resp, err := p.Extract(context.Background(), ExtractRequest{Note: "snoring, sbp 80, gcs 6"})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if resp.Facts["airway"] != "obstructed" {
		t.Errorf("Expected airway obstructed, got %v", resp.Facts["airway"])
	}
	if resp.TokensUsed != 160 {
		t.Errorf("Expected 160 tokens, got %d", resp.TokensUsed)
	}
}

func TestOllamaExtract_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(ollamaError{Error: "model not found"})
	}))
	defer server.Close()

	p, err := NewOllamaProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOllamaProvider failed: %v", err)
	}

	if _, err := p.Extract(context.Background(), ExtractRequest{Note: "x"}); err == nil {
		t.Error("Expected error for API failure")
	}
}

func TestOllamaExtract_UnparseableResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Response: "I am not able to produce JSON today.",
			Done:     true,
		})
	}))
	defer server.Close()

	p, err := NewOllamaProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOllamaProvider failed: %v", err)
	}

	if _, err := p.Extract(context.Background(), ExtractRequest{Note: "x"}); err == nil {
		t.Error("Expected parse error for non-JSON model output")
	}
}

func TestOllamaIsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p, err := NewOllamaProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOllamaProvider failed: %v", err)
	}
	if !p.IsAvailable(context.Background()) {
		t.Error("Expected provider to be available")
	}

	server.Close()
	if p.IsAvailable(context.Background()) {
		t.Error("Expected provider to be unavailable after server shutdown")
	}
}
