package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChat_RequestShape(t *testing.T) {
	var captured chatCompletionRequest
	var gotAuth, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(`{
			"choices": [{"message": {"content": "a cat"}, "finish_reason": "stop"}],
			"model": "gpt-4o",
			"usage": {"prompt_tokens": 120, "completion_tokens": 8, "total_tokens": 128}
		}`))
	}))
	defer srv.Close()

	p := NewOpenAICompat(Config{Model: "gpt-4o", BaseURL: srv.URL, APIKey: "sk-test"})

	resp, err := p.GenerateText(context.Background(), Request{
		Messages:  []Message{UserMessage("what is this", ImageFromURL("https://example.com/x.png"))},
		MaxTokens: 500,
	})
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}

	if gotPath != "/v1/chat/completions" {
		t.Errorf("path = %q, want /v1/chat/completions", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if captured.Model != "gpt-4o" {
		t.Errorf("model = %q, want gpt-4o", captured.Model)
	}
	if captured.MaxTokens != 500 {
		t.Errorf("max_tokens = %d, want 500", captured.MaxTokens)
	}
	if len(captured.Messages) != 1 || len(captured.Messages[0].Content) != 2 {
		t.Fatalf("expected 1 message with 2 parts, got %+v", captured.Messages)
	}

	if resp.Content != "a cat" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Usage.InputTokens != 120 || resp.Usage.OutputTokens != 8 || resp.Usage.TotalTokens != 128 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestChat_MissingUsageDegradesToZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAICompat(Config{Model: "m", BaseURL: srv.URL})

	resp, err := p.GenerateText(context.Background(), Request{Messages: []Message{TextMessage("hi")}})
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if resp.Usage != (Usage{}) {
		t.Errorf("expected zero usage when provider omits it, got %+v", resp.Usage)
	}
}

func TestChat_APIErrorNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewOpenAICompat(Config{Model: "m", BaseURL: srv.URL})

	_, err := p.GenerateText(context.Background(), Request{Messages: []Message{TextMessage("hi")}})
	if err == nil {
		t.Fatal("expected error on 429 response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should carry the status code, got: %v", err)
	}
	if calls != 1 {
		t.Errorf("failure must propagate immediately, got %d attempts", calls)
	}
}

func TestChat_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	p := NewOpenAICompat(Config{Model: "m", BaseURL: srv.URL})

	_, err := p.GenerateText(context.Background(), Request{Messages: []Message{TextMessage("hi")}})
	if err == nil {
		t.Fatal("expected error on empty choices")
	}
}

func TestChat_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	p := NewOpenAICompat(Config{Model: "m", BaseURL: srv.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.GenerateText(ctx, Request{Messages: []Message{TextMessage("hi")}})
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGenerateImage(t *testing.T) {
	var captured imageGenerationRequest
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(`{"data": [{"url": "https://cdn.example.com/gen/42.png"}]}`))
	}))
	defer srv.Close()

	p := NewOpenAICompat(Config{Model: "dall-e-3", BaseURL: srv.URL})

	url, err := p.GenerateImage(context.Background(), "a lighthouse at dusk")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}

	if gotPath != "/v1/images/generations" {
		t.Errorf("path = %q, want /v1/images/generations", gotPath)
	}
	if captured.Prompt != "a lighthouse at dusk" || captured.N != 1 {
		t.Errorf("request = %+v", captured)
	}
	if captured.ResponseFormat != "url" {
		t.Errorf("response_format = %q, want url", captured.ResponseFormat)
	}
	if url != "https://cdn.example.com/gen/42.png" {
		t.Errorf("url = %q", url)
	}
}

func TestGenerateImage_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	p := NewOpenAICompat(Config{Model: "dall-e-3", BaseURL: srv.URL})

	if _, err := p.GenerateImage(context.Background(), "anything"); err == nil {
		t.Fatal("expected error when response has no image URL")
	}
}

func TestGemini_PathPrefix(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}]}`))
	}))
	defer srv.Close()

	p := NewGemini(Config{Provider: "gemini", Model: "gemini-2.5-flash", BaseURL: srv.URL})

	if _, err := p.GenerateText(context.Background(), Request{Messages: []Message{TextMessage("hi")}}); err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("gemini path = %q, want /chat/completions (no /v1 prefix)", gotPath)
	}
}
