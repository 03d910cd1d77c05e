// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func completionServer(t *testing.T, failures int, reply string) (*httptest.Server, *int) {
	t.Helper()
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests <= failures {
			http.Error(w, `{"error": "overloaded"}`, http.StatusServiceUnavailable)
			return
		}
		resp := chatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message chatMessage `json:"message"`
		}{Message: chatMessage{Role: "assistant", Content: reply}})
		json.NewEncoder(w).Encode(resp)
	}))
	return srv, &requests
}

func newTestClient(t *testing.T, baseURL string) *OpenAIClient {
	t.Helper()
	c, err := NewOpenAIClient(Config{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewOpenAIClient: %v", err)
	}
	return c
}

func TestCompleteRetriesTransientFailures(t *testing.T) {
	srv, requests := completionServer(t, 2, "hello")
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	reply, err := c.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "hello" {
		t.Errorf("reply = %q, want hello", reply)
	}
	if *requests != 3 {
		t.Errorf("requests = %d, want 3 (two failures then success)", *requests)
	}
}

func TestCompleteGivesUpAfterMaxRetries(t *testing.T) {
	srv, requests := completionServer(t, 100, "unreachable")
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	if _, err := c.Complete(context.Background(), "prompt"); err == nil {
		t.Error("Complete succeeded against an always-failing server")
	}
	if *requests != 3 {
		t.Errorf("requests = %d, want exactly MaxRetries", *requests)
	}
}

func TestCompleteRespectsContextCancellation(t *testing.T) {
	srv, _ := completionServer(t, 100, "unreachable")
	defer srv.Close()

	c, err := NewOpenAIClient(Config{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		MaxRetries: 3,
		RetryDelay: time.Minute,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewOpenAIClient: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := c.Complete(ctx, "prompt"); err == nil {
		t.Error("Complete ignored context cancellation")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Complete waited out the full retry delay despite cancellation")
	}
}

func TestNewOpenAIClientRequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIClient(Config{}, zerolog.Nop()); err == nil {
		t.Error("NewOpenAIClient accepted empty api key")
	}
}
