package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestAIAskUsesClient(t *testing.T) {
	stub := &stubChatClient{answer: "hello"}
	ai := NewAI(stub, "gpt-4o-mini", time.Minute)

	answer, err := ai.Ask(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if answer != "hello" {
		t.Errorf("Ask() = %q, want %q", answer, "hello")
	}
	if stub.lastSystem != "system" || stub.lastUser != "user" {
		t.Errorf("messages not passed through: system=%q user=%q", stub.lastSystem, stub.lastUser)
	}
}

func TestAIAskWithoutKey(t *testing.T) {
	ai := NewAIWithKey("", "", "gpt-4o-mini", time.Minute)

	if ai.Configured() {
		t.Error("Configured() should be false without a key")
	}
	_, err := ai.Ask(context.Background(), "system", "user")
	if KindOf(err) != ErrUpstreamUnavailable {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestAIAskConcurrentFirstRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	// Lazy client with concurrent callers, so the first requests all hit
	// the uninitialized path at once
	ai := NewAIWithKey("test-key", srv.URL, "gpt-4o-mini", time.Minute)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			answer, err := ai.Ask(context.Background(), "system", "user")
			if err != nil {
				errs <- err
				return
			}
			if answer != "ok" {
				errs <- errors.New("unexpected answer " + answer)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Ask() error = %v", err)
	}
}

func TestClassifyUpstreamError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"qa error passes through", NewQAError(ErrUpstreamError, "bad"), ErrUpstreamError},
		{"deadline becomes upstream error", context.DeadlineExceeded, ErrUpstreamError},
		{"plain error becomes unavailable", errors.New("connection refused"), ErrUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(classifyUpstreamError(tt.err)); got != tt.want {
				t.Errorf("classifyUpstreamError() kind = %v, want %v", got, tt.want)
			}
		})
	}
}
