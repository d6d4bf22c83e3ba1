package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
)

func TestQueryHappyPath(t *testing.T) {
	t.Parallel()

	var gotReq queryRequest
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if r.URL.Path != "/query" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"hits":[{"id":"1","text":"good reviews","distance":0.12}]}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{URL: server.URL, Token: "secret"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	hits, err := client.Query(context.Background(), "sentiment", "how do customers feel", 4)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(hits) != 1 || hits[0].Text != "good reviews" {
		t.Fatalf("unexpected hits: %+v", hits)
	}
	if gotReq.Namespace != "sentiment" || gotReq.K != 4 {
		t.Fatalf("unexpected request: %+v", gotReq)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
}

func TestQueryUnknownNamespace(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{URL: server.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	hits, err := client.Query(context.Background(), "nonexistent", "anything", 4)
	if err != nil {
		t.Fatalf("unknown namespace must not error, got %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits, got %+v", hits)
	}
}

func TestQueryServerFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{URL: server.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = client.Query(context.Background(), "sentiment", "anything", 4)
	if !errors.Is(err, contractx.ErrRetrievalUnavailable) {
		t.Fatalf("expected ErrRetrievalUnavailable, got %v", err)
	}
}

func TestQueryEmptyNamespace(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{URL: "http://localhost:1"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = client.Query(context.Background(), "  ", "anything", 4)
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestQueryClampsK(t *testing.T) {
	t.Parallel()

	var gotReq queryRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"hits":[]}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{URL: server.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if _, err := client.Query(context.Background(), "sentiment", "q", 0); err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if gotReq.K != 1 {
		t.Fatalf("k = %d, want clamp to 1", gotReq.K)
	}
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{}); err == nil {
		t.Fatalf("missing url must fail")
	}
	if _, err := NewClient(Config{URL: "not a url"}); err == nil {
		t.Fatalf("malformed url must fail")
	}
}
