package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExaClientSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}

		var req exaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Query != "rust performance" || req.NumResults != 3 || !req.Contents.Text {
			t.Errorf("unexpected request payload: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [
			{"title": "Rust perf", "url": "https://a.example", "text": "rust is fast", "favicon": "https://a.example/icon.png"},
			{"title": "More", "url": "https://b.example", "text": ""}
		]}`))
	}))
	defer srv.Close()

	c := NewExaClient("test-key")
	c.BaseURL = srv.URL

	got, err := c.Search(context.Background(), "rust performance", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d sources, want 2", len(got))
	}
	want := Source{Title: "Rust perf", URL: "https://a.example", Snippet: "rust is fast", Favicon: "https://a.example/icon.png"}
	if got[0] != want {
		t.Errorf("source[0] = %+v, want %+v", got[0], want)
	}
}

func TestExaClientNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewExaClient("test-key")
	c.BaseURL = srv.URL

	if _, err := c.Search(context.Background(), "q", 5); err == nil {
		t.Error("non-200 response should be an error")
	}
}

func TestExaClientMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewExaClient("test-key")
	c.BaseURL = srv.URL

	if _, err := c.Search(context.Background(), "q", 5); err == nil {
		t.Error("malformed response should be an error")
	}
}
