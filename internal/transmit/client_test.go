package transmit

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"sensornode/internal/config"
)

func TestClient_Post_ReportsStatusAndBody(t *testing.T) {
	var gotBody, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("inserted"))
	}))
	defer srv.Close()

	c := NewClient(config.ServerConfig{BaseURL: srv.URL, IngestPath: "/ingest.php"})
	res, err := c.Post(context.Background(), "node_name=x&distance_cm=1.00")
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if !res.Attempted || res.StatusCode != http.StatusOK {
		t.Fatalf("Post() result = %+v, want attempted 200", res)
	}
	if res.Body != "inserted" {
		t.Fatalf("Post() body = %q", res.Body)
	}
	if gotBody != "node_name=x&distance_cm=1.00" {
		t.Fatalf("server saw body %q", gotBody)
	}
	if gotContentType != contentTypeForm {
		t.Fatalf("content type = %q", gotContentType)
	}
	if !res.OK() {
		t.Fatal("2xx result must report OK")
	}
}

func TestClient_Post_Non2xxAttemptedButNotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(config.ServerConfig{BaseURL: srv.URL})
	res, err := c.Post(context.Background(), "x=1")
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if !res.Attempted || res.StatusCode != http.StatusBadGateway || res.OK() {
		t.Fatalf("Post() result = %+v, want attempted 502 not OK", res)
	}
}

func TestClient_Post_SetupFailureNotAttempted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(config.ServerConfig{BaseURL: srv.URL})
	res, err := c.Post(context.Background(), "x=1")
	if err == nil {
		t.Fatal("Post() to closed server must error")
	}
	if res.Attempted || res.StatusCode != 0 {
		t.Fatalf("setup failure must not carry a status, got %+v", res)
	}
}
