package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dashboard "github.com/goliatone/go-commsdash/components/dashboard"
)

func TestHTTPClientFetchCollection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/campaigns" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("count"); got != "2" {
			t.Errorf("expected count=2, got %s", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected auth header, got %s", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"entity":  "campaigns",
			"count":   2,
			"records": []map[string]any{{"id": "CAM-1"}, {"id": "CAM-2"}},
		})
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL + "/", APIKey: "secret"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	raw, err := client.FetchCollection(context.Background(), "campaigns", 2)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	var records []dashboard.Campaign
	if err := json.Unmarshal(raw, &records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 2 || records[1].ID != "CAM-2" {
		t.Fatalf("unexpected records %#v", records)
	}
}

func TestHTTPClientRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.FetchCollection(context.Background(), "templates", 5)
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected remote error, got %v", err)
	}
}

func TestNewHTTPClientRequiresBaseURL(t *testing.T) {
	if _, err := NewHTTPClient(HTTPConfig{}); err == nil {
		t.Fatalf("expected error without base url")
	}
}
