package postgrest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestBaseClient_GetSendsAuthAndCount(t *testing.T) {
	var gotPath, gotQuery, gotKey, gotBearer, gotPrefer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("apikey")
		gotBearer = r.Header.Get("Authorization")
		gotPrefer = r.Header.Get("Prefer")
		w.Header().Set("Content-Range", "0-1/42")
		w.Write([]byte(`[{"id":1},{"id":2}]`))
	}))
	defer srv.Close()

	c := NewBaseClient(srv.URL+"/", NewServiceKeyAuth("secret"), nil)
	params := url.Values{}
	params.Set("select", "id")
	resp, err := c.Get(context.Background(), "products_master", params, true, false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotPath != "/rest/v1/products_master" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "select=id" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotKey != "secret" || gotBearer != "Bearer secret" {
		t.Errorf("auth headers = %q / %q", gotKey, gotBearer)
	}
	if gotPrefer != "count=exact" {
		t.Errorf("Prefer = %q", gotPrefer)
	}
	if resp.Total != 42 {
		t.Errorf("Total = %d, want 42", resp.Total)
	}
}

func TestBaseClient_UpstreamMessageIsKept(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"42703","message":"column products_master.nope does not exist"}`))
	}))
	defer srv.Close()

	c := NewBaseClient(srv.URL, nil, nil)
	_, err := c.Get(context.Background(), "products_master", nil, false, false)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("status = %d", apiErr.Status)
	}
	if apiErr.Message != "column products_master.nope does not exist" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestParseContentRange(t *testing.T) {
	cases := map[string]int{
		"0-24/3573": 3573,
		"*/0":       0,
		"0-9/*":     -1,
		"":          -1,
	}
	for header, want := range cases {
		if got := parseContentRange(header); got != want {
			t.Errorf("parseContentRange(%q) = %d, want %d", header, got, want)
		}
	}
}

func TestNewServiceKeyAuth_EmptyKey(t *testing.T) {
	if NewServiceKeyAuth("") != nil {
		t.Fatal("empty key should disable auth")
	}
}
