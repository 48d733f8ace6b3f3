package httpclient

import (
	"net/http"
	"testing"
)

func TestBearerAuth(t *testing.T) {
	auth := BearerAuth("my-token")
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("Authorization"); got != "Bearer my-token" {
		t.Errorf("got %q, want %q", got, "Bearer my-token")
	}
}

func TestBearerAuth_EmptyToken(t *testing.T) {
	if auth := BearerAuth(""); auth != nil {
		t.Errorf("expected nil auth for empty token, got %+v", auth)
	}
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	(&AuthConfig{Type: AuthBearer}).apply(req)
	if _, ok := req.Header["Authorization"]; ok {
		t.Error("empty bearer token must not set Authorization")
	}
}

func TestNilAuth(t *testing.T) {
	var auth *AuthConfig
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req) // should not panic
}

func TestNoAuth(t *testing.T) {
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	NoAuth().apply(req)
	if req.Header.Get("Authorization") != "" {
		t.Error("AuthNone should not set Authorization header")
	}
}
