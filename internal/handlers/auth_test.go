package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/user-mgmt/apiserver/types"
)

func postForm(router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTokenSuccess(t *testing.T) {
	router, userService, tokenService := newTestRouter()
	_, err := userService.Create(context.Background(), types.UserCreate{
		Fullname: "Alice Doe",
		Username: "alice@example.com",
		Password: "s3cret-pass",
		Status:   types.StatusActive,
		Roles:    []types.RoleName{types.RoleUser},
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	rec := postForm(router, "/auth/token", url.Values{
		"username": {"alice@example.com"},
		"password": {"s3cret-pass"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var resp TokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TokenType != "bearer" {
		t.Fatalf("token_type = %q, want bearer", resp.TokenType)
	}

	subject, err := tokenService.Validate(resp.AccessToken)
	if err != nil {
		t.Fatalf("issued token failed validation: %v", err)
	}
	if subject != "alice@example.com" {
		t.Fatalf("token subject = %q, want alice@example.com", subject)
	}
}

func TestTokenInvalidCredentials(t *testing.T) {
	router, userService, _ := newTestRouter()
	_, err := userService.Create(context.Background(), types.UserCreate{
		Fullname: "Alice Doe",
		Username: "alice@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	cases := []url.Values{
		{"username": {"alice@example.com"}, "password": {"wrong-pass"}},
		{"username": {"nobody@example.com"}, "password": {"s3cret-pass"}},
	}
	for _, form := range cases {
		rec := postForm(router, "/auth/token", form)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if got := rec.Header().Get("WWW-Authenticate"); got != "Bearer" {
			t.Fatalf("WWW-Authenticate = %q, want Bearer", got)
		}

		var resp DetailResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Detail != "Incorrect username or password" {
			t.Fatalf("detail = %q", resp.Detail)
		}
	}
}

func TestTokenMissingCredentials(t *testing.T) {
	router, _, _ := newTestRouter()

	cases := []url.Values{
		{},
		{"username": {"alice@example.com"}},
		{"password": {"s3cret-pass"}},
	}
	for _, form := range cases {
		rec := postForm(router, "/auth/token", form)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rec.Code)
		}
	}
}

func TestRootLiveness(t *testing.T) {
	router, _, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["message"] != "hello-world!" || resp["status"] != "ok" {
		t.Fatalf("body = %v", resp)
	}
}
