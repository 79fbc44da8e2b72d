package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/icco/recall"
)

func TestRegisterValidation(t *testing.T) {
	_, h := setupTestServer(t)

	tests := []struct {
		name string
		body interface{}
		want int
	}{
		{"bad json", "{", http.StatusBadRequest},
		{"missing password", RegisterRequest{Email: "a@example.com"}, http.StatusBadRequest},
		{"short password", RegisterRequest{Email: "a@example.com", Password: "short"}, http.StatusBadRequest},
		{"ok", RegisterRequest{Email: "a@example.com", Password: "longenough"}, http.StatusCreated},
		{"duplicate", RegisterRequest{Email: "A@example.com", Password: "longenough"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, call(t, h, "POST", "/auth/register", "", tt.body), tt.want)
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, h := setupTestServer(t)
	signup(t, h, "user@example.com")

	for _, req := range []LoginRequest{
		{Email: "user@example.com", Password: "wrongpassword"},
		{Email: "nobody@example.com", Password: "password123"},
	} {
		rr := call(t, h, "POST", "/auth/login", "", req)
		expectStatus(t, rr, http.StatusUnauthorized)

		var body ErrorResponse
		decodeBody(t, rr, &body)
		if body.Error != "invalid credentials" {
			t.Errorf("Expected generic credentials error, got %q", body.Error)
		}
	}
}

func TestProfileReturnsCaller(t *testing.T) {
	_, h := setupTestServer(t)
	token := signup(t, h, "me@example.com")

	rr := call(t, h, "GET", "/auth/profile", token, nil)
	expectStatus(t, rr, http.StatusOK)

	var user recall.User
	decodeBody(t, rr, &user)
	if user.Email != "me@example.com" {
		t.Errorf("Expected profile for me@example.com, got %s", user.Email)
	}
	if user.PasswordHash != "" {
		t.Error("Password hash must not be serialized")
	}
}

func TestAuthMiddlewareSetsCaller(t *testing.T) {
	s, h := setupTestServer(t)
	token := signup(t, h, "ctx@example.com")

	var got int64
	handler := s.authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = recall.UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got <= 0 {
		t.Fatalf("Expected caller id in context, got %d", got)
	}

	// A token for a user that no longer resolves is rejected.
	stranger := &recall.User{ID: got + 100, Name: "ghost", Email: "ghost@example.com"}
	tok, err := s.generateJWTForUser(stranger)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	rr := call(t, h, "GET", "/auth/profile", tok, nil)
	expectStatus(t, rr, http.StatusUnauthorized)
}
