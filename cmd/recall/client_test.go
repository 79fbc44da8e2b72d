package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/icco/recall"
)

// fakeAPI answers the routes the client uses with canned bodies.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad login body: %v", err)
		}
		if req["password"] != "password123" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials", "kind": "UNAUTHORIZED"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"token": "tok", "user": map[string]interface{}{"id": 1, "email": req["email"]}})
	})
	mux.HandleFunc("GET /catalog", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("Expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		_ = json.NewEncoder(w).Encode([]recall.Game{{ID: 7, Name: "Digit Span", IsActive: true}})
	})
	mux.HandleFunc("POST /sessions/{id}/rounds", func(w http.ResponseWriter, r *http.Request) {
		var in recall.RecordRoundInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("bad round body: %v", err)
		}
		if r.PathValue("id") != "9" {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Session not found", "kind": "NOT_FOUND"})
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(recall.Round{ID: 1, SessionID: 9, RoundNumber: *in.RoundNumber, Prompt: in.Prompt})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientLoginAndCatalog(t *testing.T) {
	c := newClient(fakeAPI(t).URL + "/")

	if _, err := c.login(t.Context(), "me@example.com", "nope"); err == nil {
		t.Fatal("Expected bad password to fail")
	} else {
		var apiErr *apiError
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized || apiErr.Kind != recall.KindUnauthorized {
			t.Errorf("Unexpected error: %#v", err)
		}
	}

	user, err := c.login(t.Context(), "me@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Email != "me@example.com" || c.token != "tok" {
		t.Errorf("Unexpected login result: %+v token=%q", user, c.token)
	}

	games, err := c.catalog(t.Context())
	if err != nil {
		t.Fatalf("catalog failed: %v", err)
	}
	if len(games) != 1 || games[0].ID != 7 {
		t.Errorf("Unexpected catalog: %+v", games)
	}
}

func TestClientRecordRound(t *testing.T) {
	c := newClient(fakeAPI(t).URL)
	c.token = "tok"

	number := 2
	round, err := c.recordRound(t.Context(), recall.RecordRoundInput{
		SessionID:   9,
		RoundNumber: &number,
		Prompt:      recall.Document{"sequence": "123"},
	})
	if err != nil {
		t.Fatalf("recordRound failed: %v", err)
	}
	if round.RoundNumber != 2 || round.Prompt["sequence"] != "123" {
		t.Errorf("Unexpected round: %+v", round)
	}

	_, err = c.recordRound(t.Context(), recall.RecordRoundInput{SessionID: 10, Prompt: recall.Document{}})
	var apiErr *apiError
	if !errors.As(err, &apiErr) || apiErr.Kind != recall.KindNotFound {
		t.Errorf("Expected NOT_FOUND, got %v", err)
	}
}
