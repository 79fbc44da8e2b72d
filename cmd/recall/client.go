package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/icco/recall"
)

// apiError is a non-2xx answer from the server.
type apiError struct {
	Status  int
	Kind    recall.Kind `json:"kind"`
	Message string      `json:"error"`
}

func (e *apiError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// client talks to the Recall HTTP API as one user.
type client struct {
	base  string
	http  *http.Client
	token string
}

func newClient(base string) *client {
	return &client{
		base: strings.TrimSuffix(base, "/"),
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &apiError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type loginResponse struct {
	Token string      `json:"token"`
	User  recall.User `json:"user"`
}

// login stores the token for later calls.
func (c *client) login(ctx context.Context, email, password string) (*recall.User, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp.User, nil
}

func (c *client) catalog(ctx context.Context) ([]recall.Game, error) {
	var games []recall.Game
	if err := c.do(ctx, http.MethodGet, "/catalog", nil, &games); err != nil {
		return nil, err
	}
	return games, nil
}

func (c *client) startSession(ctx context.Context, in recall.StartSessionInput) (*recall.Session, error) {
	var session recall.Session
	if err := c.do(ctx, http.MethodPost, "/sessions", in, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *client) recordRound(ctx context.Context, in recall.RecordRoundInput) (*recall.Round, error) {
	var round recall.Round
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/sessions/%d/rounds", in.SessionID), in, &round); err != nil {
		return nil, err
	}
	return &round, nil
}

func (c *client) completeSession(ctx context.Context, in recall.CompleteSessionInput) (*recall.Session, error) {
	var session recall.Session
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/sessions/%d/complete", in.ID), in, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *client) performance(ctx context.Context) ([]recall.Performance, error) {
	var rows []recall.Performance
	if err := c.do(ctx, http.MethodGet, "/performance", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *client) upsertPerformance(ctx context.Context, in recall.UpsertPerformanceInput) (*recall.Performance, error) {
	var perf recall.Performance
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/performance/%d", in.GameID), in, &perf); err != nil {
		return nil, err
	}
	return &perf, nil
}
