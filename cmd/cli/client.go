package main

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/and161185/studylife/internal/convert"
	httpserver "github.com/and161185/studylife/internal/server/http"
)

// apiError is a non-2xx response decoded from the server's error envelope.
type apiError struct {
	Status int
	httpserver.APIError
}

func (e *apiError) Error() string {
	msg := fmt.Sprintf("%d %s", e.Status, e.Message)
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+e.Fields[k])
		}
		msg += " (" + strings.Join(parts, ", ") + ")"
	}
	return msg
}

// client calls the REST API.
type client struct {
	base  string
	token string
	hc    *http.Client
}

func newClient(base string, insecure bool) *client {
	hc := &http.Client{}
	if insecure {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // dev only
		hc.Transport = tr
	}
	return &client{base: strings.TrimRight(base, "/"), hc: hc}
}

func (c *client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var env httpserver.ErrorEnvelope
		_ = json.NewDecoder(resp.Body).Decode(&env)
		if env.Error.Message == "" {
			env.Error.Message = http.StatusText(resp.StatusCode)
		}
		return &apiError{Status: resp.StatusCode, APIError: env.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *client) Signup(ctx context.Context, email, password, name, course string) (convert.Account, error) {
	in := map[string]any{"email": email, "password": password, "full_name": name}
	if course != "" {
		in["course"] = course
	}
	var out convert.Account
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", in, &out)
	return out, err
}

func (c *client) Login(ctx context.Context, email, password string) (convert.Token, error) {
	var out convert.Token
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, &out)
	return out, err
}

func (c *client) Me(ctx context.Context) (convert.Account, error) {
	var out convert.Account
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out)
	return out, err
}

func (c *client) Notes(ctx context.Context) ([]convert.Note, error) {
	var out []convert.Note
	err := c.do(ctx, http.MethodGet, "/api/notes/", nil, &out)
	return out, err
}

func (c *client) AddNote(ctx context.Context, title, desc, color string, star bool) (convert.Note, error) {
	in := map[string]any{"title": title, "description": desc, "is_starred": star}
	if color != "" {
		in["color"] = color
	}
	var out convert.Note
	err := c.do(ctx, http.MethodPost, "/api/notes/", in, &out)
	return out, err
}

func (c *client) StarNote(ctx context.Context, id string) (convert.Note, error) {
	var out convert.Note
	err := c.do(ctx, http.MethodPatch, "/api/notes/"+url.PathEscape(id)+"/star", nil, &out)
	return out, err
}

func (c *client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/notes/"+url.PathEscape(id), nil, nil)
}

func (c *client) Quizzes(ctx context.Context) ([]convert.Quiz, error) {
	var out []convert.Quiz
	err := c.do(ctx, http.MethodGet, "/api/quiz/all", nil, &out)
	return out, err
}

func (c *client) Quiz(ctx context.Context, id string) (convert.Quiz, error) {
	var out convert.Quiz
	err := c.do(ctx, http.MethodGet, "/api/quiz/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *client) Submit(ctx context.Context, quizID string, answers map[string]string) (convert.Progress, error) {
	var out convert.Progress
	err := c.do(ctx, http.MethodPost, "/api/quiz/submit/"+url.PathEscape(quizID), map[string]any{"answers": answers}, &out)
	return out, err
}

func (c *client) Progress(ctx context.Context) ([]convert.Progress, error) {
	var out []convert.Progress
	err := c.do(ctx, http.MethodGet, "/api/progress/", nil, &out)
	return out, err
}

func (c *client) Stats(ctx context.Context) (convert.Stats, error) {
	var out convert.Stats
	err := c.do(ctx, http.MethodGet, "/api/progress/stats", nil, &out)
	return out, err
}
