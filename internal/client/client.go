// Package client is a typed HTTP client for the taskdeck REST surface.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jask/taskdeck/internal/database/repository"
)

// APIError carries the server's status code and decoded error body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Client talks to a running taskdeck server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// TaskQuery mirrors the list endpoint's query params.
type TaskQuery struct {
	Status     string
	Project    string
	Initiative string
	Label      string
	Search     string
	SortBy     string
	SortAsc    bool
}

// CreatedTask is the create endpoint's response shape.
type CreatedTask struct {
	Task          repository.Task `json:"task"`
	NearDuplicate *string         `json:"near_duplicate,omitempty"`
}

func (c *Client) ListTasks(ctx context.Context, q TaskQuery) ([]repository.Task, error) {
	path := "/api/tasks?" + taskQueryValues(q)
	var out []repository.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (repository.Task, error) {
	var out repository.Task
	err := c.do(ctx, http.MethodGet, "/api/tasks/"+id, nil, &out)
	return out, err
}

func (c *Client) CreateTask(ctx context.Context, t repository.Task) (CreatedTask, error) {
	var out CreatedTask
	err := c.do(ctx, http.MethodPost, "/api/tasks", t, &out)
	return out, err
}

func (c *Client) UpdateTask(ctx context.Context, t repository.Task) (repository.Task, error) {
	var out repository.Task
	err := c.do(ctx, http.MethodPut, "/api/tasks/"+t.ID, t, &out)
	return out, err
}

func (c *Client) TransitionTask(ctx context.Context, id, status string) (repository.Task, error) {
	var out repository.Task
	err := c.do(ctx, http.MethodPut, "/api/tasks/"+id+"/status", map[string]string{"status": status}, &out)
	return out, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil)
}

func (c *Client) ListProjects(ctx context.Context) ([]repository.Project, error) {
	var out []repository.Project
	if err := c.do(ctx, http.MethodGet, "/api/projects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var eb struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		if eb.Error == "" {
			eb.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: eb.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func taskQueryValues(q TaskQuery) string {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("status", q.Status)
	set("project", q.Project)
	set("initiative", q.Initiative)
	set("label", q.Label)
	set("search", q.Search)
	set("sort", q.SortBy)
	if q.SortAsc {
		v.Set("order", "asc")
	}
	return v.Encode()
}
