// Package jira provides a minimal client for the Jira REST endpoints the
// interchange adapter consumes.
package jira

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	jira "github.com/andygrunwald/go-jira"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"

	"github.com/danielolaszy/specif-jira/internal/config"
	"github.com/danielolaszy/specif-jira/internal/logging"
)

var (
	// ErrRemoteUnavailable is returned when a call fails on the network or
	// with an unexpected HTTP status.
	ErrRemoteUnavailable = errors.New("jira remote unavailable")

	// ErrNotFound is returned when Jira answers 404 for the requested entity.
	ErrNotFound = errors.New("jira entity not found")
)

var tracer = otel.Tracer("github.com/danielolaszy/specif-jira/internal/jira")

// Client handles interactions with the JIRA API
type Client struct {
	client  *jira.Client
	baseURL string
}

// NewClient creates a new JIRA client from the given configuration. With a
// username the token is sent as basic-auth password; without one it is sent
// as a personal access token.
func NewClient(cfg config.JiraConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("jira url not configured")
	}

	var httpClient *http.Client
	if cfg.Username != "" {
		tp := jira.BasicAuthTransport{
			Username: cfg.Username,
			Password: cfg.Token,
		}
		httpClient = tp.Client()
	} else {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	httpClient.Timeout = cfg.Timeout

	client, err := jira.NewClient(httpClient, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %w", err)
	}

	logging.Debug("jira client created",
		"url", cfg.URL,
		"username", cfg.Username,
		"token", logging.MaskSensitive(cfg.Token))

	return &Client{
		client:  client,
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
	}, nil
}

// BaseURL returns the Jira instance URL without trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SearchProjects returns every project visible to the configured user.
func (c *Client) SearchProjects(ctx context.Context) ([]jira.Project, error) {
	var result ProjectSearchResponse
	if err := c.do(ctx, http.MethodGet, "rest/api/2/project/search", nil, &result); err != nil {
		return nil, fmt.Errorf("search projects: %w", err)
	}
	return result.Values, nil
}

// GetProject fetches a single project including its issue types.
func (c *Client) GetProject(ctx context.Context, key string) (*jira.Project, error) {
	var project jira.Project
	path := "rest/api/2/project/" + url.PathEscape(key)
	if err := c.do(ctx, http.MethodGet, path, nil, &project); err != nil {
		return nil, fmt.Errorf("get project %s: %w", key, err)
	}
	return &project, nil
}

// ListStatuses returns every issue status defined on the instance.
func (c *Client) ListStatuses(ctx context.Context) ([]jira.Status, error) {
	var statuses []jira.Status
	if err := c.do(ctx, http.MethodGet, "rest/api/3/status", nil, &statuses); err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	return statuses, nil
}

// SearchIssues runs a JQL query. An empty query returns the server's default
// result set; no pagination is performed.
func (c *Client) SearchIssues(ctx context.Context, jql string) ([]Issue, error) {
	path := "rest/api/2/search"
	if jql != "" {
		path += "?jql=" + EncodeJQL(jql)
	}

	var result SearchResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}

	logging.Debug("jira issue search complete",
		"jql", jql,
		"returned", len(result.Issues),
		"total", result.Total)

	return result.Issues, nil
}

// GetIssue fetches one issue by key or numeric ID with field names and
// change history expanded.
func (c *Client) GetIssue(ctx context.Context, issueKey string) (*Issue, error) {
	var issue Issue
	path := "rest/api/3/issue/" + url.PathEscape(issueKey) + "?expand=names,changelog"
	if err := c.do(ctx, http.MethodGet, path, nil, &issue); err != nil {
		return nil, fmt.Errorf("get issue %s: %w", issueKey, err)
	}
	return &issue, nil
}

// CreateIssue creates an issue from draft. Jira answers with the new
// issue's id, key and self URL only.
func (c *Client) CreateIssue(ctx context.Context, draft *IssueDraft) (*Issue, error) {
	if draft == nil {
		return nil, fmt.Errorf("create issue: draft is nil")
	}

	var created Issue
	if err := c.do(ctx, http.MethodPost, "rest/api/3/issue", draft, &created); err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}

	logging.Info("jira issue created",
		"id", created.ID,
		"key", created.Key)

	return &created, nil
}

// EncodeJQL percent-encodes a JQL query for use as a query parameter value.
func EncodeJQL(jql string) string {
	return strings.ReplaceAll(url.QueryEscape(jql), "+", "%20")
}

// do performs one request through go-jira and decodes the response into v.
func (c *Client) do(ctx context.Context, method, path string, body, v interface{}) error {
	if c.client == nil {
		return fmt.Errorf("JIRA client not initialized")
	}

	ctx, span := tracer.Start(ctx, "jira "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("jira.path", path),
		))
	defer span.End()

	req, err := c.client.NewRequestWithContext(ctx, method, path, body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req, v)
	if resp != nil {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	}
	if err == nil {
		return nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	if resp == nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return fmt.Errorf("decode %s response: %w", path, err)
	default:
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, jira.NewJiraError(resp, err))
	}
}
