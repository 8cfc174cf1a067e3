package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v58/github"
	"golang.org/x/oauth2"

	"github-issue-automation/internal/domain/entity"
)

const graphQLEndpoint = "https://api.github.com/graphql"

// Client talks to the GitHub API: GraphQL for reads, REST for mutations.
// Errors from either surface are returned unchanged to the caller; there
// is no retry or backoff layer.
type Client struct {
	rest        *github.Client
	httpClient  *http.Client
	token       string
	userAgent   string
	endpoint    string
	rateLimiter *RateLimiter
	stats       *ClientStats
}

// NewClient creates a client authenticated with the given token.
func NewClient(token string, config *entity.Config) *Client {
	timeoutSec := 30
	if config != nil && config.GitHub.TimeoutSec > 0 {
		timeoutSec = config.GitHub.TimeoutSec
	}
	timeout := time.Duration(timeoutSec) * time.Second

	httpClient := &http.Client{
		Timeout: timeout,
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = timeout

	rateLimit := 5000 // Default GitHub rate limit
	if config != nil && config.GitHub.RateLimit > 0 {
		rateLimit = config.GitHub.RateLimit
	}

	userAgent := "github-issue-automation/1.0"
	if config != nil && config.GitHub.UserAgent != "" {
		userAgent = config.GitHub.UserAgent
	}

	return &Client{
		rest:        github.NewClient(tc),
		httpClient:  httpClient,
		token:       token,
		userAgent:   userAgent,
		endpoint:    graphQLEndpoint,
		rateLimiter: NewRateLimiter(rateLimit),
		stats:       &ClientStats{},
	}
}

// Stats returns a copy of the current client statistics.
func (c *Client) Stats() ClientStats {
	return c.stats.GetStats()
}

// graphQLResponse is the GraphQL envelope. Data stays untyped: the entity
// layer descends into it by response path.
type graphQLResponse struct {
	Data   map[string]any `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Execute runs a GraphQL query and returns the decoded data envelope.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (map[string]any, error) {
	requestBody := map[string]any{
		"query":     query,
		"variables": variables,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	c.stats.IncrementAPICall()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.stats.IncrementError()
		return nil, fmt.Errorf("error executing request: %w", err)
	}
	defer resp.Body.Close()

	c.updateRateLimitStats(resp)

	if resp.StatusCode != http.StatusOK {
		c.stats.IncrementError()
		return nil, fmt.Errorf("GraphQL endpoint returned status %d", resp.StatusCode)
	}

	var graphqlResp graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&graphqlResp); err != nil {
		c.stats.IncrementError()
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	if len(graphqlResp.Errors) > 0 {
		c.stats.IncrementError()
		messages := make([]string, 0, len(graphqlResp.Errors))
		for _, e := range graphqlResp.Errors {
			messages = append(messages, e.Message)
		}
		return nil, fmt.Errorf("GraphQL errors: %s", strings.Join(messages, "; "))
	}

	return graphqlResp.Data, nil
}

// AddLabels attaches labels to an issue by name.
func (c *Client) AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit error: %w", err)
	}

	c.stats.IncrementAPICall()
	_, resp, err := c.rest.Issues.AddLabelsToIssue(ctx, owner, repo, number, labels)
	if resp != nil {
		c.updateRateLimitStats(resp.Response)
	}
	if err != nil {
		c.stats.IncrementError()
		return err
	}
	return nil
}

// RemoveLabel detaches one label from an issue by name. A 404 for the
// label means it was already absent and is treated as success, matching
// the API's own no-op semantics.
func (c *Client) RemoveLabel(ctx context.Context, owner, repo string, number int, label string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit error: %w", err)
	}

	c.stats.IncrementAPICall()
	resp, err := c.rest.Issues.RemoveLabelForIssue(ctx, owner, repo, number, label)
	if resp != nil {
		c.updateRateLimitStats(resp.Response)
	}
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil
		}
		c.stats.IncrementError()
		return err
	}
	return nil
}

// CreateComment posts a comment on an issue.
func (c *Client) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit error: %w", err)
	}

	c.stats.IncrementAPICall()
	comment := &github.IssueComment{Body: github.String(body)}
	_, resp, err := c.rest.Issues.CreateComment(ctx, owner, repo, number, comment)
	if resp != nil {
		c.updateRateLimitStats(resp.Response)
	}
	if err != nil {
		c.stats.IncrementError()
		return err
	}
	return nil
}

// EditIssue updates issue fields. Recognized change keys: title, body,
// state.
func (c *Client) EditIssue(ctx context.Context, owner, repo string, number int, changes map[string]any) error {
	request := &github.IssueRequest{}
	for key, value := range changes {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("edit issue: field %q holds %T, not string", key, value)
		}
		switch key {
		case "title":
			request.Title = github.String(s)
		case "body":
			request.Body = github.String(s)
		case "state":
			request.State = github.String(s)
		default:
			return fmt.Errorf("edit issue: unsupported field %q", key)
		}
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit error: %w", err)
	}

	c.stats.IncrementAPICall()
	_, resp, err := c.rest.Issues.Edit(ctx, owner, repo, number, request)
	if resp != nil {
		c.updateRateLimitStats(resp.Response)
	}
	if err != nil {
		c.stats.IncrementError()
		return err
	}
	return nil
}

// updateRateLimitStats updates rate limit statistics from response headers.
func (c *Client) updateRateLimitStats(resp *http.Response) {
	if resp == nil {
		return
	}
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			var resetTime time.Time
			if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
				if resetVal, err := strconv.ParseInt(reset, 10, 64); err == nil {
					resetTime = time.Unix(resetVal, 0)
				}
			}
			c.stats.UpdateQuota(val, resetTime)
		}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		c.stats.IncrementRateLimitHit()
	}
}

var (
	_ entity.Executor = (*Client)(nil)
	_ entity.Mutator  = (*Client)(nil)
)
