package github

import (
	"strings"
	"time"

	"github.com/matzehuels/hawkeye/pkg/buildinfo"
	"github.com/matzehuels/hawkeye/pkg/cache"
	"github.com/matzehuels/hawkeye/pkg/integrations"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// Client talks to the GitHub REST API. It lists organization repositories
// and queries the global security advisory database.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client. Pass an empty token for
// unauthenticated requests (60 requests/hour, public repositories only).
// Advisory responses are cached in c for ttl; a nil cache disables caching.
func NewClient(token string, c cache.Cache, ttl time.Duration) *Client {
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
		"User-Agent":           buildinfo.UserAgent(),
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	return &Client{
		Client:  integrations.NewClient(c, "github:", ttl, headers),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at another API root, such as a GitHub
// Enterprise Server instance (https://ghe.example.com/api/v3).
func (c *Client) WithBaseURL(baseURL string) *Client {
	if baseURL != "" {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }
