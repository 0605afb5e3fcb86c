package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/matzehuels/hawkeye/pkg/httputil"
	"github.com/matzehuels/hawkeye/pkg/integrations"
)

const perPage = 100

// ListOrgRepos returns every repository of org visible to the token,
// fetching pages of 100 until an empty page is returned. Listing is never
// cached.
func (c *Client) ListOrgRepos(ctx context.Context, org string) ([]Repo, error) {
	if err := ValidateOwner(org); err != nil {
		return nil, err
	}

	var all []Repo
	for page := 1; ; page++ {
		endpoint := fmt.Sprintf("%s/orgs/%s/repos?per_page=%d&page=%d",
			c.baseURL, url.PathEscape(org), perPage, page)

		var repos []Repo
		err := httputil.RetryWithBackoff(ctx, func() error {
			repos = nil
			return c.Get(ctx, endpoint, &repos)
		})
		if err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return nil, fmt.Errorf("organization %q: %w", org, err)
			}
			return nil, fmt.Errorf("list repositories of %s (page %d): %w", org, page, err)
		}

		if len(repos) == 0 {
			break
		}
		all = append(all, repos...)
	}
	return all, nil
}
