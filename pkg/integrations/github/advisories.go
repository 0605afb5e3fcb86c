package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/matzehuels/hawkeye/pkg/cache"
)

// Advisories returns the raw advisory list GitHub reports for packages
// named name, across all ecosystems. The body is returned untouched so
// reports keep every field GitHub sends.
//
// Successful responses are cached; errors are not.
func (c *Client) Advisories(ctx context.Context, name string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/advisories?affects=%s&per_page=%d",
		c.baseURL, url.QueryEscape(name), perPage)

	var raw json.RawMessage
	err := c.Cached(ctx, cache.AdvisoryKey(name), false, &raw, func() error {
		data, err := c.GetRaw(ctx, endpoint)
		if err != nil {
			return err
		}
		if !json.Valid(data) {
			return fmt.Errorf("advisories for %s: invalid JSON response", name)
		}
		raw = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}
