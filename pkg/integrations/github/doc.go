// Package github is a small client for the two GitHub REST endpoints hawkeye
// uses: the organization repository listing and the global security
// advisory database.
//
// # Usage
//
//	client := github.NewClient(token, cache, 6*time.Hour)
//
//	repos, err := client.ListOrgRepos(ctx, "acme")
//	raw, err := client.Advisories(ctx, "lodash")
//
// # Authentication
//
// A token is required to list private repositories and raises the rate
// limit from 60 to 5000 requests/hour. It is sent as a bearer token.
//
// # Advisories
//
// [Client.Advisories] queries GET /advisories?affects=<name>. The query is
// by package name only; GitHub matches the name in every ecosystem, so a
// Python and an npm package with the same name share one answer.
//
// # Rate limits
//
// 429 and exhausted-quota 403 responses surface as
// [httputil.RateLimitError]; waits up to a minute are retried.
//
// [httputil.RateLimitError]: github.com/matzehuels/hawkeye/pkg/httputil.RateLimitError
package github
