// Package integrations provides the HTTP plumbing shared by hawkeye's API
// clients.
//
// [Client] wraps net/http with default headers, JSON decoding, status
// classification ([ErrNotFound], [ErrUnauthorized], [ErrNetwork]),
// rate-limit detection and retry via [httputil.Retry], and a response cache
// backed by any [cache.Cache].
//
// The only service hawkeye talks to is GitHub; see the [github] subpackage.
//
// [httputil.Retry]: github.com/matzehuels/hawkeye/pkg/httputil.Retry
// [cache.Cache]: github.com/matzehuels/hawkeye/pkg/cache.Cache
// [github]: github.com/matzehuels/hawkeye/pkg/integrations/github
package integrations
