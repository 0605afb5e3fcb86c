package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/hawkeye/pkg/cache"
	"github.com/matzehuels/hawkeye/pkg/integrations"
)

func testClient(t *testing.T, serverURL, token string) *Client {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	return NewClient(token, c, time.Hour).WithBaseURL(serverURL)
}

func TestListOrgRepos_Paginates(t *testing.T) {
	var (
		mu    sync.Mutex
		pages []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orgs/acme/repos", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))

		page := r.URL.Query().Get("page")
		mu.Lock()
		pages = append(pages, page)
		mu.Unlock()

		var repos []Repo
		switch page {
		case "1":
			for i := range 100 {
				repos = append(repos, Repo{Name: "r" + strconv.Itoa(i), CloneURL: "https://github.com/acme/r" + strconv.Itoa(i) + ".git"})
			}
		case "2":
			repos = []Repo{{Name: "last", CloneURL: "https://github.com/acme/last.git"}}
		}
		json.NewEncoder(w).Encode(repos)
	}))
	defer server.Close()

	repos, err := testClient(t, server.URL, "s3cret").ListOrgRepos(context.Background(), "acme")
	require.NoError(t, err)

	assert.Len(t, repos, 101)
	assert.Equal(t, "r0", repos[0].Name)
	assert.Equal(t, "last", repos[100].Name)
	assert.Equal(t, "https://github.com/acme/last.git", repos[100].CloneURL)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"1", "2", "3"}, pages)
}

func TestListOrgRepos_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	repos, err := testClient(t, server.URL, "").ListOrgRepos(context.Background(), "acme")
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestListOrgRepos_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unknown org", http.StatusNotFound, integrations.ErrNotFound},
		{"bad token", http.StatusUnauthorized, integrations.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := testClient(t, server.URL, "tok").ListOrgRepos(context.Background(), "acme")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestListOrgRepos_InvalidOrg(t *testing.T) {
	c := NewClient("", nil, 0)
	_, err := c.ListOrgRepos(context.Background(), "-bad")
	assert.Error(t, err)
}

func TestAdvisories(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/advisories", r.URL.Path)
		switch r.URL.Query().Get("affects") {
		case "lodash":
			fmt.Fprint(w, `[{"ghsa_id":"GHSA-35jh-r3h4-6jhm","severity":"high"}]`)
		case "@babel/core":
			fmt.Fprint(w, `[]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := testClient(t, server.URL, "tok")
	ctx := context.Background()

	raw, err := c.Advisories(ctx, "lodash")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"ghsa_id":"GHSA-35jh-r3h4-6jhm","severity":"high"}]`, string(raw))

	// Second lookup is served from cache.
	raw, err = c.Advisories(ctx, "lodash")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"ghsa_id":"GHSA-35jh-r3h4-6jhm","severity":"high"}]`, string(raw))
	assert.Equal(t, int32(1), calls.Load())

	raw, err = c.Advisories(ctx, "@babel/core")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	_, err = c.Advisories(ctx, "missing")
	assert.True(t, errors.Is(err, integrations.ErrNotFound))
}

func TestAdvisories_InvalidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>`)
	}))
	defer server.Close()

	_, err := testClient(t, server.URL, "").Advisories(context.Background(), "lodash")
	assert.Error(t, err)
}

func TestWithBaseURL(t *testing.T) {
	c := NewClient("", nil, 0)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c.WithBaseURL("https://ghe.example.com/api/v3/")
	assert.Equal(t, "https://ghe.example.com/api/v3", c.BaseURL())

	c.WithBaseURL("")
	assert.Equal(t, "https://ghe.example.com/api/v3", c.BaseURL())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, ValidateOwner("acme-corp"))
	assert.Error(t, ValidateOwner(""))
	assert.Error(t, ValidateOwner("-acme"))
	assert.Error(t, ValidateOwner("acme/corp"))

	assert.NoError(t, ValidateRepo("my.repo_name-2"))
	assert.Error(t, ValidateRepo(""))
	assert.Error(t, ValidateRepo("has space"))
}
