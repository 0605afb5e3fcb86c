//go:build integration

package github

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestListOrgRepos_Integration(t *testing.T) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		t.Skip("GITHUB_TOKEN not set, skipping integration test")
	}

	client := NewClient(token, nil, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repos, err := client.ListOrgRepos(ctx, "golang")
	if err != nil {
		t.Fatalf("ListOrgRepos() error: %v", err)
	}
	if len(repos) == 0 {
		t.Error("expected repositories for golang org")
	}
	for _, r := range repos {
		if r.CloneURL == "" {
			t.Errorf("repo %s has no clone URL", r.Name)
		}
	}
}

func TestAdvisories_Integration(t *testing.T) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		t.Skip("GITHUB_TOKEN not set, skipping integration test")
	}

	client := NewClient(token, nil, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	raw, err := client.Advisories(ctx, "lodash")
	if err != nil {
		t.Fatalf("Advisories() error: %v", err)
	}
	if len(raw) == 0 || raw[0] != '[' {
		t.Errorf("expected a JSON array, got %.40s", raw)
	}
}
