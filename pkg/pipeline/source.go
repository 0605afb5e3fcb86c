package pipeline

import (
	"context"

	"github.com/matzehuels/hawkeye/pkg/integrations/github"
)

// GitHubOrg lists the repositories of a GitHub organization.
func GitHubOrg(client *github.Client, org string) RepoSource {
	return RepoSourceFunc(func(ctx context.Context) ([]Repo, error) {
		repos, err := client.ListOrgRepos(ctx, org)
		if err != nil {
			return nil, err
		}
		out := make([]Repo, 0, len(repos))
		for _, r := range repos {
			out = append(out, Repo{Name: r.Name, CloneURL: r.CloneURL})
		}
		return out, nil
	})
}
