package github

import (
	"errors"
	"regexp"
)

var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ValidateOwner validates a GitHub user or organization name.
func ValidateOwner(owner string) error {
	if owner == "" {
		return errors.New("organization is required")
	}
	if !validOwner.MatchString(owner) {
		return errors.New("invalid organization name: must be 1-39 alphanumeric characters or hyphens, cannot start with hyphen")
	}
	return nil
}

// ValidateRepo validates a GitHub repository name.
func ValidateRepo(repo string) error {
	if repo == "" {
		return errors.New("repository name is required")
	}
	if !validRepo.MatchString(repo) {
		return errors.New("invalid repository name: must be 1-100 alphanumeric characters, hyphens, underscores, or dots")
	}
	return nil
}
