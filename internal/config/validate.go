package config

import (
	"strings"

	"github.com/matzehuels/hawkeye/pkg/errors"
	"github.com/matzehuels/hawkeye/pkg/integrations/github"
)

// Validate checks the settings shared by every command.
func (c *Config) Validate() error {
	var problems []string

	if c.Scan.Workers < 1 {
		problems = append(problems, "scan.workers must be at least 1")
	}
	if c.Scan.CloneDepth < 0 {
		problems = append(problems, "scan.clone_depth must not be negative")
	}
	if c.Scan.CloneTimeout < 0 {
		problems = append(problems, "scan.clone_timeout must not be negative")
	}
	if c.Cache.TTL < 0 {
		problems = append(problems, "cache.ttl must not be negative")
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if err := errors.ValidateURL(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			problems = append(problems, "cache.redis_url: "+errors.UserMessage(err))
		}
	default:
		problems = append(problems, "cache.backend must be one of file, redis, none")
	}

	if c.GitHub.BaseURL != "" {
		if err := errors.ValidateURL(c.GitHub.BaseURL); err != nil {
			problems = append(problems, "github.base_url: "+errors.UserMessage(err))
		}
	}
	if c.Mongo.URI != "" {
		if err := errors.ValidateURL(c.Mongo.URI, "mongodb", "mongodb+srv"); err != nil {
			problems = append(problems, "mongo.uri: "+errors.UserMessage(err))
		}
	}
	if c.Slack.Token != "" && c.Slack.Channel == "" {
		problems = append(problems, "slack.channel is required with slack.token")
	}

	if len(problems) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ValidateScan additionally requires what an organization scan needs.
func (c *Config) ValidateScan() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.GitHub.Token == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "a GitHub token is required (set GITHUB_TOKEN or --token)")
	}
	if c.GitHub.Organization == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "an organization is required (set ORGANIZATION or --org)")
	}
	if err := github.ValidateOwner(c.GitHub.Organization); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "organization")
	}
	return nil
}
