package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/hawkeye/pkg/errors"
)

// Options controls where Load looks.
type Options struct {
	// File is an explicit config file. When empty, hawkeye.toml is looked
	// up in the working directory and its absence is not an error.
	File string
	// EnvFile is loaded into the environment first. Defaults to ".env";
	// a missing file is ignored.
	EnvFile string
	// Flags are bound by key: a changed flag named "workers" overrides
	// scan.workers. See FlagKeys.
	Flags *pflag.FlagSet
}

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"token":     "github.token",
	"org":       "github.organization",
	"exclude":   "scan.excluded",
	"workers":   "scan.workers",
	"output":    "scan.output",
	"cache":     "cache.backend",
	"cache-dir": "cache.dir",
	"redis-url": "cache.redis_url",
	"mongo-uri": "mongo.uri",
	"addr":      "server.addr",
	"results":   "server.results_path",
}

// legacyEnv are environment names read without the HAWKEYE_ prefix.
var legacyEnv = map[string]string{
	"github.token":        "GITHUB_TOKEN",
	"github.organization": "ORGANIZATION",
	"scan.excluded":       "EXCLUDED_REPOS",
	"slack.token":         "SLACK_BOT_TOKEN",
	"slack.webhook_url":   "SLACK_WEBHOOK_URL",
}

// Load resolves the configuration. The result is not validated; call
// [Config.Validate] for commands that need a complete one.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", envFile)
	}

	v := newViper()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); opts.File != "" || !notFound {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
		}
	}

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "bind flag %s", name)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	cfg.Scan.Excluded = cleanList(cfg.Scan.Excluded)
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		prefixed := strings.ToUpper(AppName) + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, prefixed, env)
	}
	return v
}

// setDefaults registers every key, which also lets AutomaticEnv reach keys
// during Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("github.token", d.GitHub.Token)
	v.SetDefault("github.organization", d.GitHub.Organization)
	v.SetDefault("github.base_url", d.GitHub.BaseURL)

	v.SetDefault("scan.excluded", []string{})
	v.SetDefault("scan.workers", d.Scan.Workers)
	v.SetDefault("scan.output", d.Scan.Output)
	v.SetDefault("scan.temp_dir", d.Scan.TempDir)
	v.SetDefault("scan.clone_depth", d.Scan.CloneDepth)
	v.SetDefault("scan.clone_timeout", d.Scan.CloneTimeout)

	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.redis_url", d.Cache.RedisURL)
	v.SetDefault("cache.ttl", d.Cache.TTL)

	v.SetDefault("mongo.uri", d.Mongo.URI)
	v.SetDefault("mongo.database", d.Mongo.Database)
	v.SetDefault("mongo.collection", d.Mongo.Collection)

	v.SetDefault("slack.token", d.Slack.Token)
	v.SetDefault("slack.channel", d.Slack.Channel)
	v.SetDefault("slack.webhook_url", d.Slack.WebhookURL)
	v.SetDefault("slack.only_vulnerable", d.Slack.OnlyVulnerable)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.results_path", d.Server.ResultsPath)
}

// cleanList trims entries and drops empty ones, so EXCLUDED_REPOS="a, b,"
// excludes exactly a and b.
func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
