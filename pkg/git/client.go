// Package git clones repositories by shelling out to the git binary.
package git

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultCloneTimeout bounds a single clone.
const DefaultCloneTimeout = 10 * time.Minute

// Client clones repositories with the git command line tool.
type Client struct {
	// Token, when set, is sent as HTTP basic credentials for https URLs.
	Token string
	// Depth limits history; zero clones the full history.
	Depth int
	// Timeout bounds each clone. Zero means DefaultCloneTimeout.
	Timeout time.Duration

	binary string
	logger *log.Logger
}

// NewClient creates a Client performing shallow clones (depth 1).
// If logger is nil, log.Default() is used.
func NewClient(token string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{Token: token, Depth: 1, binary: "git", logger: logger}
}

// maskingWriter wraps an io.Writer and masks credentials embedded in URLs.
type maskingWriter struct {
	w io.Writer
}

var (
	reGitHubPAT = regexp.MustCompile(`https://[^@:/\s]+@github\.com`)
	reBasicAuth = regexp.MustCompile(`https://[^:/\s]+:[^@/\s]+@`)
)

// Mask redacts credentials in https URLs found in s.
func Mask(s string) string {
	s = reGitHubPAT.ReplaceAllString(s, "https://[REDACTED]@github.com")
	return reBasicAuth.ReplaceAllString(s, "https://[REDACTED]@")
}

func (mw *maskingWriter) Write(p []byte) (n int, err error) {
	_, err = mw.w.Write([]byte(Mask(string(p))))
	return len(p), err
}

// Clone materializes url into dest, which must not exist or be empty.
// Errors never contain the token.
func (c *Client) Clone(ctx context.Context, repoURL, dest string) error {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultCloneTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{"clone", "--quiet"}
	if c.Depth > 0 {
		args = append(args, "--depth", strconv.Itoa(c.Depth))
	}
	args = append(args, "--", c.authURL(repoURL), dest)

	start := time.Now()
	if err := c.run(ctx, args...); err != nil {
		return err
	}
	c.logger.Debug("cloned repository", "url", Mask(repoURL), "duration", time.Since(start).Round(time.Millisecond))
	return nil
}

func (c *Client) run(ctx context.Context, args ...string) error {
	var errBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary, args...)
	// Never prompt for credentials
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "GIT_ASKPASS=/bin/true")
	cmd.Stdout = io.Discard
	cmd.Stderr = &maskingWriter{w: &errBuf}

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("git %s: %w", args[0], ctx.Err())
		}
		stderr := c.redact(strings.TrimSpace(errBuf.String()))
		if stderr == "" {
			return fmt.Errorf("git %s failed: %w", args[0], err)
		}
		return fmt.Errorf("git %s failed: %w: %s", args[0], err, stderr)
	}
	return nil
}

// authURL injects the token into https URLs as basic credentials.
func (c *Client) authURL(raw string) string {
	if c.Token == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" || u.User != nil {
		return raw
	}
	u.User = url.UserPassword("x-access-token", c.Token)
	return u.String()
}

// redact removes the raw token in case git echoed it outside a URL.
func (c *Client) redact(s string) string {
	if c.Token == "" {
		return s
	}
	return strings.ReplaceAll(s, c.Token, "[REDACTED]")
}
