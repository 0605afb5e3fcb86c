package javascript

import (
	"os"
	"strings"

	"github.com/matzehuels/hawkeye/pkg/deps"
)

// YarnLock parses yarn.lock files for package names. Resolved versions are
// not extracted; every entry is recorded with version "unknown".
type YarnLock struct{}

func (y *YarnLock) Type() string                { return deps.YarnLock }
func (y *YarnLock) Supports(kind deps.Kind) bool { return kind == deps.KindYarnLock }
func (y *YarnLock) Active(m deps.Manager) bool   { return m == deps.ManagerYarn }

func (y *YarnLock) Parse(path string) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseYarnLock(string(data)), nil
}

func parseYarnLock(content string) []deps.Dependency {
	seen := make(map[string]bool)
	var result []deps.Dependency

	for line := range strings.Lines(content) {
		name, ok := headerName(line)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, deps.Dependency{Name: name, Version: deps.UnknownVersion})
	}
	return result
}

// headerName extracts the package name from a quoted entry header such as
//
//	"lodash@^4.17.0":
//	"@babel/core@^7.0.0, @babel/core@^7.1.0":
func headerName(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, `"`) {
		return "", false
	}
	line = strings.Trim(line, `"`)
	if !strings.Contains(line, "@") {
		return "", false
	}

	parts := strings.Split(line, "@")
	if parts[0] != "" {
		return parts[0], true
	}
	scope, _, _ := strings.Cut(parts[1], ",")
	if scope == "" {
		return "", false
	}
	return "@" + scope, true
}
