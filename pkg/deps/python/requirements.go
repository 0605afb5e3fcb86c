package python

import (
	"os"
	"strings"

	"github.com/matzehuels/hawkeye/pkg/deps"
)

// Requirements parses requirements.txt files. Each non-blank, non-comment
// line is recorded verbatim as the dependency name ("requests>=2.0" is not
// split), with version "unknown".
type Requirements struct{}

func (r *Requirements) Type() string                { return deps.RequirementsText }
func (r *Requirements) Supports(kind deps.Kind) bool { return kind == deps.KindPythonRequirements }
func (r *Requirements) Active(deps.Manager) bool     { return true }

func (r *Requirements) Parse(path string) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseRequirements(string(data)), nil
}

// parseRequirements accepts lines of any length.
func parseRequirements(content string) []deps.Dependency {
	var result []deps.Dependency
	for line := range strings.Lines(content) {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' {
			continue
		}
		result = append(result, deps.Dependency{Name: line, Version: deps.UnknownVersion})
	}
	return result
}
