package javascript

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/matzehuels/hawkeye/pkg/deps"
)

// PackageJSON parses package.json files. It records the union of
// dependencies and devDependencies, with devDependencies winning when both
// name the same package. Versions are the specifiers as written.
type PackageJSON struct{}

func (p *PackageJSON) Type() string                { return deps.PackageJSON }
func (p *PackageJSON) Supports(kind deps.Kind) bool { return kind == deps.KindNPMManifest }

func (p *PackageJSON) Active(m deps.Manager) bool {
	return m == deps.ManagerNPM || m == deps.ManagerYarn
}

func (p *PackageJSON) Parse(path string) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parsePackageJSON(data)
}

func parsePackageJSON(data []byte) ([]deps.Dependency, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var top any
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}
	if _, ok := top.(map[string]any); !ok {
		return nil, nil
	}

	var pkg packageFile
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}

	direct, err := objectEntries(pkg.Dependencies)
	if err != nil {
		return nil, fmt.Errorf("dependencies: %w", err)
	}
	dev, err := objectEntries(pkg.DevDependencies)
	if err != nil {
		return nil, fmt.Errorf("devDependencies: %w", err)
	}

	return merge(direct, dev), nil
}

// merge unions the entry lists left to right. A later entry for a known
// name replaces its version but keeps the original position.
func merge(lists ...[]deps.Dependency) []deps.Dependency {
	var out []deps.Dependency
	index := make(map[string]int)
	for _, list := range lists {
		for _, d := range list {
			if i, ok := index[d.Name]; ok {
				out[i].Version = d.Version
				continue
			}
			index[d.Name] = len(out)
			out = append(out, d)
		}
	}
	return out
}

var errNotObject = errors.New("expected an object")

// objectEntries decodes a JSON object into name/version pairs in document
// order. Absent and null values yield no entries.
func objectEntries(raw json.RawMessage) ([]deps.Dependency, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errNotObject
	}

	var entries []deps.Dependency
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		entries = append(entries, deps.Dependency{Name: name, Version: specifier(value)})
	}
	return entries, nil
}

func specifier(value json.RawMessage) string {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}
	return string(value)
}

type packageFile struct {
	Dependencies    json.RawMessage `json:"dependencies"`
	DevDependencies json.RawMessage `json:"devDependencies"`
}
