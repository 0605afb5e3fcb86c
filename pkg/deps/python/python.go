// Package python parses pip requirements files.
//
// Python manifests do not go through manager detection: every
// requirements.txt is parsed and recorded under the python ecosystem.
package python

import "github.com/matzehuels/hawkeye/pkg/deps"

// Language covers requirements.txt manifests.
var Language = &deps.Language{
	Name:    "python",
	Manager: deps.ManagerPython,
	Parsers: []deps.ManifestParser{&Requirements{}},
}
