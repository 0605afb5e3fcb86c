// Package languages registers the manifest languages hawkeye understands.
package languages

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/hawkeye/pkg/deps"
	"github.com/matzehuels/hawkeye/pkg/deps/javascript"
	"github.com/matzehuels/hawkeye/pkg/deps/python"
)

// All lists every supported language in detection order.
var All = []*deps.Language{
	javascript.Language,
	python.Language,
}

// Find returns the language with the given name, or nil.
func Find(name string) *deps.Language {
	for _, l := range All {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// NewExtractor returns an extractor covering every language in [All].
func NewExtractor(logger *log.Logger) *deps.Extractor {
	return deps.NewExtractor(logger, All...)
}
