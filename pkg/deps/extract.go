package deps

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Extraction is everything learned from one repository tree.
type Extraction struct {
	Files        []ManifestFile
	Results      []ParseResult
	Dependencies DependencySet
	Directories  int // Directories whose manager was resolved
}

// Failed returns the parse results that did not succeed.
func (e *Extraction) Failed() []ParseResult {
	var failed []ParseResult
	for _, r := range e.Results {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}

// Extractor runs locate → resolve → parse → aggregate over a repository tree.
// It holds no per-scan state, so one Extractor may serve concurrent scans.
type Extractor struct {
	languages []*Language
	logger    *log.Logger
}

// NewExtractor creates an extractor for the given languages.
// If logger is nil, log.Default() is used.
func NewExtractor(logger *log.Logger, languages ...*Language) *Extractor {
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{languages: languages, logger: logger}
}

// Extract scans the tree at root. Only an unreadable root is an error;
// individual manifests that fail to parse are reported in the result.
func (e *Extractor) Extract(root string) (*Extraction, error) {
	files, err := Locate(root)
	if err != nil {
		return nil, fmt.Errorf("locate manifests: %w", err)
	}

	managers := NewManagerCache(e.detect)
	agg := NewAggregator()
	ex := &Extraction{Files: files}

	for _, f := range files {
		r, ok := e.parseFile(root, managers, f)
		if !ok {
			continue
		}
		ex.Results = append(ex.Results, r)
		agg.Add(r)
	}

	ex.Dependencies = agg.Set()
	ex.Directories = managers.Len()
	return ex, nil
}

func (e *Extractor) parseFile(root string, managers *ManagerCache, f ManifestFile) (ParseResult, bool) {
	rel := relPath(root, f.Path)

	lang := e.language(f.Kind)
	if lang == nil {
		e.logger.Debug("no parser for manifest", "file", rel, "kind", f.Kind)
		return ParseResult{}, false
	}

	manager := lang.Manager
	if lang.Detect != nil {
		manager = managers.Resolve(f.Dir)
	}
	if manager == ManagerUnknown || manager == "" {
		e.logger.Debug("no package manager detected", "dir", relPath(root, f.Dir))
		return ParseResult{}, false
	}

	p := lang.parser(f.Kind)
	if !p.Active(manager) {
		e.logger.Debug("skipping manifest", "file", rel, "manager", manager)
		return ParseResult{}, false
	}

	deps, err := safeParse(p, f.Path)
	if err != nil {
		e.logger.Warn("failed to parse manifest", "file", rel, "err", err)
	} else {
		e.logger.Debug("parsed manifest", "file", rel, "manager", manager, "dependencies", len(deps))
	}

	return ParseResult{
		File:         f,
		Manager:      manager,
		Parser:       p.Type(),
		Dependencies: deps,
		Err:          err,
	}, true
}

func (e *Extractor) detect(dir string) Manager {
	for _, l := range e.languages {
		if l.Detect == nil {
			continue
		}
		if m := l.Detect(dir); m != ManagerUnknown {
			return m
		}
	}
	return ManagerUnknown
}

func (e *Extractor) language(kind Kind) *Language {
	for _, l := range e.languages {
		if l.Supports(kind) {
			return l
		}
	}
	return nil
}

// safeParse confines a parser panic to the file being parsed.
func safeParse(p ManifestParser, path string) (deps []Dependency, err error) {
	defer func() {
		if r := recover(); r != nil {
			deps, err = nil, fmt.Errorf("%s parser panic: %v", p.Type(), r)
		}
	}()
	return p.Parse(path)
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}
