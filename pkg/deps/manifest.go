package deps

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Kind identifies the format of a manifest file.
type Kind string

const (
	KindNPMManifest        Kind = "npm-manifest"
	KindYarnLock           Kind = "lockfile-yarn"
	KindNPMLock            Kind = "lockfile-npm"
	KindPythonRequirements Kind = "python-requirements"
)

// Well-known manifest filenames.
const (
	PackageJSON      = "package.json"
	PackageLockJSON  = "package-lock.json"
	YarnLock         = "yarn.lock"
	RequirementsText = "requirements.txt"
)

// manifestKinds maps the filenames the locator collects to their kind.
// package-lock.json is resolver evidence only and is never collected.
var manifestKinds = map[string]Kind{
	PackageJSON:      KindNPMManifest,
	YarnLock:         KindYarnLock,
	RequirementsText: KindPythonRequirements,
}

// KindOf returns the manifest kind for a bare filename.
func KindOf(filename string) (Kind, bool) {
	k, ok := manifestKinds[filename]
	return k, ok
}

// ManifestFile is a located dependency manifest.
type ManifestFile struct {
	Path string // Absolute path to the file
	Dir  string // Directory containing the file
	Kind Kind
}

// ManifestParser turns a manifest file into dependencies.
type ManifestParser interface {
	// Type returns the manifest type identifier (e.g., "package.json").
	Type() string
	// Supports reports whether this parser handles the given kind.
	Supports(kind Kind) bool
	// Active reports whether the parser applies in a directory resolved to m.
	Active(m Manager) bool
	// Parse reads the manifest at path. A nil slice with a nil error means
	// the file legitimately contributes nothing.
	Parse(path string) ([]Dependency, error)
}

// ParseResult is the outcome of parsing one manifest file.
type ParseResult struct {
	File         ManifestFile
	Manager      Manager
	Parser       string
	Dependencies []Dependency
	Err          error
}

// OK reports whether the parse succeeded.
func (r ParseResult) OK() bool { return r.Err == nil }

// Locate returns every recognised manifest under root, at any depth.
//
// Traversal is lexical, so results are ordered by directory and then by
// filename. Subtrees that cannot be read are skipped; only an unreadable
// root is reported as an error. Symlinked manifests are collected when
// they resolve to a regular file; symlinked directories are not entered.
func Locate(root string) ([]ManifestFile, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(absRoot); err != nil {
		return nil, err
	}

	var files []ManifestFile
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		kind, ok := KindOf(d.Name())
		if !ok || !isRegularFile(path, d) {
			return nil
		}
		files = append(files, ManifestFile{
			Path: path,
			Dir:  filepath.Dir(path),
			Kind: kind,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// isRegularFile reports whether the entry is a regular file or a symlink
// to one.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
