package javascript

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/hawkeye/pkg/deps"
)

// Language covers package.json and yarn.lock manifests. Directories are
// assigned to npm or yarn by [DetectManager].
var Language = &deps.Language{
	Name:    "javascript",
	Detect:  DetectManager,
	Parsers: []deps.ManifestParser{&PackageJSON{}, &YarnLock{}},
}

// DetectManager decides whether dir is managed by yarn or npm.
//
// Lockfiles win over manifest metadata because they record the tool that
// actually installed the tree:
//
//  1. yarn.lock present → yarn
//  2. package-lock.json present → npm
//  3. package.json present → yarn if its packageManager field mentions yarn,
//     npm otherwise (including when the file is not valid JSON)
//  4. none of the above → unknown
func DetectManager(dir string) deps.Manager {
	switch {
	case exists(filepath.Join(dir, deps.YarnLock)):
		return deps.ManagerYarn
	case exists(filepath.Join(dir, deps.PackageLockJSON)):
		return deps.ManagerNPM
	case exists(filepath.Join(dir, deps.PackageJSON)):
		if declaresYarn(filepath.Join(dir, deps.PackageJSON)) {
			return deps.ManagerYarn
		}
		return deps.ManagerNPM
	default:
		return deps.ManagerUnknown
	}
}

func declaresYarn(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var pkg struct {
		PackageManager json.RawMessage `json:"packageManager"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return false
	}
	var pm string
	if err := json.Unmarshal(pkg.PackageManager, &pm); err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(pm), "yarn")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
