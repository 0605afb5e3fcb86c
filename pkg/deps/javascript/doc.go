// Package javascript parses npm and yarn manifests.
//
// # Overview
//
// This package implements [deps.Language] for JavaScript/Node.js projects:
//
//   - [DetectManager] decides whether a directory is managed by npm or yarn
//   - [PackageJSON] reads dependencies and devDependencies from package.json
//   - [YarnLock] reads package names from yarn.lock entry headers
//
// # Manager Detection
//
// Evidence is checked in a fixed order: yarn.lock, then package-lock.json,
// then the packageManager field of package.json. A directory with none of
// these files resolves to [deps.ManagerUnknown] and contributes nothing.
//
// # Parsing
//
// package.json is only parsed in npm or yarn directories, yarn.lock only in
// yarn directories. An empty package.json, or one whose top-level value is
// not an object, yields no dependencies without error.
//
// Within one yarn.lock each package name is recorded once, at its first
// header; duplicates across files are left to the caller.
//
// [deps.Language]: github.com/matzehuels/hawkeye/pkg/deps.Language
// [deps.ManagerUnknown]: github.com/matzehuels/hawkeye/pkg/deps.ManagerUnknown
package javascript
