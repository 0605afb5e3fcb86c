// Package deps discovers and parses dependency manifests in a checked-out
// repository.
//
// # Overview
//
// Extraction runs in four steps:
//
//  1. [Locate] walks the tree and collects every package.json, yarn.lock and
//     requirements.txt, tagged with a [Kind].
//  2. A [ManagerCache] decides once per directory which [Manager] governs it.
//     The decision itself is made by a [DetectFunc] supplied by a language
//     (see [javascript.DetectManager]).
//  3. The matching [ManifestParser] turns each file into [Dependency] values,
//     returning a typed [ParseResult] so a broken file only loses its own
//     entries.
//  4. An [Aggregator] appends successful results into a [DependencySet] under
//     the ecosystem of the resolved manager.
//
// [Extractor] ties the steps together:
//
//	ex := deps.NewExtractor(logger, javascript.Language, python.Language)
//	result, err := ex.Extract("/tmp/checkout")
//	fmt.Println(result.Dependencies.Counts())
//
// The default language set lives in [languages].
//
// # Ordering
//
// Files are visited in lexical path order and dependencies keep document
// order within a file, so the same tree always produces the same set.
// Duplicates across files are kept: each manifest occurrence is recorded.
//
// [javascript.DetectManager]: github.com/matzehuels/hawkeye/pkg/deps/javascript.DetectManager
// [languages]: github.com/matzehuels/hawkeye/pkg/deps/languages
package deps
