package deps

// Language groups the manifest parsers of one ecosystem family together with
// the directory detection they depend on.
type Language struct {
	Name string
	// Detect decides the manager for directories holding this language's
	// manifests. Nil when the language's manifests bypass manager resolution.
	Detect DetectFunc
	// Manager is used instead of Detect for languages without detection.
	Manager Manager
	Parsers []ManifestParser
}

// Supports reports whether any of the language's parsers handles kind.
func (l *Language) Supports(kind Kind) bool {
	return l.parser(kind) != nil
}

func (l *Language) parser(kind Kind) ManifestParser {
	for _, p := range l.Parsers {
		if p.Supports(kind) {
			return p
		}
	}
	return nil
}
