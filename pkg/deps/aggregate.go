package deps

// Aggregator accumulates parse results into one repository's DependencySet.
// Dependencies are appended in the order results are added; nothing is
// deduplicated across files.
type Aggregator struct {
	set    DependencySet
	parsed int
	failed int
}

// NewAggregator returns an aggregator over an empty set.
func NewAggregator() *Aggregator {
	return &Aggregator{set: NewDependencySet()}
}

// Add records r. Failed results and results for a manager with no
// ecosystem contribute nothing. It reports whether r was counted.
func (a *Aggregator) Add(r ParseResult) bool {
	if !r.OK() {
		a.failed++
		return false
	}
	eco, ok := r.Manager.Ecosystem()
	if !ok {
		return false
	}
	a.parsed++
	a.set.Add(eco, r.Dependencies...)
	return true
}

// Set returns the accumulated dependencies.
func (a *Aggregator) Set() DependencySet { return a.set }

// Parsed returns the number of files that contributed to the set.
func (a *Aggregator) Parsed() int { return a.parsed }

// Failed returns the number of files whose parse failed.
func (a *Aggregator) Failed() int { return a.failed }
