package deps

// DetectFunc inspects a directory and decides which package manager governs it.
type DetectFunc func(dir string) Manager

// ManagerCache memoizes manager decisions per directory for the lifetime of
// one repository scan. A decision, including ManagerUnknown, is never
// re-evaluated. It is not safe for concurrent use; each scan owns its own.
type ManagerCache struct {
	detect    DetectFunc
	decisions map[string]Manager
}

// NewManagerCache returns an empty cache backed by detect.
// A nil detect resolves every directory to ManagerUnknown.
func NewManagerCache(detect DetectFunc) *ManagerCache {
	if detect == nil {
		detect = func(string) Manager { return ManagerUnknown }
	}
	return &ManagerCache{detect: detect, decisions: make(map[string]Manager)}
}

// Resolve returns the cached decision for dir, detecting it on first use.
func (c *ManagerCache) Resolve(dir string) Manager {
	if m, ok := c.decisions[dir]; ok {
		return m
	}
	m := c.detect(dir)
	c.decisions[dir] = m
	return m
}

// Len returns the number of directories decided so far.
func (c *ManagerCache) Len() int { return len(c.decisions) }
