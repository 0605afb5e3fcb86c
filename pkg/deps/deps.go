package deps

import (
	"encoding/json"
	"maps"
)

// UnknownVersion is recorded when a manifest names a package without a
// usable version (lockfile headers, requirements lines).
const UnknownVersion = "unknown"

// Ecosystem buckets dependencies by the tool that manages them.
type Ecosystem string

const (
	EcosystemNPM    Ecosystem = "npm"
	EcosystemYarn   Ecosystem = "yarn"
	EcosystemPython Ecosystem = "python"
)

// Ecosystems lists every ecosystem tag in report order.
var Ecosystems = []Ecosystem{EcosystemNPM, EcosystemYarn, EcosystemPython}

// Manager is the package manager governing a directory.
type Manager string

const (
	ManagerNPM     Manager = "npm"
	ManagerYarn    Manager = "yarn"
	ManagerPython  Manager = "python"
	ManagerUnknown Manager = "unknown"
)

// Ecosystem returns the tag dependencies resolved to m are stored under.
// ok is false for ManagerUnknown.
func (m Manager) Ecosystem() (eco Ecosystem, ok bool) {
	switch m {
	case ManagerNPM:
		return EcosystemNPM, true
	case ManagerYarn:
		return EcosystemYarn, true
	case ManagerPython:
		return EcosystemPython, true
	default:
		return "", false
	}
}

// Dependency is one declared package occurrence.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// DependencySet maps each ecosystem tag to the dependencies found for it, in
// discovery order. Every tag in [Ecosystems] is always present; use
// [NewDependencySet] to build one.
type DependencySet map[Ecosystem][]Dependency

// NewDependencySet returns a set with an empty list for every ecosystem.
func NewDependencySet() DependencySet {
	s := make(DependencySet, len(Ecosystems))
	for _, eco := range Ecosystems {
		s[eco] = []Dependency{}
	}
	return s
}

// Add appends deps under eco.
func (s DependencySet) Add(eco Ecosystem, deps ...Dependency) {
	s[eco] = append(s[eco], deps...)
}

// Len returns the number of dependencies across all ecosystems.
func (s DependencySet) Len() int {
	n := 0
	for _, d := range s {
		n += len(d)
	}
	return n
}

// Counts returns the number of dependencies per ecosystem.
func (s DependencySet) Counts() map[Ecosystem]int {
	counts := make(map[Ecosystem]int, len(Ecosystems))
	for _, eco := range Ecosystems {
		counts[eco] = len(s[eco])
	}
	return counts
}

func (s DependencySet) MarshalJSON() ([]byte, error) {
	out := make(map[Ecosystem][]Dependency, len(Ecosystems))
	maps.Copy(out, s)
	for _, eco := range Ecosystems {
		if out[eco] == nil {
			out[eco] = []Dependency{}
		}
	}
	return json.Marshal(out)
}

func (s *DependencySet) UnmarshalJSON(data []byte) error {
	var raw map[Ecosystem][]Dependency
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	set := NewDependencySet()
	for eco, d := range raw {
		if d != nil {
			set[eco] = d
		}
	}
	*s = set
	return nil
}
