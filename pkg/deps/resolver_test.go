package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerCache_MemoizesPerDirectory(t *testing.T) {
	calls := map[string]int{}
	answers := map[string]Manager{"/a": ManagerYarn, "/b": ManagerUnknown}

	c := NewManagerCache(func(dir string) Manager {
		calls[dir]++
		return answers[dir]
	})

	assert.Equal(t, ManagerYarn, c.Resolve("/a"))
	answers["/a"] = ManagerNPM
	assert.Equal(t, ManagerYarn, c.Resolve("/a"), "decision must not be re-evaluated")

	assert.Equal(t, ManagerUnknown, c.Resolve("/b"))
	assert.Equal(t, ManagerUnknown, c.Resolve("/b"))

	assert.Equal(t, map[string]int{"/a": 1, "/b": 1}, calls)
	assert.Equal(t, 2, c.Len())
}

func TestManagerCache_NilDetect(t *testing.T) {
	c := NewManagerCache(nil)
	assert.Equal(t, ManagerUnknown, c.Resolve("/anything"))
}

func TestManager_Ecosystem(t *testing.T) {
	tests := []struct {
		m      Manager
		want   Ecosystem
		wantOK bool
	}{
		{ManagerNPM, EcosystemNPM, true},
		{ManagerYarn, EcosystemYarn, true},
		{ManagerPython, EcosystemPython, true},
		{ManagerUnknown, "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.m), func(t *testing.T) {
			got, ok := tt.m.Ecosystem()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
