package javascript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/hawkeye/pkg/deps"
)

func TestPackageJSON_Parse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []deps.Dependency
		wantErr bool
	}{
		{
			name:    "empty object",
			content: `{}`,
		},
		{
			name:    "empty file",
			content: "",
		},
		{
			name:    "whitespace only",
			content: " \n\t ",
		},
		{
			name:    "top-level array",
			content: `["a", "b"]`,
		},
		{
			name:    "top-level string",
			content: `"hello"`,
		},
		{
			name:    "devDependencies win on collision",
			content: `{"dependencies":{"a":"1.0.0"},"devDependencies":{"a":"2.0.0"}}`,
			want:    []deps.Dependency{{Name: "a", Version: "2.0.0"}},
		},
		{
			name: "union keeps document order",
			content: `{
  "name": "my-app",
  "dependencies": {"express": "^4.18.0", "lodash": "^4.17.21", "react": "18.2.0"},
  "devDependencies": {"jest": "^29.0.0", "lodash": "4.17.20"}
}`,
			want: []deps.Dependency{
				{Name: "express", Version: "^4.18.0"},
				{Name: "lodash", Version: "4.17.20"},
				{Name: "react", Version: "18.2.0"},
				{Name: "jest", Version: "^29.0.0"},
			},
		},
		{
			name:    "null sections",
			content: `{"dependencies": null, "devDependencies": {"vite": "^5"}}`,
			want:    []deps.Dependency{{Name: "vite", Version: "^5"}},
		},
		{
			name:    "non-string specifier kept verbatim",
			content: `{"dependencies": {"weird": 1}}`,
			want:    []deps.Dependency{{Name: "weird", Version: "1"}},
		},
		{
			name:    "malformed json",
			content: `{"dependencies": {"a": "1.0.0"`,
			wantErr: true,
		},
		{
			name:    "dependencies not an object",
			content: `{"dependencies": ["a"]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "package.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			got, err := (&PackageJSON{}).Parse(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPackageJSON_MissingFile(t *testing.T) {
	_, err := (&PackageJSON{}).Parse(filepath.Join(t.TempDir(), "package.json"))
	assert.Error(t, err)
}

func TestPackageJSON_Active(t *testing.T) {
	p := &PackageJSON{}
	assert.True(t, p.Active(deps.ManagerNPM))
	assert.True(t, p.Active(deps.ManagerYarn))
	assert.False(t, p.Active(deps.ManagerUnknown))
	assert.False(t, p.Active(deps.ManagerPython))
}

func TestPackageJSON_Supports(t *testing.T) {
	p := &PackageJSON{}
	assert.True(t, p.Supports(deps.KindNPMManifest))
	assert.False(t, p.Supports(deps.KindYarnLock))
	assert.Equal(t, "package.json", p.Type())
}
