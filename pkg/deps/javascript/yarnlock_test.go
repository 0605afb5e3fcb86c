package javascript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/hawkeye/pkg/deps"
)

const yarnLockV1 = `# THIS IS AN AUTOGENERATED FILE. DO NOT EDIT THIS FILE DIRECTLY.
# yarn lockfile v1


"@babel/core@^7.0.0", "@babel/core@^7.1.0":
  version "7.22.5"
  resolved "https://registry.yarnpkg.com/@babel/core/-/core-7.22.5.tgz"

"lodash@^4.17.0":
  version "4.17.21"

"lodash@^4.16.0":
  version "4.17.21"

unquoted@^1.0.0:
  version "1.0.0"
`

func TestParseYarnLock(t *testing.T) {
	got := parseYarnLock(yarnLockV1)

	assert.Equal(t, []deps.Dependency{
		{Name: "@babel/core", Version: deps.UnknownVersion},
		{Name: "lodash", Version: deps.UnknownVersion},
	}, got)
}

func TestParseYarnLock_Empty(t *testing.T) {
	assert.Empty(t, parseYarnLock(""))
}

func TestYarnLock_ParseLongLines(t *testing.T) {
	long := `"left-pad@^1.0.0", ` + strings.Repeat(`"left-pad@^1.0.1", `, 80_000) + `"left-pad@^1.3.0":`
	content := long + "\n  version \"1.3.0\"\n\n\"react@^18.2.0\":\n  version \"18.2.0\"\n"
	path := filepath.Join(t.TempDir(), "yarn.lock")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := (&YarnLock{}).Parse(path)
	require.NoError(t, err)
	assert.Equal(t, []deps.Dependency{
		{Name: "left-pad", Version: deps.UnknownVersion},
		{Name: "react", Version: deps.UnknownVersion},
	}, got)
}

func TestHeaderName(t *testing.T) {
	tests := []struct {
		line   string
		want   string
		wantOK bool
	}{
		{`"lodash@^4.17.0":`, "lodash", true},
		{`  "lodash@^4.16.0":`, "lodash", true},
		{`"@babel/core@^7.0.0, @babel/core@^7.1.0":`, "@babel/core", true},
		{`"@types/node@*":`, "@types/node", true},
		{`"react@npm:^18.2.0":`, "react", true},
		{`"no-at-sign":`, "", false},
		{`lodash@^4.17.0:`, "", false},
		{`  version "4.17.21"`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := headerName(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYarnLock_Active(t *testing.T) {
	y := &YarnLock{}
	assert.True(t, y.Active(deps.ManagerYarn))
	assert.False(t, y.Active(deps.ManagerNPM))
	assert.True(t, y.Supports(deps.KindYarnLock))
}
