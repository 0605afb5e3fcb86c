package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/hawkeye/pkg/errors"
)

// WriteTOML encodes c in the config file format.
func WriteTOML(w io.Writer, c *Config) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// InitFile writes the default configuration to path. It refuses to
// overwrite an existing file unless force is set.
func InitFile(path string, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return errors.New(errors.ErrCodeConflict, "%s already exists (use --force to overwrite)", path)
		}
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	fmt.Fprintln(f, "# hawkeye configuration. Environment variables override these values.")
	fmt.Fprintln(f)
	return WriteTOML(f, Default())
}
