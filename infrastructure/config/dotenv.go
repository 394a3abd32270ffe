package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/subosito/gotenv"
)

// DefaultDotEnv is the file loaded from the working directory at startup.
const DefaultDotEnv = ".env"

// LoadDotEnv loads variables from the given files into the process
// environment. Variables that are already set are never overridden, and
// missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{DefaultDotEnv}
	}
	for _, p := range paths {
		if err := gotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ReadDotEnv parses a dotenv file without touching the process environment.
func ReadDotEnv(path string) (map[string]string, error) {
	env, err := gotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return env, nil
}
