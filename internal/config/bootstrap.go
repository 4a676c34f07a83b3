package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

const (
	DataDirEnv = "INTERNHUNT_DATA_DIR"
	FileName   = "config.yml"
)

// DataDir resolves the engine data directory: the env override, then the
// user config dir, then the working directory.
func DataDir() string {
	if d := os.Getenv(DataDirEnv); d != "" {
		return d
	}
	if d, err := os.UserConfigDir(); err == nil {
		return filepath.Join(d, "internhunt")
	}
	return "."
}

// EnsureUserConfig writes the built-in config into dataDir unless a
// config file is already there, and returns its path.
func EnsureUserConfig(dataDir string) (string, error) {
	userPath := filepath.Join(dataDir, FileName)

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", errors.Wrapf(err, "stat %s", userPath)
	}

	if err := writeAtomic(userPath, defaultYAML); err != nil {
		return "", err
	}
	return userPath, nil
}

// writeAtomic writes a sibling temp file and renames it over path.
func writeAtomic(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(path))
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "rename %s", tmp)
	}
	return nil
}
