package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Paths stores resolved runtime file locations for user config, logs and the
// visibility journal.
type Paths struct {
	RootDir     string
	ConfigFile  string
	LogFile     string
	JournalFile string
}

// ResolvePaths returns the default locations inside the user config dir.
func ResolvePaths() (Paths, error) {
	cfgRoot, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("resolve config dir: %w", err)
	}

	root := filepath.Join(cfgRoot, Name)
	if err := os.MkdirAll(root, 0o750); err != nil {
		return Paths{}, fmt.Errorf("create app config dir: %w", err)
	}

	return Paths{
		RootDir:     root,
		ConfigFile:  filepath.Join(root, ConfigFilename),
		LogFile:     filepath.Join(root, LogFilename),
		JournalFile: filepath.Join(root, JournalFilename),
	}, nil
}

// WithConfigFile points the paths at an explicit config file. The log file
// and the journal move next to it.
func (p Paths) WithConfigFile(path string) Paths {
	path = strings.TrimSpace(path)
	if path == "" {
		return p
	}
	clean := filepath.Clean(path)
	dir := filepath.Dir(clean)

	return Paths{
		RootDir:     dir,
		ConfigFile:  clean,
		LogFile:     filepath.Join(dir, LogFilename),
		JournalFile: filepath.Join(dir, JournalFilename),
	}
}
