// Package settings persists user-facing options in a single TOML document
// under the OS user config dir. Sections nest per feature; adding a feature
// means adding a section, the file is shared by all of them.
package settings

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	appDirName = "configlens"
	fileName   = "settings.toml"
)

// Document is the full settings file.
type Document struct {
	Compare CompareSection `toml:"compare"`
	Server  ServerSection  `toml:"server"`
}

// CompareSection holds comparison defaults.
type CompareSection struct {
	// Platform is the default platform name for comparisons.
	Platform string        `toml:"platform,omitempty"`
	Ignore   IgnoreSection `toml:"ignore"`
}

// IgnoreSection holds the persisted ignore patterns.
type IgnoreSection struct {
	Patterns []string `toml:"patterns"`
}

// ServerSection holds API server options.
type ServerSection struct {
	Addr string `toml:"addr,omitempty"`
}

// Settings is a loaded settings file bound to its path.
type Settings struct {
	path string
	doc  Document
}

// DefaultPath returns the per-user settings file location.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName, fileName), nil
}

// Load reads the settings file at path. A missing or unparsable file yields
// empty settings rather than an error; the file is recreated on Save.
func Load(path string) *Settings {
	s := &Settings{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return s
	}
	s.doc = doc
	return s
}

// Path returns the backing file path.
func (s *Settings) Path() string { return s.path }

// Document returns a copy of the current document.
func (s *Settings) Document() Document { return s.doc }

// Save writes the document back to disk, creating parent directories.
func (s *Settings) Save() error {
	if s.path == "" {
		return errors.New("settings: no path configured")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(s.doc)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path, data, 0o644)
}

// IgnorePatterns returns the persisted ignore patterns.
func (s *Settings) IgnorePatterns() []string {
	return append([]string(nil), s.doc.Compare.Ignore.Patterns...)
}

// SetIgnorePatterns replaces the ignore patterns and saves.
func (s *Settings) SetIgnorePatterns(patterns []string) error {
	s.doc.Compare.Ignore.Patterns = append([]string(nil), patterns...)
	return s.Save()
}

// DefaultPlatform returns the configured default platform name ("" if unset).
func (s *Settings) DefaultPlatform() string {
	return s.doc.Compare.Platform
}

// SetDefaultPlatform stores the default platform name and saves.
func (s *Settings) SetDefaultPlatform(name string) error {
	s.doc.Compare.Platform = name
	return s.Save()
}

// ServerAddr returns the configured API listen address ("" if unset).
func (s *Settings) ServerAddr() string {
	return s.doc.Server.Addr
}

func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
