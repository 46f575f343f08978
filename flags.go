package termindex

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofhir/termindex/pkg/fault"
	"github.com/gofhir/termindex/store"
)

// Sentinel files written to the destination directory. Downstream matching
// components read these at query time to learn how the indexes were built.
const (
	// FlagLowercase exists iff surface forms were lower-cased.
	FlagLowercase = "lowercase.flag"

	// FlagNormalizeUnicode exists iff surface forms were transliterated.
	FlagNormalizeUnicode = "normalize-unicode.flag"

	// FlagLanguage holds the 3-letter language code of the run.
	FlagLanguage = "language.flag"

	// FlagBackend holds the term-store backend selector.
	FlagBackend = "database_backend.flag"
)

// RunConfiguration is the extraction configuration persisted alongside the
// indexes. It is written once per run and never mutated.
type RunConfiguration struct {
	Language         string
	Lowercase        bool
	NormalizeUnicode bool
	Backend          store.Backend
}

// Write records the configuration under dir. Boolean flags become empty
// sentinel files whose presence means enabled; language and backend are
// written as single-value text files. Writing is not transactional: a crash
// mid-write can leave inconsistent flags, which is acceptable because every
// run rebuilds the destination directory from scratch.
func (c RunConfiguration) Write(dir string) error {
	touch := func(name string, enabled bool) error {
		if !enabled {
			return nil
		}
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return fault.Storage("flags.write", err)
		}
		return f.Close()
	}

	if err := touch(FlagLowercase, c.Lowercase); err != nil {
		return err
	}
	if err := touch(FlagNormalizeUnicode, c.NormalizeUnicode); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, FlagLanguage), []byte(c.Language), 0o644); err != nil {
		return fault.Storage("flags.write", err)
	}
	if err := os.WriteFile(filepath.Join(dir, FlagBackend), []byte(c.Backend), 0o644); err != nil {
		return fault.Storage("flags.write", err)
	}
	return nil
}

// ReadRunConfiguration loads the configuration recorded under dir.
func ReadRunConfiguration(dir string) (*RunConfiguration, error) {
	exists := func(name string) bool {
		_, err := os.Stat(filepath.Join(dir, name))
		return err == nil
	}
	readValue := func(name string) (string, error) {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return "", fault.Storage("flags.read", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	language, err := readValue(FlagLanguage)
	if err != nil {
		return nil, err
	}
	backend, err := readValue(FlagBackend)
	if err != nil {
		return nil, err
	}

	return &RunConfiguration{
		Language:         language,
		Lowercase:        exists(FlagLowercase),
		NormalizeUnicode: exists(FlagNormalizeUnicode),
		Backend:          store.Backend(backend),
	}, nil
}
