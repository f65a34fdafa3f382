// SPDX-License-Identifier: MPL-2.0

// Package project reads the package metadata from pyproject.toml and finds
// the wheels built from it.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// MetadataFile is the metadata file name at the project root.
const MetadataFile = "pyproject.toml"

var (
	// ErrNoMetadata is returned when the project root has no pyproject.toml.
	ErrNoMetadata = errors.New("pyproject.toml not found")
	// ErrMissingName is returned when [project] has no name.
	ErrMissingName = errors.New("pyproject.toml has no [project] name")
	// ErrWheelNotFound is returned when no wheel for the project exists in a directory.
	ErrWheelNotFound = errors.New("wheel not found")

	separatorRuns = regexp.MustCompile(`[-_.]+`)
)

type (
	// Metadata is the subset of the [project] table venvkit reports.
	Metadata struct {
		Name           string `toml:"name"`
		Version        string `toml:"version"`
		RequiresPython string `toml:"requires-python"`
	}

	pyproject struct {
		Project Metadata `toml:"project"`
	}
)

// Load reads pyproject.toml from dir.
func Load(dir string) (Metadata, error) {
	path := filepath.Join(dir, MetadataFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Metadata{}, fmt.Errorf("%w in %s", ErrNoMetadata, dir)
		}
		return Metadata{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes pyproject.toml content.
func Parse(data []byte) (Metadata, error) {
	var doc pyproject
	if err := toml.Unmarshal(data, &doc); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return Metadata{}, fmt.Errorf("parse %s at line %d, column %d: %w", MetadataFile, row, col, err)
		}
		return Metadata{}, fmt.Errorf("parse %s: %w", MetadataFile, err)
	}
	if strings.TrimSpace(doc.Project.Name) == "" {
		return Metadata{}, ErrMissingName
	}
	return doc.Project, nil
}

// DistributionName returns the name used in wheel file names.
func (m Metadata) DistributionName() string {
	return NormalizeName(m.Name)
}

// NormalizeName lowercases name and collapses runs of "-", "_" and "." into
// a single underscore, the form wheel file names use.
func NormalizeName(name string) string {
	return separatorRuns.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
}

// FindWheel returns the most recently modified wheel for distribution in dir.
// An empty distribution matches any wheel.
func FindWheel(dir, distribution string) (string, error) {
	pattern := "*.whl"
	if distribution != "" {
		pattern = NormalizeName(distribution) + "-*.whl"
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", err
	}

	var (
		newest  string
		newestT int64
	)
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if t := info.ModTime().UnixNano(); newest == "" || t > newestT {
			newest, newestT = m, t
		}
	}
	if newest == "" {
		return "", fmt.Errorf("%w: %s in %s", ErrWheelNotFound, pattern, dir)
	}
	return newest, nil
}
