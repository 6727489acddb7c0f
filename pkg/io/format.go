package io

import (
	"path/filepath"
	"strings"

	apperrors "github.com/matzehuels/treeideals/pkg/errors"
)

// Format is a tree file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath returns the Format matching path's extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported tree file extension: %q", path)
}

type treeFile struct {
	Root     int   `json:"root" toml:"root" yaml:"root"`
	Parents  []int `json:"parents" toml:"parents" yaml:"parents,flow"`
	Children []int `json:"children,omitempty" toml:"children,omitempty" yaml:"children,omitempty,flow"`
}
