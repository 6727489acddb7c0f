package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	apperrors "github.com/matzehuels/treeideals/pkg/errors"
	"github.com/matzehuels/treeideals/pkg/forest"
)

// Write encodes t in format f to w.
func Write(w io.Writer, t forest.Tree, f Format) error {
	data := treeFile{Root: t.Root, Parents: t.Parents, Children: t.Children}
	var err error
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(data)
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(data); err == nil {
			err = enc.Close()
		}
	default:
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown format %q", f)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return nil
}

// ExportFile writes t to path in the format matching its extension.
func ExportFile(path string, t forest.Tree) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(file, t, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
