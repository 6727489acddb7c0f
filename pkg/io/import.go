package io

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	apperrors "github.com/matzehuels/treeideals/pkg/errors"
	"github.com/matzehuels/treeideals/pkg/forest"
)

// Read decodes a tree in format f from r and validates it. It does not
// close r.
func Read(r io.Reader, f Format) (forest.Tree, error) {
	var data treeFile
	var err error
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&data)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&data)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&data)
	default:
		return forest.Tree{}, apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown format %q", f)
	}
	if err != nil {
		return forest.Tree{}, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode %s", f)
	}

	children := data.Children
	if children == nil {
		children = make([]int, len(data.Parents))
		for i := range children {
			children[i] = i + 1
		}
	}
	t, err := forest.New(data.Root, data.Parents, children)
	if err != nil {
		return forest.Tree{}, err
	}
	if err := t.Validate(); err != nil {
		return forest.Tree{}, err
	}
	return t, nil
}

// ImportFile reads the tree file at path, choosing the format from its
// extension.
func ImportFile(path string) (forest.Tree, error) {
	if err := apperrors.ValidateTreePath(path); err != nil {
		return forest.Tree{}, err
	}
	f, err := FormatFromPath(path)
	if err != nil {
		return forest.Tree{}, err
	}
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return forest.Tree{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return forest.Tree{}, apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer file.Close()
	return Read(file, f)
}
