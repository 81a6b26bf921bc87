package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/boxtower/pkg/box"
	bterrors "github.com/matzehuels/boxtower/pkg/errors"
)

// Supported box file formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

type boxFile struct {
	Boxes []boxSpec `json:"boxes" toml:"boxes" yaml:"boxes" validate:"dive"`
}

type boxSpec struct {
	L float64 `json:"l" toml:"l" yaml:"l" validate:"gt=0"`
	W float64 `json:"w" toml:"w" yaml:"w" validate:"gt=0"`
	H float64 `json:"h" toml:"h" yaml:"h" validate:"gt=0"`
}

var validate = validator.New()

// FormatFromPath returns the box file format implied by path's extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", bterrors.New(bterrors.ErrCodeInvalidFormat,
		"unsupported box file %q (use .json, .toml, .yaml or .yml)", filepath.Base(path))
}

// ReadBoxes decodes a box list in the given format and validates it.
func ReadBoxes(r io.Reader, format string) ([]box.Box, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc boxFile
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return nil, bterrors.New(bterrors.ErrCodeInvalidFormat, "unsupported box format %q", format)
	}
	if err != nil {
		return nil, bterrors.Wrap(bterrors.ErrCodeInvalidInput, err, "decode %s boxes", format)
	}

	if err := validate.Struct(doc); err != nil {
		return nil, validationError(err)
	}

	boxes := make([]box.Box, len(doc.Boxes))
	for i, s := range doc.Boxes {
		for _, v := range [3]float64{s.L, s.W, s.H} {
			if err := bterrors.ValidateDimension(v); err != nil {
				return nil, bterrors.Wrap(bterrors.ErrCodeInvalidDimension, err, "box %d", i+1)
			}
		}
		boxes[i] = box.New(s.L, s.W, s.H)
	}
	return boxes, nil
}

// ImportBoxes reads a box file, choosing the format from its extension.
func ImportBoxes(path string) ([]box.Box, error) {
	if err := bterrors.ValidateFilePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, bterrors.New(bterrors.ErrCodeFileNotFound, "box file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadBoxes(f, format)
}

// ParseBoxFlag parses "LxWxH" (for example "4x4x2" or "2.5x3x1").
func ParseBoxFlag(s string) (box.Box, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 3 {
		return box.Box{}, bterrors.New(bterrors.ErrCodeInvalidInput, "box %q must be written LxWxH", s)
	}
	var dims [3]float64
	for i, p := range parts {
		v, err := bterrors.ParseDimension(p)
		if err != nil {
			return box.Box{}, bterrors.Wrap(bterrors.ErrCodeInvalidDimension, err, "box %q", s)
		}
		dims[i] = v
	}
	return box.New(dims[0], dims[1], dims[2]), nil
}

// ParseBoxFlags parses a list of "LxWxH" values, preserving order.
func ParseBoxFlags(values []string) ([]box.Box, error) {
	boxes := make([]box.Box, 0, len(values))
	for _, v := range values {
		b, err := ParseBoxFlag(v)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, b)
	}
	return boxes, nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return bterrors.New(bterrors.ErrCodeInvalidDimension,
			"%s must be a positive number, got %v", strings.TrimPrefix(fe.Namespace(), "boxFile."), fe.Value())
	}
	return bterrors.Wrap(bterrors.ErrCodeInvalidInput, err, "invalid boxes")
}
