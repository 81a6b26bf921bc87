package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	bterrors "github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/stack"
)

// WriteSolutionJSON encodes sol as indented JSON.
func WriteSolutionJSON(sol *stack.Solution, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sol); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportSolutionJSON writes sol to a JSON file at path.
func ExportSolutionJSON(sol *stack.Solution, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteSolutionJSON(sol, f)
}

// ReadSolutionJSON decodes a solution and checks that its layers are
// consistent: one oriented box per placement, each matching its placement's
// base and height, summing to the recorded height.
func ReadSolutionJSON(r io.Reader) (*stack.Solution, error) {
	var sol stack.Solution
	if err := json.NewDecoder(r).Decode(&sol); err != nil {
		return nil, bterrors.Wrap(bterrors.ErrCodeInvalidInput, err, "decode solution")
	}
	if len(sol.Boxes) != len(sol.Placements) {
		return nil, bterrors.New(bterrors.ErrCodeInvalidInput,
			"solution has %d boxes but %d placements", len(sol.Boxes), len(sol.Placements))
	}

	var total float64
	for i, p := range sol.Placements {
		b := sol.Boxes[i]
		if b.Footprint() != p.Base || b.H != p.Height {
			return nil, bterrors.New(bterrors.ErrCodeInvalidInput,
				"layer %d: box %s does not match placement %s/%v", i, b, p.Base, p.Height)
		}
		total += p.Height
	}
	if total != sol.Height {
		return nil, bterrors.New(bterrors.ErrCodeInvalidInput,
			"solution height %v does not match layer sum %v", sol.Height, total)
	}
	return &sol, nil
}

// ImportSolutionJSON reads a solution file.
func ImportSolutionJSON(path string) (*stack.Solution, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, bterrors.New(bterrors.ErrCodeFileNotFound, "solution file not found: %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSolutionJSON(f)
}
