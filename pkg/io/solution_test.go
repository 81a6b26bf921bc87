package io

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/stack"
)

func solve(t *testing.T, boxes ...box.Box) *stack.Solution {
	t.Helper()
	sol, err := stack.Evaluate(context.Background(), boxes)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	return sol
}

func TestSolutionJSONRoundTrip(t *testing.T) {
	sol := solve(t, box.New(6, 2, 1), box.New(2, 6, 3))

	var buf bytes.Buffer
	if err := WriteSolutionJSON(sol, &buf); err != nil {
		t.Fatalf("WriteSolutionJSON: %v", err)
	}
	got, err := ReadSolutionJSON(&buf)
	if err != nil {
		t.Fatalf("ReadSolutionJSON: %v", err)
	}
	if got.Height != sol.Height || got.Len() != sol.Len() || got.Corrected != sol.Corrected {
		t.Errorf("round trip = %+v, want %+v", got, sol)
	}
	for i := range sol.Boxes {
		if got.Boxes[i] != sol.Boxes[i] {
			t.Errorf("box %d = %v, want %v", i, got.Boxes[i], sol.Boxes[i])
		}
	}
}

func TestExportImportSolution(t *testing.T) {
	sol := solve(t, box.New(7, 5, 9))
	path := filepath.Join(t.TempDir(), "solution.json")

	if err := ExportSolutionJSON(sol, path); err != nil {
		t.Fatal(err)
	}
	got, err := ImportSolutionJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Height != 9 {
		t.Errorf("Height = %v, want 9", got.Height)
	}

	if _, err := ImportSolutionJSON(path + ".missing"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestReadSolutionJSONRejectsInconsistent(t *testing.T) {
	tests := map[string]string{
		"count mismatch": `{"placements":[{"box":0,"base":[5,7],"height":9}],"boxes":[],"height":9}`,
		"wrong box":      `{"placements":[{"box":0,"base":[5,7],"height":9}],"boxes":[{"l":7,"w":5,"h":9}],"height":9}`,
		"wrong height":   `{"placements":[{"box":0,"base":[5,7],"height":9}],"boxes":[{"l":5,"w":7,"h":9}],"height":10}`,
		"not json":       `{`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadSolutionJSON(strings.NewReader(input)); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("err = %v, want INVALID_INPUT", err)
			}
		})
	}
}
