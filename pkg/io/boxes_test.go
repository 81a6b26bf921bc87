package io

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/errors"
)

var wantBoxes = []box.Box{box.New(4, 4, 2), box.New(3, 3, 3.5)}

func TestReadBoxesFormats(t *testing.T) {
	tests := []struct {
		format string
		input  string
	}{
		{FormatJSON, `{"boxes": [{"l": 4, "w": 4, "h": 2}, {"l": 3, "w": 3, "h": 3.5}]}`},
		{FormatTOML, "[[boxes]]\nl = 4\nw = 4\nh = 2\n\n[[boxes]]\nl = 3\nw = 3\nh = 3.5\n"},
		{FormatYAML, "boxes:\n  - {l: 4, w: 4, h: 2}\n  - {l: 3, w: 3, h: 3.5}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, err := ReadBoxes(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("ReadBoxes: %v", err)
			}
			if len(got) != len(wantBoxes) {
				t.Fatalf("got %d boxes, want %d", len(got), len(wantBoxes))
			}
			for i := range got {
				if got[i] != wantBoxes[i] {
					t.Errorf("box %d = %v, want %v", i, got[i], wantBoxes[i])
				}
			}
		})
	}
}

func TestReadBoxesEmpty(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatYAML} {
		input := `{"boxes": []}`
		if format == FormatYAML {
			input = ""
		}
		got, err := ReadBoxes(strings.NewReader(input), format)
		if err != nil {
			t.Errorf("%s: ReadBoxes(empty) error: %v", format, err)
		}
		if len(got) != 0 {
			t.Errorf("%s: got %d boxes, want 0", format, len(got))
		}
	}
}

func TestReadBoxesRejects(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
		code   errors.Code
	}{
		{"zero dimension", FormatJSON, `{"boxes": [{"l": 0, "w": 1, "h": 1}]}`, errors.ErrCodeInvalidDimension},
		{"negative dimension", FormatYAML, "boxes:\n  - {l: 1, w: -2, h: 1}\n", errors.ErrCodeInvalidDimension},
		{"unknown field", FormatJSON, `{"boxes": [{"l": 1, "w": 1, "h": 1, "d": 2}]}`, errors.ErrCodeInvalidInput},
		{"malformed", FormatTOML, "[[boxes]\n", errors.ErrCodeInvalidInput},
		{"unsupported format", "xml", "<boxes/>", errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBoxes(strings.NewReader(tt.input), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestImportBoxes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boxes.yml")
	if err := os.WriteFile(path, []byte("boxes:\n  - {l: 4, w: 4, h: 2}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ImportBoxes(path)
	if err != nil {
		t.Fatalf("ImportBoxes: %v", err)
	}
	if len(got) != 1 || got[0] != box.New(4, 4, 2) {
		t.Errorf("ImportBoxes = %v", got)
	}

	if _, err := ImportBoxes(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := ImportBoxes(filepath.Join(dir, "boxes.csv")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("csv err = %v, want INVALID_FORMAT", err)
	}
}

func TestParseBoxFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    box.Box
		wantErr bool
	}{
		{"4x4x2", box.New(4, 4, 2), false},
		{"2.5X3x1", box.New(2.5, 3, 1), false},
		{" 7x5x9 ", box.New(7, 5, 9), false},
		{"4x4", box.Box{}, true},
		{"4x4x2x1", box.Box{}, true},
		{"4x-4x2", box.Box{}, true},
		{"4x0x2", box.Box{}, true},
		{"4x1.2.3x2", box.Box{}, true},
		{"1e3x1x1", box.Box{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBoxFlag(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBoxFlag(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBoxFlag(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseBoxFlagsKeepsOrder(t *testing.T) {
	got, err := ParseBoxFlags([]string{"6x2x1", "2x6x3"})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != box.New(6, 2, 1) || got[1] != box.New(2, 6, 3) {
		t.Errorf("ParseBoxFlags = %v", got)
	}
}
