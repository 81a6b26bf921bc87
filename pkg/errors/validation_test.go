package errors

import (
	"math"
	"testing"
)

func TestParseDimension(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"integer", "4", 4, false},
		{"decimal", "2.5", 2.5, false},
		{"surrounding space", "  7 ", 7, false},
		{"leading zeros", "007", 7, false},

		{"empty", "", 0, true},
		{"zero", "0", 0, true},
		{"zero decimal", "0.0", 0, true},
		{"negative", "-3", 0, true},
		{"plus sign", "+3", 0, true},
		{"exponent", "1e3", 0, true},
		{"trailing point", "4.", 0, true},
		{"leading point", ".5", 0, true},
		{"two points", "1.2.3", 0, true},
		{"letters", "four", 0, true},
		{"inner space", "1 2", 0, true},
		{"too long", "1234567890123456789012345678901234", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDimension(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDimension(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !Is(err, ErrCodeInvalidDimension) {
					t.Errorf("ParseDimension(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidDimension)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseDimension(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateDimension(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"positive", 1, false},
		{"fraction", 0.25, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimension(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimension(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateBoxCount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"zero", "0", 0, false},
		{"several", "5", 5, false},
		{"padded", " 3\n", 3, false},
		{"empty", "", 0, true},
		{"negative", "-1", 0, true},
		{"decimal", "2.0", 0, true},
		{"word", "two", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateBoxCount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateBoxCount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateBoxCount(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFilePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "boxes.toml", false},
		{"absolute", "/tmp/boxes.yaml", false},
		{"empty", "", true},
		{"null byte", "boxes\x00.json", true},
		{"newline", "boxes\n.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
