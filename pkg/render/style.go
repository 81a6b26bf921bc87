package render

import (
	"slices"
	"strings"

	"github.com/matzehuels/boxtower/pkg/errors"
)

// Style is a colour palette.
type Style struct {
	Name       string
	Background string
	Line       string
	Text       string
}

// Built-in styles.
var (
	// Classic is green-on-navy, the look of the original terminal-era tool.
	Classic = Style{Name: "classic", Background: "#000050", Line: "#FFFFFF", Text: "#00FF00"}

	// Paper is dark ink on white, suited to print.
	Paper = Style{Name: "paper", Background: "#FFFFFF", Line: "#222222", Text: "#1F5FAF"}

	// Blueprint is white on blueprint blue.
	Blueprint = Style{Name: "blueprint", Background: "#1E4D8C", Line: "#E8F1FF", Text: "#FFFFFF"}
)

// DefaultStyle is used when no style is named.
const DefaultStyle = "classic"

var styles = []Style{Classic, Paper, Blueprint}

// StyleNames lists the built-in style names.
func StyleNames() []string {
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = s.Name
	}
	return names
}

// ParseStyle looks up a built-in style by name (case-insensitive).
// An empty name selects DefaultStyle.
func ParseStyle(name string) (Style, error) {
	if name == "" {
		name = DefaultStyle
	}
	i := slices.IndexFunc(styles, func(s Style) bool { return strings.EqualFold(s.Name, name) })
	if i < 0 {
		return Style{}, errors.New(errors.ErrCodeInvalidStyle,
			"unknown style %q (available: %s)", name, strings.Join(StyleNames(), ", "))
	}
	return styles[i], nil
}
