package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/matzehuels/boxtower/pkg/progress"
)

// barWidth is the number of cells between the brackets.
const barWidth = 40

// progressBar draws one "[=====>    ]  45%" line per search phase. Updates
// within a phase rewrite the line in place; a phase ends its line when it
// reaches 100% or when the next phase starts.
type progressBar struct {
	mu    sync.Mutex
	w     io.Writer
	phase progress.Phase
	open  bool
}

func newProgressBar(w io.Writer) *progressBar {
	return &progressBar{w: w}
}

// Func returns the bar as a progress sink.
func (b *progressBar) Func() progress.Func {
	return b.update
}

func (b *progressBar) update(phase progress.Phase, done, total uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.open && phase != b.phase {
		fmt.Fprintln(b.w)
		b.open = false
	}
	b.phase = phase

	pct := percent(done, total)
	fmt.Fprintf(b.w, "\r%s %s %s", StyleDim.Render(fmt.Sprintf("%-12s", phase)), renderBar(pct), StyleNumber.Render(fmt.Sprintf("%3d%%", pct)))
	b.open = true

	if done >= total {
		fmt.Fprintln(b.w)
		b.open = false
	}
}

// Close terminates a line left open by a cancelled search.
func (b *progressBar) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.open {
		fmt.Fprintln(b.w)
		b.open = false
	}
}

// percent returns done/total as a whole percentage in [0, 100]. An empty
// phase counts as complete.
func percent(done, total uint64) int {
	if total == 0 || done >= total {
		return 100
	}
	// Divide first for totals near the top of the uint64 range.
	if total > 1<<56 {
		return int(done / (total / 100))
	}
	return int(done * 100 / total)
}

// renderBar draws the bracketed bar for pct, e.g. "[=========>          ]".
func renderBar(pct int) string {
	filled := pct * barWidth / 100
	var fill string
	switch {
	case filled >= barWidth:
		fill = strings.Repeat("=", barWidth)
	case filled > 0:
		fill = strings.Repeat("=", filled-1) + styleBarHead.Render(">")
	}
	return "[" + styleBarFill.Render(fill) + strings.Repeat(" ", barWidth-min(filled, barWidth)) + "]"
}
