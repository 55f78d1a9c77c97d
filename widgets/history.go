package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HistoryRow is one formatted message line
type HistoryRow struct {
	Text  string
	Color lipgloss.Color
}

// HistoryStyle controls how the history block is drawn
type HistoryStyle struct {
	Rows        int // visible rows; short windows are padded
	Width       int
	Arrow       lipgloss.Style
	Placeholder lipgloss.Style
	UpSymbol    rune
	DownSymbol  rune
}

// RenderHistory renders the visible window with scroll arrows in a right
// hand gutter. An empty window shows placeholder text instead.
func RenderHistory(rows []HistoryRow, moreAbove, moreBelow bool, placeholder string, st HistoryStyle) string {
	if len(rows) == 0 {
		block := make([]string, st.Rows)
		if st.Rows > 0 {
			block[st.Rows/2] = st.Placeholder.Render(placeholder)
		}
		return strings.Join(block, "\n")
	}

	lines := make([]string, 0, st.Rows)
	for i := 0; i < st.Rows; i++ {
		text := ""
		if i < len(rows) {
			text = lipgloss.NewStyle().Foreground(rows[i].Color).Width(st.Width).Render(rows[i].Text)
		} else {
			text = strings.Repeat(" ", st.Width)
		}

		gutter := " "
		switch {
		case i == 0 && moreAbove:
			gutter = st.Arrow.Render(string(st.UpSymbol))
		case i == st.Rows-1 && moreBelow:
			gutter = st.Arrow.Render(string(st.DownSymbol))
		}
		lines = append(lines, text+" "+gutter)
	}
	return strings.Join(lines, "\n")
}
