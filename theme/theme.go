package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Scroll affordances
	MoreAbove rune // ↑ newer messages hidden
	MoreBelow rune // ↓ older messages hidden

	// USB status
	Connected rune // ● input source present
	Waiting   rune // ○ nothing connected
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			MoreAbove: '↑',
			MoreBelow: '↓',
			Connected: '●',
			Waiting:   '○',
		},
	}
}

// Default returns the theme built on the embedded plasma palette
func Default() *Theme {
	p, err := Builtin("plasma")
	if err != nil {
		panic(fmt.Sprintf("embedded palette: %v", err))
	}
	return New(p)
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // deep purple
	RoleMuted   = 0.2 // purple-magenta
	RoleFG      = 0.4 // pink-purple (readable)
	RoleAccent  = 0.5 // vivid magenta
	RoleActive  = 0.7 // soft red
	RoleWarning = 0.8 // orange
	RoleSuccess = 1.0 // bright yellow
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

// KindColor colours a history line by message kind, spread across the palette
func (t *Theme) KindColor(kind uint8) lipgloss.Color {
	if kind < 0x80 {
		return t.Warning()
	}
	// 0x80..0xF0 -> 0.3..1.0
	norm := 0.3 + float64((kind>>4)-8)*0.1
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
