package model1

import "github.com/gdamore/tcell/v2"

var (
	// ModColor row modified color
	ModColor tcell.Color = tcell.ColorYellow

	// AddColor row added color
	AddColor tcell.Color = tcell.ColorBlue

	// PendingColor row with an uncommitted edit
	PendingColor tcell.Color = tcell.ColorDarkCyan

	// ErrColor row error color
	ErrColor tcell.Color = tcell.ColorRed

	// StdColor row default color
	StdColor tcell.Color = tcell.ColorWhite

	// HighlightColor current row color
	HighlightColor tcell.Color = tcell.ColorAqua

	// KillColor row deleted color
	KillColor tcell.Color = tcell.ColorGray
)

// DefaultColorer set the default table row colors
func DefaultColorer(_ Header, re *RowEvent) tcell.Color {
	switch {
	case re.Failed:
		return ErrColor
	case re.Pending:
		return PendingColor
	}

	switch re.Kind {
	case EventAdd:
		return AddColor
	case EventUpdate:
		return ModColor
	case EventDelete:
		return KillColor
	default:
		return StdColor
	}
}
