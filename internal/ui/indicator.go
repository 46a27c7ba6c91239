// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of gridbind

package ui

// IndicatorMode represents the current input mode.
type IndicatorMode int

const (
	// ModeNormal is the default navigation mode.
	ModeNormal IndicatorMode = iota
	// ModeCommand is for entering commands (: prefix).
	ModeCommand
	// ModeFilter is for filtering rows (/ prefix).
	ModeFilter
	// ModeEdit is for editing the selected cell.
	ModeEdit
)

// Mode indicators.
const (
	IndicatorNormal  = "▦"
	IndicatorCommand = "▦"
	IndicatorFilter  = "🔍"
	IndicatorEdit    = "✎"
)

// String returns the mode name.
func (m IndicatorMode) String() string {
	switch m {
	case ModeCommand:
		return "command"
	case ModeFilter:
		return "filter"
	case ModeEdit:
		return "edit"
	default:
		return "normal"
	}
}

func (m IndicatorMode) decor(label string) (icon, prefix string) {
	switch m {
	case ModeCommand:
		return IndicatorCommand, ":"
	case ModeFilter:
		return IndicatorFilter, "/"
	case ModeEdit:
		return IndicatorEdit, label + "="
	default:
		return IndicatorNormal, ">"
	}
}
