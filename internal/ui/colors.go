package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF5F87", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style

	brand       lipgloss.Style
	badge       lipgloss.Style
	chip        lipgloss.Style
	chipOn      lipgloss.Style
	chipCursor  lipgloss.Style
	genre       lipgloss.Style
	errorCard   lipgloss.Style
	overlay     lipgloss.Style
	sectionHint lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),

		brand:       NewBold(t).Padding(0, 1).Background(lipgloss.Color("#1A1A2E")),
		badge:       NewBold("#FFFFFF").Background(lipgloss.Color(t)).Padding(0, 1),
		chip:        NewStyle(h).Padding(0, 1),
		chipOn:      NewBold("#FFFFFF").Background(lipgloss.Color(s)).Padding(0, 1),
		chipCursor:  NewBold(t).Underline(true).Padding(0, 1),
		genre:       NewStyle(t).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(t)).Padding(0, 1),
		errorCard:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(e)).Padding(1, 2),
		overlay:     lipgloss.NewStyle().Padding(1, 2),
		sectionHint: NewStyle(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
