package label

import (
	"image/color"
	"strings"
)

// Style controls how a label is drawn. Zero or negative values select the
// defaults returned by DefaultStyle.
type Style struct {
	FontFace        string
	FontSize        float64
	BorderThickness float64
	BorderColor     color.RGBA
	BackgroundColor color.RGBA
	TextColor       color.RGBA
}

// DefaultStyle returns the label style used when nothing is specified.
func DefaultStyle() Style {
	return Style{
		FontFace:        "Arial",
		FontSize:        18,
		BorderThickness: 4,
		BorderColor:     color.RGBA{0, 0, 0, 255},
		BackgroundColor: color.RGBA{255, 255, 255, 255},
		TextColor:       color.RGBA{0, 0, 0, 255},
	}
}

// Resolved fills unset or malformed fields with defaults.
func (s Style) Resolved() Style {
	d := DefaultStyle()
	if strings.TrimSpace(s.FontFace) == "" {
		s.FontFace = d.FontFace
	}
	if s.FontSize <= 0 {
		s.FontSize = d.FontSize
	}
	if s.BorderThickness <= 0 {
		s.BorderThickness = d.BorderThickness
	}
	if s.BorderColor == (color.RGBA{}) {
		s.BorderColor = d.BorderColor
	}
	if s.BackgroundColor == (color.RGBA{}) {
		s.BackgroundColor = d.BackgroundColor
	}
	if s.TextColor == (color.RGBA{}) {
		s.TextColor = d.TextColor
	}
	return s
}
