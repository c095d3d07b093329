package label

import (
	"math"
	"strings"
)

// Layout is the placement of a label's background and text lines on the
// backing canvas. All values are in canvas pixels.
type Layout struct {
	Lines     int
	Chunks    []string
	TextWidth float64
	X, Y      float64
	W, H      float64
	Radius    float64
}

const (
	cornerRadius = 6
	// descender room below the baseline for g, j, p, q
	lineHeightFactor = 1.4
)

// ComputeLayout wraps msg to fit canvasW using measure for text widths.
//
// The message is first measured as is. When it is wider than the canvas the
// line count is estimated, the message is padded with two spaces per line
// and measured again, and the line count is recomputed from the padded
// width. Lines are split by character count, not by word.
func ComputeLayout(msg string, st Style, canvasW, canvasH float64, measure func(string) float64) Layout {
	st = st.Resolved()
	border := st.BorderThickness
	usable := canvasW - 2*border
	if usable <= 0 {
		usable = canvasW
	}

	textWidth := measure(msg)
	lines := 1
	if textWidth > canvasW {
		lines = int(math.Ceil(textWidth / usable))
	}

	padded := msg + strings.Repeat(" ", 2*lines-1)
	textWidth = measure(padded)
	if lines > 1 {
		if textWidth <= canvasW {
			lines = 1
		} else {
			lines = int(math.Ceil(textWidth / usable))
		}
	}

	l := Layout{
		Lines:     lines,
		TextWidth: textWidth,
		Radius:    cornerRadius,
	}
	if lines > 1 {
		l.Chunks = SplitChunks(msg, lines)
	} else {
		l.Chunks = []string{msg}
	}

	rows := lines
	if len(l.Chunks) > rows {
		rows = len(l.Chunks)
	}
	l.H = st.FontSize*lineHeightFactor*float64(rows) + border
	l.W = textWidth/float64(lines) + 2*border
	l.X = canvasW/2 - l.W/2
	l.Y = canvasH/2 - l.H/2
	return l
}

// SplitChunks cuts msg into consecutive chunks of at most len/lines-2 runes,
// leaving room for a space on each side. Chunks are never shorter than one
// rune.
func SplitChunks(msg string, lines int) []string {
	runes := []rune(msg)
	if len(runes) == 0 {
		return []string{""}
	}
	if lines < 1 {
		lines = 1
	}
	size := len(runes)/lines - 2
	if size < 1 {
		size = 1
	}
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
