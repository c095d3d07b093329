package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// Heightmap format errors.
var (
	ErrTruncatedHeightmap = errors.New("truncated heightmap data")
	ErrInvalidHeightmap   = errors.New("invalid heightmap dimensions")
)

// Heightmap is a grid of raw 16-bit samples, row by row.
type Heightmap struct {
	Width   int
	Height  int
	Samples []uint16
}

// At returns the sample at (x, y), or 0 outside the grid.
func (h *Heightmap) At(x, y int) uint16 {
	if x < 0 || y < 0 || x >= h.Width || y >= h.Height {
		return 0
	}
	return h.Samples[y*h.Width+x]
}

// ParseHeightmap parses little-endian unsigned 16-bit samples for a grid of
// width x height points. Extra trailing data is ignored.
func ParseHeightmap(data []byte, width, height int) (*Heightmap, error) {
	if width <= 0 || height <= 0 || width > 8192 || height > 8192 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidHeightmap, width, height)
	}
	count := width * height
	if len(data) < count*2 {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrTruncatedHeightmap, count*2, len(data))
	}

	hm := &Heightmap{
		Width:   width,
		Height:  height,
		Samples: make([]uint16, count),
	}
	for i := range hm.Samples {
		hm.Samples[i] = binary.LittleEndian.Uint16(data[i*2:])
	}
	return hm, nil
}

// ParseHeightmapFile parses a raw heightmap from disk.
func ParseHeightmapFile(path string, width, height int) (*Heightmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading heightmap file: %w", err)
	}
	return ParseHeightmap(data, width, height)
}
