package viewer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/config"
	"github.com/Faultbox/scenekit/internal/engine/anim"
	"github.com/Faultbox/scenekit/internal/engine/camera"
	"github.com/Faultbox/scenekit/internal/engine/loader"
	"github.com/Faultbox/scenekit/internal/engine/loop"
	"github.com/Faultbox/scenekit/internal/engine/node"
	"github.com/Faultbox/scenekit/internal/logger"
)

// ErrNotSettled is returned by Check when loads are still pending at the
// deadline.
var ErrNotSettled = errors.New("scene did not finish loading")

// Headless is a render backend that draws nothing. It counts frames and
// remembers the viewport.
type Headless struct {
	Frames  uint64
	Density float32

	width, height int
}

// NewHeadless creates a backend of the given size.
func NewHeadless(width, height int) *Headless {
	return &Headless{width: width, height: height, Density: 1}
}

// Render counts a frame.
func (h *Headless) Render(*node.Graph, *camera.Perspective) { h.Frames++ }

// SetViewportSize records the size.
func (h *Headless) SetViewportSize(width, height int) { h.width, h.height = width, height }

// SetPixelDensity records the density.
func (h *Headless) SetPixelDensity(ratio float32) { h.Density = ratio }

// Size returns the viewport size.
func (h *Headless) Size() (int, int) { return h.width, h.height }

// Report summarises a headless run of a scene.
type Report struct {
	Scene       string     `yaml:"scene"`
	Nodes       int        `yaml:"nodes"`
	Objects     int        `yaml:"objects"`
	Annotations int        `yaml:"annotations"`
	Controls    int        `yaml:"controls"`
	Pending     int        `yaml:"pending"`
	Frames      uint64     `yaml:"frames"`
	Camera      [3]float32 `yaml:"camera"`
	Errors      []string   `yaml:"errors,omitempty"`
}

// Check builds the configured scene without a window and steps it every
// interval until every load has settled and at least minFrames frames ran.
// Load failures are listed in the report, not returned. It returns
// ErrNotSettled, with a partial report, when ctx ends first.
func Check(ctx context.Context, cfg *config.Config, minFrames uint64, interval time.Duration) (*Report, error) {
	log := logger.Named("check")

	queue := &loader.Queue{}
	c, err := LoadScene(cfg, queue.Post)
	if err != nil {
		return nil, err
	}

	backend := NewHeadless(cfg.Graphics.Width, cfg.Graphics.Height)
	l := loop.New(backend, c, anim.NewEngine(AnimSettings(cfg)), queue)
	if cfg.Graphics.PixelDensity > 0 {
		l.PixelDensity = cfg.Graphics.PixelDensity
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	settled := false
	c.OnSettled(func(err error) {
		settled = true
		log.Debug("scene settled", zap.Uint64("frame", l.Frame()), zap.Error(err))
	})
	l.OnFrame = func(frame uint64, _ time.Duration) {
		if settled && frame >= minFrames {
			stop()
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	runErr := l.Run(runCtx, ticker.C)

	pos := c.Camera.Node().Position
	r := &Report{
		Scene:       c.Name,
		Nodes:       c.Graph.Len(),
		Objects:     len(c.Objects),
		Annotations: len(c.Annotations),
		Controls:    len(c.Controls),
		Pending:     c.Pending(),
		Frames:      l.Frame(),
		Camera:      [3]float32{pos[0], pos[1], pos[2]},
	}
	for _, e := range multierr.Errors(c.Err()) {
		r.Errors = append(r.Errors, e.Error())
	}

	if !settled {
		return r, fmt.Errorf("%w: %d pending after %d frames", ErrNotSettled, r.Pending, r.Frames)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return r, runErr
	}
	return r, nil
}
