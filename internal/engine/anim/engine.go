package anim

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/engine/node"
	"github.com/Faultbox/scenekit/internal/logger"
	"github.com/Faultbox/scenekit/pkg/math"
)

// Default engine constants.
const (
	DefaultRotationSpeed    = 0.007
	DefaultTranslationSpeed = 0.005
	DefaultThreshold        = 1.0

	// Ellipse orbit semi-axes.
	EllipseSemiMajor = 15 * 20
	EllipseSemiMinor = 8 * 20
	// ellipseDamping slows the ellipse angle relative to the rotation speed.
	ellipseDamping = 3
)

// Settings configures an Engine.
type Settings struct {
	RotationSpeed    float32
	TranslationSpeed float32
	Threshold        float32
	Debug            bool
}

// DefaultSettings returns the stock engine speeds.
func DefaultSettings() Settings {
	return Settings{
		RotationSpeed:    DefaultRotationSpeed,
		TranslationSpeed: DefaultTranslationSpeed,
		Threshold:        DefaultThreshold,
	}
}

// Engine advances animated nodes. It is not safe for concurrent use; the
// render loop owns it.
type Engine struct {
	settings Settings

	// Ellipse orbit state is shared by every node the engine animates.
	alpha     float32
	direction float32

	log *zap.Logger
}

// NewEngine creates an engine. Non-positive settings fall back to defaults.
func NewEngine(s Settings) *Engine {
	def := DefaultSettings()
	if s.RotationSpeed <= 0 {
		s.RotationSpeed = def.RotationSpeed
	}
	if s.TranslationSpeed <= 0 {
		s.TranslationSpeed = def.TranslationSpeed
	}
	if s.Threshold <= 0 {
		s.Threshold = def.Threshold
	}
	return &Engine{
		settings:  s,
		direction: 1,
		log:       logger.Named("anim"),
	}
}

// Settings returns the engine settings.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Advance moves n one step according to cfg. It is a no-op when cfg is nil,
// not animating, or misconfigured. elapsed is accepted for loop symmetry;
// steps are per tick, not per second.
func (e *Engine) Advance(n *node.Node, cfg *Config, elapsed time.Duration) {
	if n == nil {
		return
	}
	e.AdvancePosition(&n.Position, cfg)
}

// AdvancePosition is Advance operating directly on a position vector.
func (e *Engine) AdvancePosition(pos *mgl32.Vec3, cfg *Config) {
	if cfg == nil {
		return
	}
	if !cfg.Animate || cfg.Mode != ModeTranslate {
		// Drop leftover path progress from a disabled or switched animation.
		if cfg.Path != nil || cfg.Counter != 0 {
			cfg.Path = nil
			cfg.Counter = 0
		}
		if !cfg.Animate {
			return
		}
	}

	switch cfg.Mode {
	case ModeOrbit:
		if cfg.ReferencePoint == nil {
			return
		}
		axes := cfg.Direction.unmasked()
		if len(axes) < 2 {
			return
		}
		speed := e.settings.RotationSpeed * cfg.Rate
		if cfg.Variant == OrbitEllipse {
			e.orbitEllipse(pos, axes[0], axes[1], speed)
		} else {
			orbitSphere(pos, axes[0], axes[1], speed)
		}
	case ModeTranslate:
		e.translate(pos, cfg)
	}
}

// orbitSphere rotates the (a, b) components of pos by speed radians.
func orbitSphere(pos *mgl32.Vec3, a, b int, speed float32) {
	c, s := math32.Cos(speed), math32.Sin(speed)
	pa, pb := pos[a], pos[b]
	pos[a] = pa*c + pb*s
	pos[b] = pb*c - pa*s
}

// orbitEllipse places pos on a quarter ellipse around the world origin,
// reversing direction when the angle reaches 0 or 90 degrees.
func (e *Engine) orbitEllipse(pos *mgl32.Vec3, a, b int, speed float32) {
	e.alpha += (speed / ellipseDamping) * e.direction
	switch {
	case e.alpha >= math32.Pi/2:
		e.alpha = math32.Pi / 2
		e.direction = -1
	case e.alpha <= 0:
		e.alpha = 0
		e.direction = 1
	}
	pos[a] = EllipseSemiMajor * math32.Cos(e.alpha)
	pos[b] = EllipseSemiMinor * math32.Sin(e.alpha)
}

func (e *Engine) translate(pos *mgl32.Vec3, cfg *Config) {
	if cfg.Path == nil {
		if cfg.ReferencePoint == nil || cfg.ControlPoints < 1 {
			return
		}
		target := *cfg.ReferencePoint
		delta := target.Sub(*pos).Mul(1 / float32(cfg.ControlPoints+1))

		if !e.significant(delta) {
			if e.settings.Debug {
				e.log.Debug("translation below threshold, cancelled",
					zap.Float32s("delta", delta[:]),
				)
			}
			cfg.Animate = false
			return
		}

		points := make([]mgl32.Vec3, 0, cfg.ControlPoints+2)
		points = append(points, *pos)
		for i := 1; i <= cfg.ControlPoints; i++ {
			points = append(points, pos.Add(delta.Mul(float32(i))))
		}
		points = append(points, target)

		cfg.Path = math.NewCurve(points)
		cfg.Counter = 0
	}

	cfg.Counter = math.Clamp(cfg.Counter+e.settings.TranslationSpeed*cfg.Rate, 0, 1)
	*pos = cfg.Path.Point(cfg.Counter)

	if cfg.Counter >= 1 {
		cfg.Stop()
	}
}

// significant reports whether any component of d exceeds the threshold.
func (e *Engine) significant(d mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math32.Abs(d[i]) > e.settings.Threshold {
			return true
		}
	}
	return false
}
