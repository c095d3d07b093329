package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagScene      = flag.String("scene", "", "Scene description file")
	flagVR         = flag.Bool("vr", false, "Start in VR (stereo) mode")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagAnnotate   = flag.Bool("annotate", false, "Draw bounding boxes around every node")
	flagGrid       = flag.Bool("grid", false, "Draw a reference grid and the animation paths")
	flagBounds     = flag.Bool("bounds", false, "Outline the world bounds of every object and primitive")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Debug.LogAnimation = true
	}
	if *flagScene != "" {
		cfg.Scene.File = *flagScene
	}
	if *flagVR {
		cfg.Scene.VR = true
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagAnnotate {
		cfg.Debug.AnnotateBounds = true
	}
	if *flagGrid {
		cfg.Debug.Grid = true
		cfg.Debug.Paths = true
	}
	if *flagBounds {
		cfg.Debug.Bounds = true
	}
}
