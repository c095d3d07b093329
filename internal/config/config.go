// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Scene     SceneConfig     `yaml:"scene"`
	Animation AnimationConfig `yaml:"animation"`
	Labels    LabelConfig     `yaml:"labels"`
	Controls  ControlsConfig  `yaml:"controls"`
	Debug     DebugConfig     `yaml:"debug"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Fullscreen   bool    `yaml:"fullscreen"`
	VSync        bool    `yaml:"vsync"`
	FPSLimit     int     `yaml:"fps_limit"`
	PixelDensity float32 `yaml:"pixel_density"` // 0 = use display density
	Samples      int     `yaml:"samples"`       // MSAA samples, 0 = off
}

// SceneConfig selects the scene description to load.
type SceneConfig struct {
	File     string `yaml:"file"`
	BasePath string `yaml:"base_path"` // resolved relative to the scene file when empty
	VR       bool   `yaml:"vr"`
}

// AnimationConfig holds the global animation speed constants.
type AnimationConfig struct {
	RotationSpeed    float32 `yaml:"rotation_speed"`
	TranslationSpeed float32 `yaml:"translation_speed"`
	Threshold        float32 `yaml:"threshold"`
}

// LabelConfig holds the label canvas size.
type LabelConfig struct {
	CanvasWidth  int `yaml:"canvas_width"`
	CanvasHeight int `yaml:"canvas_height"`
}

// ControlsConfig holds trackball sensitivities.
type ControlsConfig struct {
	RotateSpeed   float32 `yaml:"rotate_speed"`
	ZoomSpeed     float32 `yaml:"zoom_speed"`
	PanSpeed      float32 `yaml:"pan_speed"`
	StaticMoving  bool    `yaml:"static_moving"`
	DampingFactor float32 `yaml:"damping_factor"`
	EyeSeparation float32 `yaml:"eye_separation"`
}

// DebugConfig holds debug visualisation settings.
type DebugConfig struct {
	AnnotateBounds bool   `yaml:"annotate_bounds"`
	FaceLabels     bool   `yaml:"face_labels"`
	Seed           int64  `yaml:"seed"`
	LogAnimation   bool   `yaml:"log_animation"`
	Grid           bool   `yaml:"grid"`
	Paths          bool   `yaml:"paths"`  // draw active translate paths
	Bounds         bool   `yaml:"bounds"` // outline world bounds of scene nodes
	ScreenshotDir  string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			Samples:    4,
		},
		Scene: SceneConfig{
			File: "scene.yaml",
		},
		Animation: AnimationConfig{
			RotationSpeed:    0.007,
			TranslationSpeed: 0.005,
			Threshold:        1,
		},
		Labels: LabelConfig{
			CanvasWidth:  512,
			CanvasHeight: 1024,
		},
		Controls: ControlsConfig{
			RotateSpeed:   10.0,
			ZoomSpeed:     0.1,
			PanSpeed:      0.8,
			StaticMoving:  true,
			DampingFactor: 0.3,
			EyeSeparation: 0.064,
		},
		Debug: DebugConfig{
			Seed: 1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
