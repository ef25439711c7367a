// Package config provides configuration loading and access for the scene.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all scene configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Camera     CameraConfig     `yaml:"camera"`
	Subject    PlaneConfig      `yaml:"subject"`
	Companion  PlaneConfig      `yaml:"companion"`
	Effects    EffectsConfig    `yaml:"effects"`
	Cards      CardsConfig      `yaml:"cards"`
	Icons      IconsConfig      `yaml:"icons"`
	Sequencer  SequencerConfig  `yaml:"sequencer"`
	Aura       AuraConfig       `yaml:"aura"`
	Emitter    EmitterConfig    `yaml:"emitter"`
	Expression ExpressionConfig `yaml:"expression"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	TargetFPS  int    `yaml:"target_fps"`
	Title      string `yaml:"title"`
	Background string `yaml:"background"` // hex RGB, e.g. "#000000"
}

// CameraConfig mirrors the orbit controls of the scene camera.
type CameraConfig struct {
	FovY          float64 `yaml:"fov_y"` // degrees
	Distance      float64 `yaml:"distance"`
	MinDistance   float64 `yaml:"min_distance"`
	MaxDistance   float64 `yaml:"max_distance"`
	MaxPolarAngle float64 `yaml:"max_polar_angle"` // radians, 0 = pi/2
	Damping       float64 `yaml:"damping"`
	RotateSpeed   float64 `yaml:"rotate_speed"` // radians per pixel of drag
}

// FloatConfig describes the oscillation of a floating plane.
// A zero Jitter leaves the field fixed; otherwise a uniform draw in [0, Jitter) is added.
type FloatConfig struct {
	Phase           float64 `yaml:"phase"`
	RandomPhase     bool    `yaml:"random_phase"`
	PhaseStep       float64 `yaml:"phase_step"`
	PhaseStepJitter float64 `yaml:"phase_step_jitter"`
	Amplitude       float64 `yaml:"amplitude"`
	AmplitudeJitter float64 `yaml:"amplitude_jitter"`
}

// PlaneConfig holds a single textured plane.
type PlaneConfig struct {
	Name          string      `yaml:"name"`
	Texture       string      `yaml:"texture"`
	Height        float64     `yaml:"height"`
	FallbackSize  float64     `yaml:"fallback_size"`
	FallbackColor string      `yaml:"fallback_color"`
	Position      [3]float64  `yaml:"position"`
	BaselineShift float64     `yaml:"baseline_shift"` // added to position.y to get the float baseline
	Order         int         `yaml:"order"`
	Float         FloatConfig `yaml:"float"`
}

// EffectsConfig holds the two rotated effect planes that flank the companion.
type EffectsConfig struct {
	Texture  string      `yaml:"texture"`
	Height   float64     `yaml:"height"`
	Opacity  float64     `yaml:"opacity"`
	Offset   [3]float64  `yaml:"offset"`  // from the companion position
	Spacing  float64     `yaml:"spacing"` // x distance between the two planes
	Rotation float64     `yaml:"rotation"`
	Order    int         `yaml:"order"`
	Float    FloatConfig `yaml:"float"`
}

// CardsConfig holds the card atlas and card placement.
type CardsConfig struct {
	Texture     string       `yaml:"texture"`
	AspectRatio float64      `yaml:"aspect_ratio"`
	Size        float64      `yaml:"size"`
	Positions   [][3]float64 `yaml:"positions"`
	Cells       [][2]float64 `yaml:"cells"` // atlas UV offsets, one per card
	Order       int          `yaml:"order"`
	Float       FloatConfig  `yaml:"float"`
}

// IconConfig is a single clickable icon plane.
type IconConfig struct {
	Name     string     `yaml:"name"`
	Texture  string     `yaml:"texture"`
	URL      string     `yaml:"url"`
	Position [3]float64 `yaml:"position"`
}

// IconsConfig holds the two icon rows.
type IconsConfig struct {
	Size      float64      `yaml:"size"`
	Order     int          `yaml:"order"`
	Primary   []IconConfig `yaml:"primary"`
	Secondary []IconConfig `yaml:"secondary"`
}

// SequencerConfig holds the icon jiggle parameters.
type SequencerConfig struct {
	Speed      float64 `yaml:"speed"`     // radians per tick
	Amplitude  float64 `yaml:"amplitude"` // world units
	PauseTicks int     `yaml:"pause_ticks"`
}

// AuraConfig holds the particle aura parameters.
type AuraConfig struct {
	Count        int     `yaml:"count"`
	Size         float64 `yaml:"size"`
	Color        string  `yaml:"color"`
	ColorJitter  float64 `yaml:"color_jitter"`
	MinRadius    float64 `yaml:"min_radius"`
	RadiusSpread float64 `yaml:"radius_spread"`
	ZShift       float64 `yaml:"z_shift"`
	Amplitude    float64 `yaml:"amplitude"`
	TimeScale    float64 `yaml:"time_scale"` // elapsed seconds -> aura time
}

// EmitterConfig configures the flame particle engine.
type EmitterConfig struct {
	Enabled    bool       `yaml:"enabled"`
	ConfigPath string     `yaml:"config_path"` // engine definition, relative to the assets dir
	Offset     [3]float64 `yaml:"offset"`
}

// ExpressionVariant names a subject texture.
type ExpressionVariant struct {
	Name    string `yaml:"name"`
	Texture string `yaml:"texture"`
}

// ExpressionConfig holds the subject expression cycle.
type ExpressionConfig struct {
	Threshold   int                 `yaml:"threshold"`
	ShakeFrames int                 `yaml:"shake_frames"`
	ShakeAmount float64             `yaml:"shake_amount"`
	Variants    []ExpressionVariant `yaml:"variants"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	LogInterval         float64 `yaml:"log_interval"` // seconds between perf log lines
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32       float32
	ScreenH32       float32
	CycleTicks      int     // ticks per jiggle cycle: ceil(2*pi / speed)
	MaxPolarAngle   float64 // resolved camera polar clamp
	BackgroundColor [3]uint8
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the frame loop cannot run with.
func (c *Config) validate() error {
	if c.Sequencer.Speed <= 0 {
		return fmt.Errorf("sequencer.speed must be positive, got %v", c.Sequencer.Speed)
	}
	if c.Sequencer.PauseTicks < 0 {
		return fmt.Errorf("sequencer.pause_ticks must not be negative, got %d", c.Sequencer.PauseTicks)
	}
	if c.Expression.Threshold <= 0 {
		return fmt.Errorf("expression.threshold must be positive, got %d", c.Expression.Threshold)
	}
	if len(c.Cards.Cells) != 0 && len(c.Cards.Cells) != len(c.Cards.Positions) {
		return fmt.Errorf("cards: %d atlas cells for %d positions", len(c.Cards.Cells), len(c.Cards.Positions))
	}
	if _, err := ParseHexColor(c.Screen.Background); err != nil {
		return fmt.Errorf("screen.background: %w", err)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.CycleTicks = int(math.Ceil(2 * math.Pi / c.Sequencer.Speed))

	c.Derived.MaxPolarAngle = c.Camera.MaxPolarAngle
	if c.Derived.MaxPolarAngle == 0 {
		c.Derived.MaxPolarAngle = math.Pi / 2
	}

	bg, _ := ParseHexColor(c.Screen.Background)
	c.Derived.BackgroundColor = bg
}

// ParseHexColor parses "#rrggbb" (or "rrggbb"). An empty string is black.
func ParseHexColor(s string) ([3]uint8, error) {
	var rgb [3]uint8
	if s == "" {
		return rgb, nil
	}
	if s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return rgb, fmt.Errorf("invalid hex color %q", s)
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return rgb, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		rgb[i] = uint8(v)
	}
	return rgb, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
