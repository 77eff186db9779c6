package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/image/colornames"
	yaml "gopkg.in/yaml.v3"
)

type AppConfig struct {
	Engine   EngineConfig   `yaml:"engine"`
	Clock    ClockConfig    `yaml:"clock"`
	UI       UIConfig       `yaml:"ui"`
	Assets   AssetsConfig   `yaml:"assets"`
	Messages MessagesConfig `yaml:"messages"`
}

type EngineConfig struct {
	// Path is tried before SearchPaths and the well-known locations.
	Path        string        `yaml:"path"`
	SearchPaths []string      `yaml:"search_paths"`
	Preset      string        `yaml:"preset"`
	Threads     int           `yaml:"threads"`
	MoveTime    time.Duration `yaml:"move_time"`
}

type ClockConfig struct {
	Initial time.Duration `yaml:"initial"`
}

type UIConfig struct {
	SquarePx  int         `yaml:"square_px"`
	FrameRate int         `yaml:"frame_rate"`
	Theme     ThemeConfig `yaml:"theme"`
}

// ThemeConfig colours are "#rrggbb", "#rrggbbaa" or an X11 colour name.
type ThemeConfig struct {
	Light         string `yaml:"light"`
	Dark          string `yaml:"dark"`
	Highlight     string `yaml:"highlight"`
	MoveHighlight string `yaml:"move_highlight"`
	LastMove      string `yaml:"last_move"`
	Panel         string `yaml:"panel"`
	Text          string `yaml:"text"`
	Button        string `yaml:"button"`
}

type AssetsConfig struct {
	PiecesDir string `yaml:"pieces_dir"`
}

type MessagesConfig struct {
	// Dir holds YAML files overriding the built-in UI strings.
	Dir string `yaml:"dir"`
}

func Default() *AppConfig {
	return &AppConfig{
		Engine: EngineConfig{
			Preset:   "full",
			MoveTime: time.Second,
		},
		Clock: ClockConfig{Initial: 10 * time.Minute},
		UI: UIConfig{
			SquarePx:  8,
			FrameRate: 60,
			Theme: ThemeConfig{
				Light:         "#f0d9b5",
				Dark:          "#b58863",
				Highlight:     "#f7f76996",
				MoveHighlight: "#6aa84f96",
				LastMove:      "#cdd26a80",
				Panel:         "#f0f0f0",
				Text:          "#323232",
				Button:        "steelblue",
			},
		},
		Assets: AssetsConfig{PiecesDir: "assets/pieces"},
	}
}

// Load starts from defaults, applies the YAML file at path when given and
// finally the environment.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	if strings.TrimSpace(path) == "" {
		path = strings.TrimSpace(os.Getenv("CHEESE_CONFIG"))
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("STOCKFISH_PATH")); v != "" {
		cfg.Engine.Path = v
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_ENGINE_PRESET")); v != "" {
		cfg.Engine.Preset = v
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_ENGINE_THREADS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Engine.Threads = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_MOVE_TIME_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Engine.MoveTime = time.Duration(n) * time.Millisecond
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_CLOCK_MINUTES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Clock.Initial = time.Duration(n) * time.Minute
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_ASSETS_DIR")); v != "" {
		cfg.Assets.PiecesDir = v
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_MESSAGES_DIR")); v != "" {
		cfg.Messages.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv("UI_SQUARE_PX")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.UI.SquarePx = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("UI_FRAME_RATE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.UI.FrameRate = n
		}
	}
}

func (c *AppConfig) Validate() error {
	var errs []error
	if c.Engine.MoveTime <= 0 {
		errs = append(errs, errors.New("engine.move_time must be > 0"))
	}
	if c.Engine.Threads < 0 {
		errs = append(errs, errors.New("engine.threads must be >= 0"))
	}
	if c.Clock.Initial <= 0 {
		errs = append(errs, errors.New("clock.initial must be > 0"))
	}
	// Squares are drawn with half-block cells, so the height must be even.
	if c.UI.SquarePx < 2 || c.UI.SquarePx%2 != 0 {
		errs = append(errs, fmt.Errorf("ui.square_px must be an even number >= 2: %d", c.UI.SquarePx))
	}
	if c.UI.FrameRate <= 0 || c.UI.FrameRate > 240 {
		errs = append(errs, fmt.Errorf("ui.frame_rate out of range 1-240: %d", c.UI.FrameRate))
	}
	if strings.TrimSpace(c.Assets.PiecesDir) == "" {
		errs = append(errs, errors.New("assets.pieces_dir is required"))
	}
	for name, v := range c.UI.Theme.fields() {
		// Empty keeps the built-in colour.
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, err := ParseColor(v); err != nil {
			errs = append(errs, fmt.Errorf("ui.theme.%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (t ThemeConfig) fields() map[string]string {
	return map[string]string{
		"light":          t.Light,
		"dark":           t.Dark,
		"highlight":      t.Highlight,
		"move_highlight": t.MoveHighlight,
		"last_move":      t.LastMove,
		"panel":          t.Panel,
		"text":           t.Text,
		"button":         t.Button,
	}
}

// ParseColor accepts "#rgb", "#rrggbb", "#rrggbbaa" or an X11 colour name.
// Alpha is not premultiplied.
func ParseColor(s string) (color.NRGBA, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return color.NRGBA{}, errors.New("empty colour")
	}
	if !strings.HasPrefix(v, "#") {
		c, ok := colornames.Map[v]
		if !ok {
			return color.NRGBA{}, fmt.Errorf("unknown colour name %q", s)
		}
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	hex := v[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("bad colour %q", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("bad colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
}
