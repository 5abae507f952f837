// Package config loads the game settings from ROCHAMBEAU_* environment variables,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/ayusman/rochambeau/internal/game"
	"github.com/ayusman/rochambeau/internal/gesture"
)

// Prefix is prepended to every environment variable name.
const Prefix = "ROCHAMBEAU_"

// Threshold presets.
const (
	PresetStrict = "strict"
	PresetLoose  = "loose"
	PresetCustom = "custom"
)

// Config holds the application configuration.
type Config struct {
	Addr      string `env:"ADDR" envDefault:":8080" validate:"required"`
	StaticDir string `env:"STATIC_DIR"`
	// DataDir holds the database. Empty means ~/.rochambeau.
	DataDir string `env:"DATA_DIR"`

	CameraID     int    `env:"CAMERA_ID" envDefault:"0" validate:"gte=0"`
	CameraFPS    int    `env:"CAMERA_FPS" envDefault:"30" validate:"min=1,max=120"`
	CameraWidth  int    `env:"CAMERA_WIDTH" envDefault:"640" validate:"min=160"`
	CameraHeight int    `env:"CAMERA_HEIGHT" envDefault:"480" validate:"min=120"`
	Detector     string `env:"DETECTOR" envDefault:"mediapipe" validate:"oneof=mediapipe mock"`
	// MotionThreshold is the percentage of changed pixels that triggers a new detection. Zero disables the gate.
	MotionThreshold float64 `env:"MOTION_THRESHOLD" envDefault:"0" validate:"gte=0,lte=100"`
	FrameInterval   int     `env:"FRAME_INTERVAL" envDefault:"5" validate:"min=1,max=60"`

	// Thresholds has no default: the classifier's tolerance must be chosen explicitly.
	Thresholds string  `env:"THRESHOLDS" validate:"required,oneof=strict loose custom"`
	Confidence float64 `env:"CONFIDENCE" validate:"required_if=Thresholds custom,gte=0,lt=1"`
	Distance   float64 `env:"DISTANCE" validate:"required_if=Thresholds custom,gte=0,lte=1"`

	Stabilizer string `env:"STABILIZER" envDefault:"latch" validate:"oneof=latch reset"`
	Mode       string `env:"MODE" envDefault:"continuous" validate:"oneof=continuous immediate"`
	// Seed makes the computer's choices repeatable. Zero seeds randomly.
	Seed uint64 `env:"SEED"`

	Replay     string `env:"REPLAY"`
	ReplayFPS  int    `env:"REPLAY_FPS" envDefault:"30" validate:"gte=0"`
	ReplayLoop bool   `env:"REPLAY_LOOP"`
	Record     string `env:"RECORD"`

	// HooksDir holds one directory per hook. Empty means ~/.rochambeau/hooks.
	HooksDir    string        `env:"HOOKS_DIR"`
	HookTimeout time.Duration `env:"HOOK_TIMEOUT" envDefault:"5s" validate:"gte=0"`

	Tray      bool   `env:"TRAY"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console" validate:"oneof=console json"`
}

// Load reads .env if present, then the environment, and validates the result.
func Load() (*Config, error) {
	// A missing .env is fine; real environment variables may be set instead.
	_ = godotenv.Load()

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse reads the environment without validating.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: Prefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their variable names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := f.Tag.Get("env")
		if name == "" {
			return f.Name
		}
		return Prefix + name
	})
	return v
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, describe(e))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s must be set", e.Field())
	case "required_if":
		return fmt.Sprintf("%s must be set when %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
	case "lt":
		return fmt.Sprintf("%s must be below %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}

// GameMode returns the configured match mode.
func (c *Config) GameMode() game.Mode {
	m, _ := game.ParseMode(c.Mode)
	return m
}

// Policy returns the configured stabilizer policy.
func (c *Config) Policy() gesture.Policy {
	p, _ := gesture.ParsePolicy(c.Stabilizer)
	return p
}

// GestureThresholds returns the classifier thresholds for the chosen preset.
func (c *Config) GestureThresholds() gesture.Thresholds {
	switch c.Thresholds {
	case PresetLoose:
		return gesture.LooseThresholds()
	case PresetCustom:
		return gesture.UniformThresholds(c.Confidence, c.Distance)
	default:
		return gesture.StrictThresholds()
	}
}

// DatabasePath returns the SQLite file under the data directory.
func (c *Config) DatabasePath() (string, error) {
	dir, err := c.dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "rochambeau.db"), nil
}

// HookPath returns the hook directory.
func (c *Config) HookPath() (string, error) {
	if c.HooksDir != "" {
		return c.HooksDir, nil
	}
	dir, err := c.dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "hooks"), nil
}

func (c *Config) dataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".rochambeau"), nil
}
