// Package config loads the application settings embedded in the binary and
// applies environment overrides on top of them.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"GPUWindow/control"
	"GPUWindow/window"
)

// FileName is the path of the embedded config inside the content reader.
const FileName = "assets/app_config.json"

// Environment overrides.
const (
	EnvBackend     = "GPUWINDOW_BACKEND"
	EnvControlFlow = "GPUWINDOW_CONTROL_FLOW"
	EnvLogLevel    = "GPUWINDOW_LOG_LEVEL"
)

// Backends understood by the process entry.
const (
	BackendDesktop  = "desktop"
	BackendGPU      = "gpu"
	BackendHeadless = "headless"
)

// ContentReader reads files from the embedded file system.
type ContentReader interface {
	ReadFile(name string) ([]byte, error)
}

// Config holds the process settings.
type Config struct {
	Title             string  `json:"title"`
	Width             float64 `json:"width"`
	Height            float64 `json:"height"`
	Backend           string  `json:"backend"`
	ControlFlow       string  `json:"control_flow"`
	TimerIntervalMS   int     `json:"timer_interval_ms"`
	UserEventCapacity int     `json:"user_event_capacity"`
	LogLevel          string  `json:"log_level"`
	LogFormat         string  `json:"log_format"`
}

// Default returns the settings used when the embedded file leaves a field
// empty.
func Default() Config {
	attrs := window.DefaultAttributes()
	return Config{
		Title:             attrs.Title,
		Width:             attrs.InnerSize.Width,
		Height:            attrs.InnerSize.Height,
		Backend:           BackendDesktop,
		ControlFlow:       control.Poll.String(),
		UserEventCapacity: 256,
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// Load reads FileName from r, overlays it on Default, applies environment
// overrides and validates the result.
func Load(r ContentReader) (Config, error) {
	cfg := Default()
	data, err := r.ReadFile(FileName)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", FileName, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", FileName, err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBackend)); v != "" {
		c.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvControlFlow)); v != "" {
		c.ControlFlow = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("config: title must not be empty")
	}
	if err := c.WindowAttributes().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Backend {
	case BackendDesktop, BackendGPU, BackendHeadless:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if _, err := control.Parse(c.ControlFlow); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.TimerIntervalMS < 0 {
		return fmt.Errorf("config: timer_interval_ms must not be negative")
	}
	if c.UserEventCapacity < 0 {
		return fmt.Errorf("config: user_event_capacity must not be negative")
	}
	return nil
}

// WindowAttributes returns the descriptor of the main window.
func (c Config) WindowAttributes() window.Attributes {
	return window.Attributes{
		Title:     c.Title,
		InnerSize: window.LogicalSize{Width: c.Width, Height: c.Height},
	}
}

// Flow returns the parsed control flow. Validate guarantees it parses.
func (c Config) Flow() control.Flow {
	f, _ := control.Parse(c.ControlFlow)
	return f
}

// TimerInterval returns the custom timer period, zero when disabled.
func (c Config) TimerInterval() time.Duration {
	return time.Duration(c.TimerIntervalMS) * time.Millisecond
}
