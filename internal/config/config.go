// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Device() DeviceConfig
	KeepAlive() KeepAliveConfig
	Humanoid() HumanoidConfig

	// Device Setters
	SetDeviceKind(kind string)
	SetDevicePort(port string)

	// Humanoid Setters
	SetHumanoidSeed(seed uint64)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	DeviceCfg    DeviceConfig    `mapstructure:"device" yaml:"device"`
	KeepAliveCfg KeepAliveConfig `mapstructure:"keepalive" yaml:"keepalive"`
	HumanoidCfg  HumanoidConfig  `mapstructure:"humanoid" yaml:"humanoid"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig       { return c.LoggerCfg }
func (c *Config) Device() DeviceConfig       { return c.DeviceCfg }
func (c *Config) KeepAlive() KeepAliveConfig { return c.KeepAliveCfg }
func (c *Config) Humanoid() HumanoidConfig   { return c.HumanoidCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetDeviceKind(kind string)   { c.DeviceCfg.Kind = kind }
func (c *Config) SetDevicePort(port string)   { c.DeviceCfg.Port = port }
func (c *Config) SetHumanoidSeed(seed uint64) { c.HumanoidCfg.Seed = seed }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// Device kinds accepted by device.kind.
const (
	DeviceSerial  = "serial"
	DeviceBrowser = "browser"
	DeviceNull    = "null"
)

// DeviceConfig describes the input sink and how access to it is arbitrated.
type DeviceConfig struct {
	Kind           string        `mapstructure:"kind" yaml:"kind"`
	Port           string        `mapstructure:"port" yaml:"port"`
	BaudRate       int           `mapstructure:"baud_rate" yaml:"baud_rate"`
	ScreenWidth    int           `mapstructure:"screen_width" yaml:"screen_width"`
	ScreenHeight   int           `mapstructure:"screen_height" yaml:"screen_height"`
	SafeMargin     int           `mapstructure:"safe_margin" yaml:"safe_margin"`
	FrameGap       time.Duration `mapstructure:"frame_gap" yaml:"frame_gap"`
	AcquireTimeout time.Duration `mapstructure:"acquire_timeout" yaml:"acquire_timeout"`
	BrowserURL     string        `mapstructure:"browser_url" yaml:"browser_url"`
	Headless       bool          `mapstructure:"headless" yaml:"headless"`
}

// KeepAliveConfig controls the background heartbeat.
type KeepAliveConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "minke")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Device --
	v.SetDefault("device.kind", DeviceSerial)
	v.SetDefault("device.port", "")
	v.SetDefault("device.baud_rate", 115200)
	v.SetDefault("device.screen_width", 1920)
	v.SetDefault("device.screen_height", 1080)
	v.SetDefault("device.safe_margin", 10)
	v.SetDefault("device.frame_gap", "5ms")
	v.SetDefault("device.acquire_timeout", "50ms")
	v.SetDefault("device.browser_url", "about:blank")
	v.SetDefault("device.headless", false)

	// -- Keep-alive --
	v.SetDefault("keepalive.enabled", true)
	v.SetDefault("keepalive.interval", "1s")

	// Initialize all Humanoid defaults using the centralized function in humanoid_config.go.
	setHumanoidDefaults(v)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.DeviceCfg.Validate(); err != nil {
		return fmt.Errorf("device configuration invalid: %w", err)
	}
	if c.KeepAliveCfg.Enabled && c.KeepAliveCfg.Interval <= 0 {
		return fmt.Errorf("keepalive.interval must be a positive duration")
	}
	if err := c.HumanoidCfg.Validate(); err != nil {
		return fmt.Errorf("humanoid configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the device settings. The serial port itself is only
// required when a serial device is actually opened.
func (d *DeviceConfig) Validate() error {
	switch d.Kind {
	case DeviceSerial, DeviceBrowser, DeviceNull:
	default:
		return fmt.Errorf("kind must be one of serial, browser, null (got %q)", d.Kind)
	}
	if d.BaudRate <= 0 {
		return fmt.Errorf("baud_rate must be a positive integer")
	}
	if d.ScreenWidth <= 0 || d.ScreenHeight <= 0 {
		return fmt.Errorf("screen_width and screen_height must be positive integers")
	}
	if d.SafeMargin < 0 || d.SafeMargin >= 32767/2 {
		return fmt.Errorf("safe_margin must be between 0 and 16382")
	}
	if d.FrameGap < 0 {
		return fmt.Errorf("frame_gap must not be negative")
	}
	if d.AcquireTimeout <= 0 {
		return fmt.Errorf("acquire_timeout must be a positive duration")
	}
	return nil
}
