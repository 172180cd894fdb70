package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yazgoo/blockish-raycasting/internal/mathutil"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid value")

// Config holds every tunable of the client and the server.
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	Render   RenderConfig   `yaml:"render"`
	Camera   CameraConfig   `yaml:"camera"`
	Movement MovementConfig `yaml:"movement"`
	Assets   AssetsConfig   `yaml:"assets"`
	Network  NetworkConfig  `yaml:"network"`
	Level    LevelConfig    `yaml:"level"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
	Scale        int    `yaml:"scale"`
	ShowStats    bool   `yaml:"show_stats"`

	// FrameBudgetMS is the frame time above which a performance alert is
	// logged.
	FrameBudgetMS float64 `yaml:"frame_budget_ms"`
}

type RenderConfig struct {
	TextureSize       int     `yaml:"texture_size"`
	SpriteSize        int     `yaml:"sprite_size"`
	Workers           int     `yaml:"workers"`
	PortalThreshold   float64 `yaml:"portal_threshold"`
	PortalBorderWidth int     `yaml:"portal_border_width"`
	// AnimationIntervalMS is the time between two frames of animated props.
	AnimationIntervalMS int `yaml:"animation_interval_ms"`
}

type CameraConfig struct {
	FieldOfView float64 `yaml:"field_of_view"`
}

type MovementConfig struct {
	MoveSpeed     float64 `yaml:"move_speed"`
	RotationSpeed float64 `yaml:"rotation_speed"`
}

type AssetsConfig struct {
	Textures      string   `yaml:"textures"`
	CoinFrames    []string `yaml:"coin_frames"`
	TorchFrames   []string `yaml:"torch_frames"`
	AvatarTexture string   `yaml:"avatar_texture"`
	TeleportSound string   `yaml:"teleport_sound"`
	CoinSound     string   `yaml:"coin_sound"`
	FontSize      float64  `yaml:"font_size"`
}

type NetworkConfig struct {
	ServerURL      string `yaml:"server_url"`
	Nickname       string `yaml:"nickname"`
	SendIntervalMS int    `yaml:"send_interval_ms"`
	ListenAddress  string `yaml:"listen_address"`
	// ClientTimeoutS evicts players the server has not heard from.
	ClientTimeoutS int `yaml:"client_timeout_s"`
	CoinsToWin     int `yaml:"coins_to_win"`
	GoldCoins      int `yaml:"gold_coins"`
	TextSeconds    int `yaml:"text_seconds"`
}

type LevelConfig struct {
	Path string `yaml:"path"`
}

// LoadConfig reads, defaults and validates a YAML config file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes, defaults and validates YAML config data.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// Default returns a config with every default applied.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	setInt(&c.Display.ScreenWidth, 640)
	setInt(&c.Display.ScreenHeight, 320)
	setInt(&c.Display.Scale, 2)
	if c.Display.WindowTitle == "" {
		c.Display.WindowTitle = "blockish raycasting"
	}
	setFloat(&c.Display.FrameBudgetMS, 1000.0/60)

	setInt(&c.Render.TextureSize, 64)
	setInt(&c.Render.SpriteSize, 32)
	setInt(&c.Render.Workers, 1)
	setFloat(&c.Render.PortalThreshold, 7.0)
	setInt(&c.Render.PortalBorderWidth, 3)
	setInt(&c.Render.AnimationIntervalMS, 500)

	// A 0.66 camera plane.
	setFloat(&c.Camera.FieldOfView, 2*math.Atan(0.66)*180/math.Pi)

	setFloat(&c.Movement.MoveSpeed, 3.0)
	setFloat(&c.Movement.RotationSpeed, 2.0)

	setFloat(&c.Assets.FontSize, 12)

	if c.Network.ServerURL == "" {
		c.Network.ServerURL = "ws://localhost:8080/play"
	}
	if c.Network.Nickname == "" {
		c.Network.Nickname = "player"
	}
	if c.Network.ListenAddress == "" {
		c.Network.ListenAddress = ":8080"
	}
	setInt(&c.Network.SendIntervalMS, 500)
	setInt(&c.Network.ClientTimeoutS, 20)
	setInt(&c.Network.CoinsToWin, 3)
	setInt(&c.Network.GoldCoins, 1)
	setInt(&c.Network.TextSeconds, 10)

	if c.Level.Path == "" {
		c.Level.Path = "assets/levels/first.yaml"
	}
}

// Validate rejects values the renderer or the server cannot work with.
func (c *Config) Validate() error {
	if c.Display.ScreenWidth <= 0 || c.Display.ScreenHeight <= 0 {
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalidConfig, c.Display.ScreenWidth, c.Display.ScreenHeight)
	}
	if c.Display.Scale <= 0 {
		return fmt.Errorf("%w: display scale %d", ErrInvalidConfig, c.Display.Scale)
	}
	if c.Display.FrameBudgetMS < 0 {
		return fmt.Errorf("%w: frame budget %vms", ErrInvalidConfig, c.Display.FrameBudgetMS)
	}
	if !mathutil.IsPowerOfTwo(c.Render.TextureSize) {
		return fmt.Errorf("%w: texture size %d is not a power of two", ErrInvalidConfig, c.Render.TextureSize)
	}
	if !mathutil.IsPowerOfTwo(c.Render.SpriteSize) {
		return fmt.Errorf("%w: sprite size %d is not a power of two", ErrInvalidConfig, c.Render.SpriteSize)
	}
	if c.Render.Workers < 1 {
		return fmt.Errorf("%w: render workers %d", ErrInvalidConfig, c.Render.Workers)
	}
	if c.Render.PortalThreshold <= 0 || c.Render.PortalBorderWidth < 0 {
		return fmt.Errorf("%w: portal threshold %v border %d", ErrInvalidConfig,
			c.Render.PortalThreshold, c.Render.PortalBorderWidth)
	}
	if c.Camera.FieldOfView <= 0 || c.Camera.FieldOfView >= 180 {
		return fmt.Errorf("%w: field of view %v", ErrInvalidConfig, c.Camera.FieldOfView)
	}
	if c.Network.CoinsToWin < 1 {
		return fmt.Errorf("%w: coins to win %d", ErrInvalidConfig, c.Network.CoinsToWin)
	}
	return nil
}

func setInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func setFloat(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

// Helper functions for easy access to commonly used values
func (c *Config) GetScreenWidth() int {
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	return c.Display.ScreenHeight
}

func (c *Config) GetMoveSpeed() float64 {
	return c.Movement.MoveSpeed
}

func (c *Config) GetRotSpeed() float64 {
	return c.Movement.RotationSpeed
}

func (c *Config) GetSendInterval() time.Duration {
	return time.Duration(c.Network.SendIntervalMS) * time.Millisecond
}

func (c *Config) GetFrameBudget() time.Duration {
	return time.Duration(c.Display.FrameBudgetMS * float64(time.Millisecond))
}

func (c *Config) GetAnimationInterval() time.Duration {
	return time.Duration(c.Render.AnimationIntervalMS) * time.Millisecond
}

func (c *Config) GetClientTimeout() time.Duration {
	return time.Duration(c.Network.ClientTimeoutS) * time.Second
}

func (c *Config) GetTextDuration() time.Duration {
	return time.Duration(c.Network.TextSeconds) * time.Second
}
