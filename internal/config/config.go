// Package config loads the rps HCL configuration file.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/lox/rps/internal/gesture"
	"github.com/lox/rps/internal/round"
)

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "rps.hcl"

// Gesture source kinds
const (
	SourceFeed     = "feed"
	SourceKeyboard = "keyboard"
	SourceRandom   = "random"
)

// Config is the complete rps configuration
type Config struct {
	Game    *GameSettings    `hcl:"game,block"`
	Gesture *GestureSettings `hcl:"gesture,block"`
	Feed    *FeedSettings    `hcl:"feed,block"`
	Log     *LogSettings     `hcl:"log,block"`
}

// GameSettings holds the round engine constants
type GameSettings struct {
	WinningScore   int   `hcl:"winning_score,optional"`
	Countdown      int   `hcl:"countdown,optional"`
	TickMillis     int   `hcl:"tick_ms,optional"`
	CaptureDelayMs int   `hcl:"capture_delay_ms,optional"`
	Seed           int64 `hcl:"seed,optional"`
}

// GestureSettings selects and tunes the player's gesture source
type GestureSettings struct {
	Source        string        `hcl:"source,optional"`
	MinConfidence *float64      `hcl:"min_confidence,optional"`
	StaleAfterMs  *int          `hcl:"stale_after_ms,optional"`
	NoHandRate    float64       `hcl:"no_hand_rate,optional"`
	Labels        []LabelConfig `hcl:"label,block"`
}

const (
	defaultMinConfidence = 0.5
	defaultStaleAfterMs  = 1000
)

// Confidence returns min_confidence. Unset means 0.5; an explicit 0
// accepts every classification.
func (g *GestureSettings) Confidence() float64 {
	if g == nil || g.MinConfidence == nil {
		return defaultMinConfidence
	}
	return *g.MinConfidence
}

// StaleAfter returns stale_after_ms as a duration. Unset means one second;
// an explicit 0 disables the staleness check.
func (g *GestureSettings) StaleAfter() time.Duration {
	ms := defaultStaleAfterMs
	if g != nil && g.StaleAfterMs != nil {
		ms = *g.StaleAfterMs
	}
	return time.Duration(ms) * time.Millisecond
}

func ptr[T any](v T) *T { return &v }

// LabelConfig maps one classifier label to a move
type LabelConfig struct {
	Name string `hcl:"name,label"`
	Move string `hcl:"move"`
}

// FeedSettings configures the WebSocket bridge
type FeedSettings struct {
	Address        string   `hcl:"address,optional"`
	Port           int      `hcl:"port,optional"`
	AllowedOrigins []string `hcl:"allowed_origins,optional"`
	Token          string   `hcl:"token,optional"`
}

// LogSettings configures logging
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// Default returns the default configuration
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and applies defaults for missing values.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	if c.Game.WinningScore == 0 {
		c.Game.WinningScore = round.DefaultWinningScore
	}
	if c.Game.Countdown == 0 {
		c.Game.Countdown = round.DefaultCountdown
	}
	if c.Game.TickMillis == 0 {
		c.Game.TickMillis = int(round.DefaultTick / time.Millisecond)
	}
	if c.Game.CaptureDelayMs == 0 {
		c.Game.CaptureDelayMs = int(round.DefaultCaptureDelay / time.Millisecond)
	}

	if c.Gesture == nil {
		c.Gesture = &GestureSettings{}
	}
	if c.Gesture.Source == "" {
		c.Gesture.Source = SourceFeed
	}
	if c.Gesture.MinConfidence == nil {
		c.Gesture.MinConfidence = ptr(defaultMinConfidence)
	}
	if c.Gesture.StaleAfterMs == nil {
		c.Gesture.StaleAfterMs = ptr(defaultStaleAfterMs)
	}
	if c.Gesture.Labels == nil {
		c.Gesture.Labels = []LabelConfig{}
	}

	if c.Feed == nil {
		c.Feed = &FeedSettings{}
	}
	if c.Feed.Address == "" {
		c.Feed.Address = "localhost"
	}
	if c.Feed.Port == 0 {
		c.Feed.Port = 8765
	}
	if c.Feed.AllowedOrigins == nil {
		c.Feed.AllowedOrigins = []string{}
	}

	if c.Log == nil {
		c.Log = &LogSettings{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.File == "" {
		c.Log.File = "rps.log"
	}
}

// Validate checks the configuration for values the game cannot run with
func (c *Config) Validate() error {
	if err := c.Round().Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}

	switch c.Gesture.Source {
	case SourceFeed, SourceKeyboard, SourceRandom:
	default:
		return fmt.Errorf("gesture: invalid source %q", c.Gesture.Source)
	}
	if conf := c.Gesture.Confidence(); !(conf >= 0 && conf <= 1) {
		return fmt.Errorf("gesture: min_confidence must be between 0 and 1, got %g", conf)
	}
	if rate := c.Gesture.NoHandRate; !(rate >= 0 && rate < 1) {
		return fmt.Errorf("gesture: no_hand_rate must be in [0, 1), got %g", rate)
	}
	if c.Gesture.StaleAfterMs != nil && *c.Gesture.StaleAfterMs < 0 {
		return fmt.Errorf("gesture: stale_after_ms must not be negative, got %d", *c.Gesture.StaleAfterMs)
	}
	if _, err := c.Labels(); err != nil {
		return fmt.Errorf("gesture: %w", err)
	}

	if c.Feed.Port < 1 || c.Feed.Port > 65535 {
		return fmt.Errorf("feed: invalid port: %d", c.Feed.Port)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	return nil
}

// Round returns the engine constants
func (c *Config) Round() round.Config {
	return round.Config{
		WinningScore:  c.Game.WinningScore,
		CountdownFrom: c.Game.Countdown,
		Tick:          time.Duration(c.Game.TickMillis) * time.Millisecond,
		CaptureDelay:  time.Duration(c.Game.CaptureDelayMs) * time.Millisecond,
	}
}

// Labels returns the default classifier labels with configured overrides.
func (c *Config) Labels() (gesture.Labels, error) {
	pairs := make(map[string]string, len(c.Gesture.Labels))
	for _, l := range c.Gesture.Labels {
		if _, dup := pairs[l.Name]; dup {
			return nil, fmt.Errorf("label %q defined more than once", l.Name)
		}
		pairs[l.Name] = l.Move
	}
	overrides, err := gesture.ParseLabels(pairs)
	if err != nil {
		return nil, err
	}
	return gesture.DefaultLabels().Merge(overrides), nil
}

// GestureOptions returns options for a gesture.Latest source.
func (c *Config) GestureOptions() (gesture.Options, error) {
	labels, err := c.Labels()
	if err != nil {
		return gesture.Options{}, err
	}
	return gesture.Options{
		Labels:        labels,
		MinConfidence: c.Gesture.Confidence(),
		StaleAfter:    c.Gesture.StaleAfter(),
	}, nil
}

// FeedAddress returns the listen address of the WebSocket bridge
func (c *Config) FeedAddress() string {
	return net.JoinHostPort(c.Feed.Address, strconv.Itoa(c.Feed.Port))
}

// Encode renders the configuration as HCL.
func (c *Config) Encode() []byte {
	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(c, f.Body())
	return hclwrite.Format(f.Bytes())
}
