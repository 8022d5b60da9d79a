package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/sowilo/internal/faq"
	"github.com/starford/sowilo/internal/music"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	FAQ      FAQConfig         `yaml:"faq"`
	Music    MusicConfig       `yaml:"music"`
	Delays   DelaysConfig      `yaml:"delays"`
	Sessions SessionsConfig    `yaml:"sessions"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	sections := []struct {
		name string
		v    validation.Validatable
	}{
		{"app", &c.App},
		{"faq", &c.FAQ},
		{"music", &c.Music},
		{"delays", &c.Delays},
		{"sessions", &c.Sessions},
		{"sqlite", &c.SQLite},
		{"auth", &c.Auth},
	}
	for _, s := range sections {
		if err := s.v.Validate(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port      int             `yaml:"port"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.RateLimit),
	)
}

// RateLimitConfig is a token bucket shared by all API requests.
// RequestsPerSecond 0 disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Validate validates the rate limit configuration.
func (c RateLimitConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.RequestsPerSecond, validation.Min(0.0)),
		validation.Field(&c.Burst, validation.Min(0)),
	)
}

// FAQConfig configures the knowledge base and the matcher.
type FAQConfig struct {
	// KnowledgeBase is a .json/.yaml file or a directory of Markdown entries.
	// Empty selects the built-in FAQ.
	KnowledgeBase string  `yaml:"knowledge_base"`
	Threshold     float64 `yaml:"threshold"`
	Fallback      string  `yaml:"fallback"`
	Greeting      string  `yaml:"greeting"`
}

// Validate validates the FAQ configuration.
func (c *FAQConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Threshold, validation.Min(0.0), validation.Max(1.0).Exclusive()),
		validation.Field(&c.Fallback, validation.Required),
	)
}

// MusicConfig bounds generation requests.
type MusicConfig struct {
	MinLength     int    `yaml:"min_length"`
	MaxLength     int    `yaml:"max_length"`
	DefaultLength int    `yaml:"default_length"`
	DefaultStyle  string `yaml:"default_style"`
	SampleRate    int    `yaml:"sample_rate"`
}

// Validate validates the music configuration.
func (c *MusicConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.MinLength, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxLength, validation.Required, validation.Min(c.MinLength)),
		validation.Field(&c.DefaultLength, validation.Required, validation.Min(c.MinLength), validation.Max(c.MaxLength)),
		validation.Field(&c.SampleRate, validation.Required, validation.Min(8000), validation.Max(192000)),
	); err != nil {
		return err
	}
	_, err := music.ParseStyle(c.DefaultStyle)
	return err
}

// Style returns the parsed default style. Call after Validate.
func (c *MusicConfig) Style() music.Style {
	s, _ := music.ParseStyle(c.DefaultStyle)
	return s
}

// DelaysConfig sets the simulated processing times.
type DelaysConfig struct {
	ChatReply  time.Duration `yaml:"chat_reply"`
	Generation time.Duration `yaml:"generation"`
}

// Validate validates the delays configuration.
func (c *DelaysConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ChatReply, validation.Min(time.Duration(0)), validation.Max(time.Minute)),
		validation.Field(&c.Generation, validation.Min(time.Duration(0)), validation.Max(time.Minute)),
	)
}

// SessionsConfig bounds the in-memory session store.
type SessionsConfig struct {
	Max int `yaml:"max"`
}

// Validate validates the sessions configuration.
func (c *SessionsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Max, validation.Min(0)),
	)
}

// SQLiteConfig holds the suggestion index location. ":memory:" keeps it
// in process.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
				RateLimit: RateLimitConfig{
					RequestsPerSecond: 20,
					Burst:             40,
				},
			},
		},
		FAQ: FAQConfig{
			Threshold: faq.DefaultThreshold,
			Fallback:  faq.DefaultFallback,
			Greeting:  faq.DefaultGreeting,
		},
		Music: MusicConfig{
			MinLength:     20,
			MaxLength:     100,
			DefaultLength: 50,
			DefaultStyle:  string(music.StyleClassical),
			SampleRate:    44100,
		},
		Delays: DelaysConfig{
			ChatReply:  time.Second,
			Generation: 2 * time.Second,
		},
		Sessions: SessionsConfig{
			Max: 1000,
		},
		SQLite: SQLiteConfig{
			Path: ":memory:",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
