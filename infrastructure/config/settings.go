// Package config reads the run settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

// Seconds - a duration given either as a number of seconds ("15", "0.5") or
// as a Go duration ("1500ms")
type Seconds time.Duration

func (s *Seconds) Decode(value string) error {
	value = strings.TrimSpace(value)
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		*s = Seconds(time.Duration(f * float64(time.Second)))
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%q is neither seconds nor a duration", value)
	}
	*s = Seconds(d)
	return nil
}

func (s Seconds) Duration() time.Duration { return time.Duration(s) }

// Settings - everything a run needs to know about its surroundings. Read once
// at start-up and not changed afterwards.
type Settings struct {
	Environment string `envconfig:"ENVIRONMENT" default:"dev"`
	BaseURL     string `envconfig:"BASE_URL"`

	Browser  string `envconfig:"BROWSER" default:"chrome"`
	Backend  string `envconfig:"DRIVER_BACKEND" default:"selenium"`
	Headless string `envconfig:"HEADLESS"`

	DefaultTimeout   Seconds `envconfig:"DEFAULT_TIMEOUT" default:"10"`
	PollingFrequency Seconds `envconfig:"POLLING_FREQUENCY" default:"0.5"`
	ShortTimeout     Seconds `envconfig:"SHORT_TIMEOUT" default:"2"`
	PageLoadTimeout  Seconds `envconfig:"PAGE_LOAD_TIMEOUT" default:"30"`

	WindowWidth  int `envconfig:"WINDOW_WIDTH" default:"1920"`
	WindowHeight int `envconfig:"WINDOW_HEIGHT" default:"1080"`

	DriverPath   string `envconfig:"BROWSER_DRIVER_PATH"`
	ChromeBinary string `envconfig:"CHROME_BINARY_PATH"`
	RemoteURL    string `envconfig:"SELENIUM_REMOTE_URL"`
	DriverPort   int    `envconfig:"DRIVER_PORT" default:"9515"`

	ReportsDir string `envconfig:"REPORTS_DIR" default:"reports"`
	DataDir    string `envconfig:"DATA_DIR" default:"data"`
	LogLevel   string `envconfig:"LOG_LEVEL"`

	MaxRetries int     `envconfig:"MAX_RETRIES" default:"3"`
	RetryDelay Seconds `envconfig:"RETRY_DELAY" default:"1"`

	// filled in by resolve
	Env  Environment `ignored:"true"`
	IsCI bool        `ignored:"true"`
}

// Load - reads envFiles (".env" when none are given; missing files are
// skipped) into the process environment, then parses it
func Load(envFiles ...string) (*Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return Parse()
}

// Parse - settings from the current process environment
func Parse() (*Settings, error) {
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.resolve(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) resolve() error {
	env, _ := LookupEnvironment(s.Environment)
	s.Env = env
	s.Environment = env.Name

	if s.BaseURL == "" {
		s.BaseURL = env.BaseURL
	}
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	if s.LogLevel == "" {
		s.LogLevel = env.LogLevel
	}
	for _, name := range ciVariables {
		if os.Getenv(name) != "" {
			s.IsCI = true
			break
		}
	}

	s.Browser = strings.ToLower(s.Browser)
	s.Backend = strings.ToLower(s.Backend)

	var err error
	if s.DefaultTimeout <= 0 {
		err = multierr.Append(err, errors.New("DEFAULT_TIMEOUT must be positive"))
	}
	if s.ShortTimeout <= 0 {
		err = multierr.Append(err, errors.New("SHORT_TIMEOUT must be positive"))
	}
	if s.PollingFrequency <= 0 {
		err = multierr.Append(err, errors.New("POLLING_FREQUENCY must be positive"))
	}
	if s.MaxRetries < 0 {
		err = multierr.Append(err, errors.New("MAX_RETRIES must not be negative"))
	}
	if s.Headless != "" {
		if _, parseErr := strconv.ParseBool(s.Headless); parseErr != nil {
			err = multierr.Append(err, fmt.Errorf("HEADLESS %q is not a boolean", s.Headless))
		}
	}
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// IsHeadless - HEADLESS when set, otherwise headless in CI or when the
// environment asks for it
func (s *Settings) IsHeadless() bool {
	if s.Headless != "" {
		v, _ := strconv.ParseBool(s.Headless)
		return v
	}
	return s.Env.Headless || s.IsCI
}

func (s *Settings) ScreenshotsDir() string {
	return filepath.Join(s.ReportsDir, "screenshots")
}

func (s *Settings) HistoryPath() string {
	return filepath.Join(s.ReportsDir, "history.json")
}
