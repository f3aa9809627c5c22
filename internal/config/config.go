// Package config handles organizer configuration: an optional YAML file,
// a .env file and environment overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/PabloGalante/organizer-agent/internal/domain"
)

type Backend string

const (
	BackendGemini Backend = "gemini"
	BackendVertex Backend = "vertex"
	BackendMock   Backend = "mock"
)

type Config struct {
	Listen    ListenConfig    `yaml:"listen"`
	Model     ModelConfig     `yaml:"model"`
	Organizer OrganizerConfig `yaml:"organizer"`
	Reminders RemindersConfig `yaml:"reminders"`
	LogLevel  string          `yaml:"log_level"`
	LogFormat string          `yaml:"log_format"` // json or text
}

type ListenConfig struct {
	Address string `yaml:"address"` // Bind address (default: "" = all interfaces)
	Port    int    `yaml:"port"`
}

// Addr returns the host:port the HTTP server binds to.
func (l ListenConfig) Addr() string {
	return l.Address + ":" + strconv.Itoa(l.Port)
}

type ModelConfig struct {
	Backend  Backend `yaml:"backend"`
	Name     string  `yaml:"name"`
	APIKey   string  `yaml:"api_key"`
	Project  string  `yaml:"project"`
	Location string  `yaml:"location"`
	// MaxToolCalls bounds the tool calls made while answering one message.
	MaxToolCalls int     `yaml:"max_tool_calls"`
	Temperature  float32 `yaml:"temperature"`
}

type OrganizerConfig struct {
	CurrentUser   string `yaml:"current_user"`
	EmailDomain   string `yaml:"email_domain"`
	AvatarBaseURL string `yaml:"avatar_base_url"`
	SeedDemo      bool   `yaml:"seed_demo"`
	Timezone      string `yaml:"timezone"` // IANA name, empty = local
}

// Location resolves the configured timezone.
func (o OrganizerConfig) Location() (*time.Location, error) {
	if o.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(o.Timezone)
}

type RemindersConfig struct {
	Enabled   bool             `yaml:"enabled"`
	Schedule  string           `yaml:"schedule"` // cron spec, e.g. "@every 1m"
	Deadlines PreferenceConfig `yaml:"deadlines"`
	Events    PreferenceConfig `yaml:"events"`
}

type PreferenceConfig struct {
	Amount float64 `yaml:"amount"`
	Unit   string  `yaml:"unit"`
}

// Preference converts the config value to the domain type.
func (p PreferenceConfig) Preference() domain.NotificationPreference {
	return domain.NotificationPreference{Amount: p.Amount, Unit: domain.TimeUnit(p.Unit)}
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Listen: ListenConfig{Port: 8080},
		Model: ModelConfig{
			Backend:      BackendGemini,
			Name:         "gemini-2.5-flash",
			Location:     "us-central1",
			MaxToolCalls: 8,
		},
		Organizer: OrganizerConfig{
			CurrentUser:   "Me",
			EmailDomain:   "university.edu",
			AvatarBaseURL: "https://i.pravatar.cc/150?u=",
		},
		Reminders: RemindersConfig{
			Enabled:   true,
			Schedule:  "@every 1m",
			Deadlines: PreferenceConfig{Amount: 2, Unit: string(domain.UnitDays)},
			Events:    PreferenceConfig{Amount: 1, Unit: string(domain.UnitHours)},
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// DefaultSearchPaths returns the config file search order.
func DefaultSearchPaths() []string {
	paths := []string{"organizer.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "organizer", "config.yaml"))
	}
	return paths
}

// FindConfig locates a config file. An explicit path must exist. Without
// one, the first existing default path is returned, or "" if none exists;
// running without a file is allowed.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// LoadDotEnv loads variables from .env files into the process environment.
// Missing files are ignored; existing variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load builds the configuration from defaults, the YAML file at path (if
// any, with ${VAR} expansion) and environment overrides, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ORGANIZER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ORGANIZER_PORT: %w", err)
		}
		c.Listen.Port = port
	}

	c.Model.Backend = Backend(getEnv("ORGANIZER_MODEL_BACKEND", string(c.Model.Backend)))
	if getBoolEnv("ORGANIZER_USE_MOCK_LLM", false) {
		c.Model.Backend = BackendMock
	}
	c.Model.Name = getEnv("ORGANIZER_MODEL_NAME", c.Model.Name)
	c.Model.APIKey = getEnv("GEMINI_API_KEY", c.Model.APIKey)
	c.Model.Project = getEnv("ORGANIZER_GCP_PROJECT", c.Model.Project)
	c.Model.Location = getEnv("ORGANIZER_GCP_LOCATION", c.Model.Location)

	c.Organizer.CurrentUser = getEnv("ORGANIZER_CURRENT_USER", c.Organizer.CurrentUser)
	c.Organizer.Timezone = getEnv("ORGANIZER_TIMEZONE", c.Organizer.Timezone)
	c.Organizer.SeedDemo = getBoolEnv("ORGANIZER_SEED_DEMO", c.Organizer.SeedDemo)

	c.LogLevel = getEnv("ORGANIZER_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("ORGANIZER_LOG_FORMAT", c.LogFormat)
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Listen.Port <= 0 || c.Listen.Port > 65535 {
		return fmt.Errorf("listen.port %d out of range", c.Listen.Port)
	}

	switch c.Model.Backend {
	case BackendGemini:
		if c.Model.APIKey == "" {
			return errors.New("model.api_key (or GEMINI_API_KEY) must be set for the gemini backend")
		}
	case BackendVertex:
		if c.Model.Project == "" {
			return errors.New("model.project (or ORGANIZER_GCP_PROJECT) must be set for the vertex backend")
		}
	case BackendMock:
	default:
		return fmt.Errorf("unknown model.backend %q (valid: gemini, vertex, mock)", c.Model.Backend)
	}
	if c.Model.Name == "" {
		return errors.New("model.name must be set")
	}
	if c.Model.MaxToolCalls < 1 {
		return fmt.Errorf("model.max_tool_calls must be at least 1, got %d", c.Model.MaxToolCalls)
	}

	if c.Organizer.CurrentUser == "" {
		return errors.New("organizer.current_user must be set")
	}
	if _, err := c.Organizer.Location(); err != nil {
		return fmt.Errorf("organizer.timezone: %w", err)
	}

	if c.Reminders.Enabled {
		if _, err := cron.ParseStandard(c.Reminders.Schedule); err != nil {
			return fmt.Errorf("reminders.schedule: %w", err)
		}
	}
	if err := c.Reminders.Deadlines.Preference().Validate(domain.CategoryDeadlines); err != nil {
		return fmt.Errorf("reminders.deadlines: %w", err)
	}
	if err := c.Reminders.Events.Preference().Validate(domain.CategoryEvents); err != nil {
		return fmt.Errorf("reminders.events: %w", err)
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}
