package app

import (
	stderrors "errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/continuity/internal/schedule"
	"github.com/agentstation/continuity/pkg/constants"
	"github.com/agentstation/continuity/pkg/errors"
)

// EnvPrefix prefixes every environment override, e.g. CONTINUITY_SITE_DIR.
const EnvPrefix = "CONTINUITY"

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Provider settings
	Provider        string
	Model           string
	BaseURL         string
	GeminiAPIKey    string
	AnthropicAPIKey string
	GoogleProject   string
	GoogleLocation  string
	MaxTokens       int
	Temperature     float64

	// Think cycle settings
	ContextSize  int
	ThoughtsDir  string
	SiteDir      string
	IdentityFile string
	Schedule     string
	Interval     time.Duration

	Git   GitConfig
	Site  SiteConfig
	Serve ServeConfig

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// GitConfig controls commit-as-memory.
type GitConfig struct {
	Enabled     bool
	Init        bool
	Push        bool
	Remote      string
	Branch      string
	Token       string
	AuthorName  string
	AuthorEmail string
}

// SiteConfig controls the rendered site.
type SiteConfig struct {
	Title          string
	BaseURL        string
	PageSize       int
	RenderMarkdown bool
}

// ServeConfig controls the serve command.
type ServeConfig struct {
	Host      string
	Port      int
	APIKey    string
	RateLimit int
	CacheTTL  time.Duration
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (handled by cobra)
//  2. Environment variables (CONTINUITY_*, plus GEMINI_API_KEY,
//     ANTHROPIC_API_KEY, GITHUB_TOKEN and GOOGLE_CLOUD_PROJECT/LOCATION)
//  3. .env and .env.local files
//  4. Config file (configFile, or .continuity.yaml in the working or home directory)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".continuity")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !stderrors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "failed to read config file", err)
		}
	}

	cfg := &Config{
		ConfigFile: v.ConfigFileUsed(),

		Provider:        strings.ToLower(v.GetString("provider")),
		Model:           v.GetString("model"),
		BaseURL:         v.GetString("base_url"),
		GeminiAPIKey:    v.GetString("gemini_api_key"),
		AnthropicAPIKey: v.GetString("anthropic_api_key"),
		GoogleProject:   v.GetString("google_cloud_project"),
		GoogleLocation:  v.GetString("google_cloud_location"),
		MaxTokens:       v.GetInt("max_tokens"),
		Temperature:     v.GetFloat64("temperature"),

		ContextSize:  v.GetInt("context_size"),
		ThoughtsDir:  v.GetString("thoughts_dir"),
		SiteDir:      v.GetString("site_dir"),
		IdentityFile: v.GetString("identity_file"),
		Schedule:     v.GetString("schedule"),
		Interval:     v.GetDuration("interval"),

		Git: GitConfig{
			Enabled:     v.GetBool("git.enabled"),
			Init:        v.GetBool("git.init"),
			Push:        v.GetBool("git.push"),
			Remote:      v.GetString("git.remote"),
			Branch:      v.GetString("git.branch"),
			Token:       v.GetString("git.token"),
			AuthorName:  v.GetString("git.author_name"),
			AuthorEmail: v.GetString("git.author_email"),
		},
		Site: SiteConfig{
			Title:          v.GetString("site.title"),
			BaseURL:        v.GetString("site.base_url"),
			PageSize:       v.GetInt("site.page_size"),
			RenderMarkdown: v.GetBool("site.render_markdown"),
		},
		Serve: ServeConfig{
			Host:      v.GetString("serve.host"),
			Port:      v.GetInt("serve.port"),
			APIKey:    v.GetString("serve.api_key"),
			RateLimit: v.GetInt("serve.rate_limit"),
			CacheTTL:  v.GetDuration("serve.cache_ttl"),
		},

		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a think cycle.
func (c *Config) Validate() error {
	if c.ContextSize <= 0 {
		return errors.NewValidationError("context_size", c.ContextSize, "must be positive")
	}
	if c.MaxTokens <= 0 {
		return errors.NewValidationError("max_tokens", c.MaxTokens, "must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.NewValidationError("temperature", c.Temperature, "must be between 0 and 2")
	}
	_, err := c.ScheduleSpec()
	return err
}

// ScheduleSpec returns the think schedule. An interval takes precedence
// over the cron schedule.
func (c *Config) ScheduleSpec() (schedule.Spec, error) {
	if c.Interval != 0 {
		spec := schedule.Spec{Interval: c.Interval}
		return spec, spec.Validate()
	}
	return schedule.Parse(c.Schedule)
}

// UpdateFromFlags applies parsed global flags. Flags take precedence over
// config files and environment variables.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("max_tokens", constants.DefaultMaxTokens)
	v.SetDefault("temperature", constants.DefaultTemperature)
	v.SetDefault("context_size", constants.DefaultContextSize)
	v.SetDefault("thoughts_dir", constants.DefaultThoughtsDir)
	v.SetDefault("site_dir", constants.DefaultSiteDir)
	v.SetDefault("schedule", constants.DefaultSchedule)

	v.SetDefault("git.enabled", true)
	v.SetDefault("git.remote", constants.DefaultRemote)
	v.SetDefault("git.author_name", constants.DefaultAuthorName)
	v.SetDefault("git.author_email", constants.DefaultAuthorEmail)

	v.SetDefault("site.page_size", constants.DefaultPageSize)

	v.SetDefault("serve.host", "localhost")
	v.SetDefault("serve.port", 8080)
	v.SetDefault("serve.rate_limit", 100)
	v.SetDefault("serve.cache_ttl", 5*time.Minute)
}

// bindEnv binds the conventional variable names next to their prefixed forms.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"gemini_api_key":    {EnvPrefix + "_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"anthropic_api_key": {EnvPrefix + "_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"},
		"git.token":         {EnvPrefix + "_GIT_TOKEN", "GITHUB_TOKEN"},

		"google_cloud_project":  {EnvPrefix + "_GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_PROJECT"},
		"google_cloud_location": {EnvPrefix + "_GOOGLE_CLOUD_LOCATION", "GOOGLE_CLOUD_LOCATION"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return errors.NewConfigError("env", "failed to bind "+key, err)
		}
	}
	return nil
}

// loadEnvFiles loads .env then .env.local. Existing variables win.
func loadEnvFiles() {
	for _, file := range []string{".env", ".env.local"} {
		_ = godotenv.Load(file)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
