// Package config loads run settings from ratescout.yaml, the environment and
// an optional .env file, and checks credentials before anything touches the
// network.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // the reference zone must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/shanehull/ratescout/internal/dates"
	"github.com/shanehull/ratescout/internal/llm"
	"github.com/shanehull/ratescout/internal/model"
	"github.com/spf13/viper"
)

var ErrMissingCredential = errors.New("missing credential")

type Config struct {
	Place        model.Place   `mapstructure:"place"`
	Hotels       []model.Hotel `mapstructure:"hotels"`
	Timezone     string        `mapstructure:"timezone"`
	FridayPolicy string        `mapstructure:"friday_policy"`
	OutputDir    string        `mapstructure:"output_dir"`
	ReportFile   string        `mapstructure:"report_file"`
	Snapshots    bool          `mapstructure:"snapshots"`
	Pause        time.Duration `mapstructure:"pause"`
	Timeout      time.Duration `mapstructure:"timeout"`

	SerpAPI   SerpAPIConfig   `mapstructure:"serpapi"`
	Expedia   ExpediaConfig   `mapstructure:"expedia"`
	Extractor ExtractorConfig `mapstructure:"extractor"`

	Credentials Credentials `mapstructure:"credentials"`
}

type SerpAPIConfig struct {
	Engine  string `mapstructure:"engine"`
	BaseURL string `mapstructure:"base_url"`
}

type ExpediaConfig struct {
	Host    string `mapstructure:"host"`
	BaseURL string `mapstructure:"base_url"`
}

type ExtractorConfig struct {
	// Provider is one of none, openrouter, openai, claude, gemini. Empty picks
	// the first provider with a key.
	Provider       string `mapstructure:"provider"`
	Model          string `mapstructure:"model"`
	BaseURL        string `mapstructure:"base_url"`
	MaxPromptBytes int    `mapstructure:"max_prompt_bytes"`
}

type Credentials struct {
	SerpAPI    string `mapstructure:"serpapi"`
	RapidAPI   string `mapstructure:"rapidapi"`
	OpenRouter string `mapstructure:"openrouter"`
	OpenAI     string `mapstructure:"openai"`
	Claude     string `mapstructure:"claude"`
	Gemini     string `mapstructure:"gemini"`
}

var credentialEnv = map[string][]string{
	"credentials.serpapi":    {"SERPAPI_KEY"},
	"credentials.rapidapi":   {"RAPIDAPI_KEY", "RAPIDAI_API_KEY"},
	"credentials.openrouter": {"OPENROUTER_API_KEY"},
	"credentials.openai":     {"OPENAI_API_KEY"},
	"credentials.claude":     {"CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
	"credentials.gemini":     {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
}

func DefaultHotels() []model.Hotel {
	return []model.Hotel{
		{Name: "Courtyard Beckley"},
		{Name: "Hampton Inn Beckley"},
		{Name: "Tru by Hilton Beckley"},
		{Name: "Fairfield Inn Beckley"},
		{Name: "Best Western Beckley"},
		{Name: "Country Inn Beckley", Query: "Country Inn and Suites Beckley"},
		{Name: "Comfort Inn Beckley"},
	}
}

func setDefaults(v *viper.Viper) {
	var hotels []map[string]any
	for _, h := range DefaultHotels() {
		hotels = append(hotels, map[string]any{"name": h.Name, "query": h.Query})
	}
	v.SetDefault("hotels", hotels)
	v.SetDefault("place.city", "Beckley")
	v.SetDefault("place.state", "WV")
	v.SetDefault("place.country", "United States")
	v.SetDefault("timezone", "America/New_York")
	v.SetDefault("friday_policy", string(dates.Inclusive))
	v.SetDefault("output_dir", "data")
	v.SetDefault("report_file", "beckley_rates.json")
	v.SetDefault("snapshots", true)
	v.SetDefault("pause", 1500*time.Millisecond)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("serpapi.engine", "google")
	v.SetDefault("serpapi.base_url", "")
	v.SetDefault("expedia.host", "expedia1.p.rapidapi.com")
	v.SetDefault("expedia.base_url", "")
	v.SetDefault("extractor.provider", "")
	v.SetDefault("extractor.model", "")
	v.SetDefault("extractor.base_url", "")
	v.SetDefault("extractor.max_prompt_bytes", 12000)
}

// Load reads the config file at path, or ratescout.yaml in the working
// directory when path is empty. A missing default file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("RATESCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range credentialEnv {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("ratescout")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// ExtractorProvider resolves an empty provider to the first one with a key,
// or llm.None.
func (c *Config) ExtractorProvider() (llm.Provider, error) {
	p, err := llm.ParseProvider(c.Extractor.Provider)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(c.Extractor.Provider) != "" {
		return p, nil
	}
	for _, candidate := range []llm.Provider{llm.OpenRouter, llm.OpenAI, llm.Claude, llm.Gemini} {
		if c.ExtractorKey(candidate) != "" {
			return candidate, nil
		}
	}
	return llm.None, nil
}

func (c *Config) ExtractorKey(p llm.Provider) string {
	switch p {
	case llm.OpenRouter:
		return c.Credentials.OpenRouter
	case llm.OpenAI:
		return c.Credentials.OpenAI
	case llm.Claude:
		return c.Credentials.Claude
	case llm.Gemini:
		return c.Credentials.Gemini
	}
	return ""
}

// Validate fails on anything that would otherwise surface mid-run.
func (c *Config) Validate() error {
	if c.Credentials.SerpAPI == "" {
		return fmt.Errorf("%w: SERPAPI_KEY is not set", ErrMissingCredential)
	}
	p, err := c.ExtractorProvider()
	if err != nil {
		return err
	}
	if p != llm.None && c.ExtractorKey(p) == "" {
		return fmt.Errorf("%w: extractor %s has no API key (%s)", ErrMissingCredential, p, envFor(p))
	}
	if len(c.Hotels) == 0 {
		return errors.New("no hotels configured")
	}
	for i, h := range c.Hotels {
		if strings.TrimSpace(h.Name) == "" {
			return fmt.Errorf("hotel #%d has no name", i+1)
		}
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	if _, err := dates.ParsePolicy(c.FridayPolicy); err != nil {
		return err
	}
	if c.Pause < 0 {
		return fmt.Errorf("pause must not be negative, got %s", c.Pause)
	}
	return nil
}

func envFor(p llm.Provider) string {
	return strings.Join(credentialEnv["credentials."+string(p)], " or ")
}
