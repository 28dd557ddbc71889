package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shanehull/ratescout/internal/llm"
)

func clearCredentials(t *testing.T) {
	t.Helper()
	for _, envs := range credentialEnv {
		for _, e := range envs {
			t.Setenv(e, "")
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearCredentials(t)
	t.Setenv("SERPAPI_KEY", "serp")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Hotels) != 7 || cfg.Hotels[5].Query != "Country Inn and Suites Beckley" {
		t.Errorf("hotels = %+v", cfg.Hotels)
	}
	if cfg.Place.City != "Beckley" || cfg.Place.State != "WV" {
		t.Errorf("place = %+v", cfg.Place)
	}
	if cfg.Pause != 1500*time.Millisecond || cfg.ReportFile != "beckley_rates.json" || !cfg.Snapshots {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Credentials.SerpAPI != "serp" {
		t.Errorf("serpapi key = %q", cfg.Credentials.SerpAPI)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if p, _ := cfg.ExtractorProvider(); p != llm.None {
		t.Errorf("extractor = %s, want none without keys", p)
	}
}

func TestValidateMissingSearchKey(t *testing.T) {
	clearCredentials(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); !errors.Is(err, ErrMissingCredential) {
		t.Errorf("err = %v, want ErrMissingCredential", err)
	}
}

func TestExtractorResolution(t *testing.T) {
	clearCredentials(t)
	t.Setenv("SERPAPI_KEY", "serp")
	t.Setenv("CLAUDE_API_KEY", "claude")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if p, _ := cfg.ExtractorProvider(); p != llm.Claude {
		t.Errorf("auto provider = %s, want claude", p)
	}

	cfg.Extractor.Provider = "openrouter"
	if err := cfg.Validate(); !errors.Is(err, ErrMissingCredential) {
		t.Errorf("explicit provider without key: err = %v", err)
	}

	cfg.Extractor.Provider = "none"
	if err := cfg.Validate(); err != nil {
		t.Errorf("provider none: %v", err)
	}
}

func TestLegacyRapidAPIVariable(t *testing.T) {
	clearCredentials(t)
	t.Setenv("RAPIDAI_API_KEY", "legacy")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Credentials.RapidAPI != "legacy" {
		t.Errorf("rapidapi key = %q", cfg.Credentials.RapidAPI)
	}
}

func TestLoadFile(t *testing.T) {
	clearCredentials(t)
	t.Setenv("SERPAPI_KEY", "serp")
	t.Setenv("RATESCOUT_PAUSE", "2s")

	path := filepath.Join(t.TempDir(), "ratescout.yaml")
	yaml := `
place:
  city: Lewisburg
  state: WV
  country: United States
hotels:
  - name: General Lewis Inn
  - name: Hampton Inn Lewisburg
    query: Hampton Inn Lewisburg WV
friday_policy: next-week
extractor:
  provider: none
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Place.City != "Lewisburg" || len(cfg.Hotels) != 2 || cfg.Hotels[1].SearchTerm() != "Hampton Inn Lewisburg WV" {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.FridayPolicy != "next-week" {
		t.Errorf("friday policy = %q", cfg.FridayPolicy)
	}
	if cfg.Pause != 2*time.Second {
		t.Errorf("pause = %s, want env override 2s", cfg.Pause)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestValidateRejectsBadSettings(t *testing.T) {
	clearCredentials(t)
	t.Setenv("SERPAPI_KEY", "serp")
	base, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no hotels", func(c *Config) { c.Hotels = nil }},
		{"blank hotel", func(c *Config) { c.Hotels[0].Name = " " }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"bad policy", func(c *Config) { c.FridayPolicy = "whenever" }},
		{"negative pause", func(c *Config) { c.Pause = -time.Second }},
		{"bad extractor", func(c *Config) { c.Extractor.Provider = "llama" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			cfg.Hotels = append(cfg.Hotels[:0:0], base.Hotels...)
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
