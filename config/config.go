package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps YAML and validation failures
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full application configuration
type Config struct {
	LogLevel string `yaml:"log_level"`

	Server    ServerConfig    `yaml:"server"`
	Catalogue CatalogueConfig `yaml:"catalogue"`
	Scraper   ScraperConfig   `yaml:"scraper"`
}

// ServerConfig controls the HTTP listener and static pages
type ServerConfig struct {
	Port        string   `yaml:"port"`
	StaticDir   string   `yaml:"static_dir"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// CatalogueConfig names the catalogue files, relative to DataDir
type CatalogueConfig struct {
	DataDir          string `yaml:"data_dir"`
	KaraFunCSV       string `yaml:"karafun_csv"`
	KaraFunSeparator string `yaml:"karafun_separator"`
	KaraFunGenres    string `yaml:"karafun_genres"`
	JKaraokeJSON     string `yaml:"jkaraoke_json"`
	JKaraokePopular  string `yaml:"jkaraoke_popular"`
	JKaraokeArtists  string `yaml:"jkaraoke_artists"`
}

// ScraperConfig controls the catalogue scrape
type ScraperConfig struct {
	// Page URL with a single %d verb for the page number
	URLTemplate string `yaml:"url_template"`
	OutputJSON  string `yaml:"output_json"`
	OutputCSV   string `yaml:"output_csv"`
	UserAgent   string `yaml:"user_agent"`
	Source      string `yaml:"source"`

	RequestTimeout  time.Duration `yaml:"request_timeout"`
	RetryDelay      time.Duration `yaml:"retry_delay"`
	PageDelay       time.Duration `yaml:"page_delay"`
	MaxRetries      int           `yaml:"max_retries"`
	CheckpointEvery int           `yaml:"checkpoint_every"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads a YAML file and fills defaults for unset fields
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config *Config

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if config == nil {
		config = &Config{}
	}

	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadOrDefault loads path when it exists and falls back to Default otherwise.
// Environment overrides are applied in both cases.
func LoadOrDefault(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := Load(path)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if c.Server.Port == "" {
		c.Server.Port = "3000"
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = "public"
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	cat := &c.Catalogue
	if cat.DataDir == "" {
		cat.DataDir = "data"
	}
	if cat.KaraFunCSV == "" {
		cat.KaraFunCSV = "karafuncatalog.csv"
	}
	if cat.KaraFunSeparator == "" {
		cat.KaraFunSeparator = ";"
	}
	if cat.KaraFunGenres == "" {
		cat.KaraFunGenres = "karafun-genres.json"
	}
	if cat.JKaraokeJSON == "" {
		cat.JKaraokeJSON = "jkaraokecatalog.json"
	}
	if cat.JKaraokePopular == "" {
		cat.JKaraokePopular = "jkaraoke-popular.json"
	}
	if cat.JKaraokeArtists == "" {
		cat.JKaraokeArtists = "jkaraoke-artists.json"
	}

	s := &c.Scraper
	if s.URLTemplate == "" {
		s.URLTemplate = "https://jkaraoke.com/music?page=%d"
	}
	if s.OutputJSON == "" {
		s.OutputJSON = "data/jkaraokecatalog.json"
	}
	if s.OutputCSV == "" {
		s.OutputCSV = "data/jkaraokecatalog.csv"
	}
	if s.UserAgent == "" {
		s.UserAgent = "Mozilla/5.0"
	}
	if s.Source == "" {
		s.Source = "jkaraoke"
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = 15 * time.Second
	}
	if s.RetryDelay == 0 {
		s.RetryDelay = 2 * time.Second
	}
	if s.PageDelay == 0 {
		s.PageDelay = 150 * time.Millisecond
	}
	if s.MaxRetries == 0 {
		s.MaxRetries = 3
	}
	if s.CheckpointEvery == 0 {
		s.CheckpointEvery = 20
	}
}

// Validate rejects values the defaults cannot repair
func (c *Config) Validate() error {
	if len(c.Catalogue.KaraFunSeparator) != 1 {
		return fmt.Errorf("%w: karafun_separator must be a single character", ErrInvalidConfig)
	}
	if c.Scraper.MaxRetries < 0 {
		return fmt.Errorf("%w: max_retries must not be negative", ErrInvalidConfig)
	}
	if c.Scraper.CheckpointEvery < 0 {
		return fmt.Errorf("%w: checkpoint_every must not be negative", ErrInvalidConfig)
	}
	return nil
}
