package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/nzambello/ploneview/pkg/urls"
	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// Environment variables overriding the configuration file.
const (
	EnvAPIURL         = "PLONE_RESTAPI_URL"
	EnvInternalAPIURL = "PLONE_INTERNAL_RESTAPI_URL"
	EnvPublicURL      = "PUBLIC_URL"
)

type Config struct {
	SiteTitle          string       `toml:"site_title"`
	APIPath            string       `toml:"api_path"`
	InternalAPIPath    string       `toml:"internal_api_path"`
	PublicURL          string       `toml:"public_url"`
	LegacyTraverse     bool         `toml:"legacy_traverse"`
	IsMultilingual     bool         `toml:"is_multilingual"`
	SupportedLanguages []string     `toml:"supported_languages"`
	DefaultLanguage    string       `toml:"default_language"`
	NonContentRoutes   []string     `toml:"non_content_routes"`
	NavigationDepth    int          `toml:"navigation_depth"`
	RequestTimeout     Duration     `toml:"request_timeout"`
	SanitizeHTML       bool         `toml:"sanitize_html"`
	Slate              SlateConfig  `toml:"slate"`
	Blocks             BlocksConfig `toml:"blocks"`
	Server             ServerConfig `toml:"server"`
}

type SlateConfig struct {
	TopLevelTargetElements []string `toml:"top_level_target_elements"`
}

type BlocksConfig struct {
	// Disabled block types render as unknown blocks.
	Disabled []string `toml:"disabled"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func GetDefaultConfig() *Config {
	return &Config{
		SiteTitle:          "Plone site",
		IsMultilingual:     true,
		SupportedLanguages: []string{"en", "it"},
		DefaultLanguage:    "it",
		NonContentRoutes:   slices.Clone(urls.DefaultNonContentRoutes),
		NavigationDepth:    2,
		Slate: SlateConfig{
			TopLevelTargetElements: []string{"h1", "h2", "h3", "h4", "h5", "h6"},
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 3000,
		},
	}
}

// LoadConfig reads configPath over the defaults. A missing file is not an
// error.
func LoadConfig(configPath string) (*Config, error) {
	config := GetDefaultConfig()
	if configPath == "" {
		return config, nil
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.NavigationDepth <= 0 {
		config.NavigationDepth = 2
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 3000
	}

	return config, nil
}

// Load reads the configuration file, applies the environment and validates
// the result.
func Load(configPath string) (*Config, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(os.Getenv)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides the backend and public URLs from the environment.
// PLONE_RESTAPI_URL sets both API paths; PLONE_INTERNAL_RESTAPI_URL then
// overrides the internal one.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvAPIURL); v != "" {
		c.APIPath = v
		c.InternalAPIPath = v
	}
	if v := getenv(EnvInternalAPIURL); v != "" {
		c.InternalAPIPath = v
	}
	if v := getenv(EnvPublicURL); v != "" {
		c.PublicURL = v
	}
	if c.InternalAPIPath == "" {
		c.InternalAPIPath = c.APIPath
	}
}

// Validate reports every configuration error found.
func (c *Config) Validate() error {
	var errs []error
	if c.APIPath == "" {
		errs = append(errs, fmt.Errorf("missing api_path: set %s", EnvAPIURL))
	}
	if c.PublicURL == "" {
		errs = append(errs, fmt.Errorf("missing public_url: set %s", EnvPublicURL))
	}
	if len(c.SupportedLanguages) == 0 {
		errs = append(errs, errors.New("supported_languages is empty"))
	}
	if !slices.Contains(c.SupportedLanguages, c.DefaultLanguage) {
		errs = append(errs, fmt.Errorf("default language %q is not a supported language", c.DefaultLanguage))
	}
	if _, err := urls.New(c.URLSettings()); err != nil {
		errs = append(errs, err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port %d", c.Server.Port))
	}
	return errors.Join(errs...)
}

// URLSettings returns the settings of the URL normalizer.
func (c *Config) URLSettings() urls.Settings {
	internal := c.InternalAPIPath
	if internal == "" {
		internal = c.APIPath
	}
	return urls.Settings{
		APIPath:          strings.TrimSuffix(c.APIPath, "/"),
		InternalAPIPath:  strings.TrimSuffix(internal, "/"),
		PublicURL:        strings.TrimSuffix(c.PublicURL, "/"),
		LegacyTraverse:   c.LegacyTraverse,
		NonContentRoutes: c.NonContentRoutes,
	}
}

// IsSupportedLanguage reports whether lang is served.
func (c *Config) IsSupportedLanguage(lang string) bool {
	return slices.Contains(c.SupportedLanguages, lang)
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the commented sample configuration.
func SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(configPath, []byte(configTemplate), 0644)
}

// GetConfigDir returns the configuration directory for ploneview
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "ploneview"), nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
