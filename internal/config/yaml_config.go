package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the config.yaml file.
// Settings that are awkward as env vars live here.
type YAMLConfig struct {
	// TypeStyles overrides or extends the type badge classes, keyed by type name.
	TypeStyles map[string]string `yaml:"type_styles"`
	Site       SiteConfig        `yaml:"site"`
}

// SiteConfig overrides branding. Empty fields keep the env/default value.
type SiteConfig struct {
	Title   string `yaml:"title"`
	Tagline string `yaml:"tagline"`
	Footer  string `yaml:"footer"`
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Apply copies YAML overrides into c and keeps a reference for later lookups.
func (c *Config) Apply(y *YAMLConfig) {
	if y == nil {
		return
	}
	c.YAML = y
	if y.Site.Title != "" {
		c.SiteTitle = y.Site.Title
	}
	if y.Site.Tagline != "" {
		c.SiteTagline = y.Site.Tagline
	}
	if y.Site.Footer != "" {
		c.SiteFooter = y.Site.Footer
	}
}

// TypeStyles returns the configured badge overrides, or nil.
func (c *Config) TypeStyles() map[string]string {
	if c == nil || c.YAML == nil {
		return nil
	}
	return c.YAML.TypeStyles
}
