package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "GRAPHQL_ENDPOINT", "GRAPHQL_TIMEOUT", "RENDER_WAIT", "STORAGE_DRIVER", "RATE_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.GraphQLEndpoint != "https://graphql-pokemon2.vercel.app" {
		t.Errorf("GraphQLEndpoint = %q", cfg.GraphQLEndpoint)
	}
	if cfg.GraphQLTimeout != 0 {
		t.Errorf("GraphQLTimeout = %v, want 0", cfg.GraphQLTimeout)
	}
	if cfg.RenderWait != 2*time.Second {
		t.Errorf("RenderWait = %v, want 2s", cfg.RenderWait)
	}
	if cfg.StorageDriver != "memory" {
		t.Errorf("StorageDriver = %q, want memory", cfg.StorageDriver)
	}
	if cfg.RateLimit != 100 {
		t.Errorf("RateLimit = %d, want 100", cfg.RateLimit)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() = false for default env")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("GRAPHQL_ENDPOINT", "http://localhost:4000/graphql")
	t.Setenv("GRAPHQL_TIMEOUT", "10s")
	t.Setenv("RENDER_WAIT", "250ms")
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("RATE_LIMIT", "not-a-number")

	cfg := Load()
	if cfg.IsDev() {
		t.Error("IsDev() = true for production")
	}
	if cfg.GraphQLEndpoint != "http://localhost:4000/graphql" {
		t.Errorf("GraphQLEndpoint = %q", cfg.GraphQLEndpoint)
	}
	if cfg.GraphQLTimeout != 10*time.Second {
		t.Errorf("GraphQLTimeout = %v", cfg.GraphQLTimeout)
	}
	if cfg.RenderWait != 250*time.Millisecond {
		t.Errorf("RenderWait = %v", cfg.RenderWait)
	}
	if cfg.StorageDriver != "redis" {
		t.Errorf("StorageDriver = %q", cfg.StorageDriver)
	}
	if cfg.RateLimit != 100 {
		t.Errorf("RateLimit = %d, want fallback 100", cfg.RateLimit)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"javascript endpoint", func(c *Config) { c.GraphQLEndpoint = "javascript:alert(1)" }, "GRAPHQL_ENDPOINT"},
		{"empty endpoint", func(c *Config) { c.GraphQLEndpoint = "" }, "GRAPHQL_ENDPOINT"},
		{"unknown driver", func(c *Config) { c.StorageDriver = "etcd" }, "STORAGE_DRIVER"},
		{"negative wait", func(c *Config) { c.RenderWait = -time.Second }, "RENDER_WAIT"},
		{"tls without cert", func(c *Config) { c.TLSEnabled = true }, "TLS_CERT_FILE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				GraphQLEndpoint: "https://graphql-pokemon2.vercel.app",
				StorageDriver:   "memory",
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoadYAMLConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
type_styles:
  fire: badge-red
  shadow: badge-shadow
site:
  title: Pokedex
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)

	y, err := LoadYAMLConfig()
	if err != nil {
		t.Fatalf("LoadYAMLConfig() error = %v", err)
	}
	if y.TypeStyles["fire"] != "badge-red" || y.TypeStyles["shadow"] != "badge-shadow" {
		t.Errorf("TypeStyles = %v", y.TypeStyles)
	}

	cfg := &Config{SiteTitle: "Pokemon Search", SiteFooter: "footer"}
	cfg.Apply(y)
	if cfg.SiteTitle != "Pokedex" {
		t.Errorf("SiteTitle = %q, want Pokedex", cfg.SiteTitle)
	}
	if cfg.SiteFooter != "footer" {
		t.Errorf("SiteFooter = %q, want unchanged", cfg.SiteFooter)
	}
	if cfg.TypeStyles()["fire"] != "badge-red" {
		t.Errorf("TypeStyles() = %v", cfg.TypeStyles())
	}
}

func TestLoadYAMLConfigMissing(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	y, err := LoadYAMLConfig()
	if err != nil || y != nil {
		t.Errorf("LoadYAMLConfig() = %v, %v; want nil, nil", y, err)
	}
	if (*Config)(nil).TypeStyles() != nil {
		t.Error("TypeStyles() on nil config should be nil")
	}
}

func TestIsMTLSEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"tls off", Config{TLSCAFile: "ca.pem"}, false},
		{"tls without ca", Config{TLSEnabled: true}, false},
		{"mtls", Config{TLSEnabled: true, TLSCAFile: "ca.pem"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.IsMTLSEnabled(); got != tt.want {
				t.Errorf("IsMTLSEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}
