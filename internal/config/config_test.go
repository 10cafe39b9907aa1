package config

import (
	"os"
	"path/filepath"
	"testing"

	"resumescan/internal/engine"
)

func validConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Weights:           engine.DefaultWeights(),
			DefaultDictionary: "software-engineering",
		},
		Server: ServerConfig{
			Port: "8080",
			TLS:  TLSConfig{Mode: "disabled"},
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
			MaxFileSize:      1024 * 1024,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Server.Port = "" }, true},
		{"bad default format", func(c *Config) { c.App.DefaultFormat = "xml" }, true},
		{"weights do not sum to 100", func(c *Config) {
			c.Engine.Weights["skills"] = 50
		}, true},
		{"remote enabled without base url", func(c *Config) {
			c.Dictionaries.Remote.Enabled = true
		}, true},
		{"remote enabled with base url", func(c *Config) {
			c.Dictionaries.Remote.Enabled = true
			c.Dictionaries.Remote.BaseURL = "https://dict.internal"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTLSConfig(t *testing.T) {
	tests := []struct {
		name    string
		tls     TLSConfig
		wantErr bool
	}{
		{"disabled mode", TLSConfig{Mode: "disabled"}, false},
		{"invalid mode", TLSConfig{Mode: "maybe"}, true},
		{"server mode with files", TLSConfig{
			Mode: "server", CertFile: "cert.pem", KeyFile: "key.pem",
		}, false},
		{"server mode with content", TLSConfig{
			Mode: "server", CertContent: "PEM", KeyContent: "PEM",
		}, false},
		{"server mode missing key", TLSConfig{
			Mode: "server", CertFile: "cert.pem",
		}, true},
		{"server mode duplicate cert sources", TLSConfig{
			Mode: "server", CertFile: "cert.pem", CertContent: "PEM", KeyFile: "key.pem",
		}, true},
		{"mutual mode without ca", TLSConfig{
			Mode: "mutual", CertFile: "cert.pem", KeyFile: "key.pem",
		}, true},
		{"mutual mode with ca", TLSConfig{
			Mode: "mutual", CertFile: "cert.pem", KeyFile: "key.pem", CAFile: "ca.pem",
		}, false},
		{"mutual mode bad auth policy", TLSConfig{
			Mode: "mutual", CertFile: "cert.pem", KeyFile: "key.pem", CAFile: "ca.pem",
			ClientAuthPolicy: "sometimes",
		}, true},
		{"bad min version", TLSConfig{Mode: "disabled", MinVersion: "1.0"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.TLS = tt.tls
			if err := cfg.ValidateTLSConfig(); (err != nil) != tt.wantErr {
				t.Errorf("ValidateTLSConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveVaultToken(t *testing.T) {
	t.Run("inline token wins", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "inline"})
		if err != nil || token != "inline" {
			t.Errorf("resolveVaultToken() = %q, %v", token, err)
		}
	})

	t.Run("token file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token")
		if err := os.WriteFile(path, []byte("  file-token\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		token, err := resolveVaultToken(VaultConfig{TokenFile: path})
		if err != nil || token != "file-token" {
			t.Errorf("resolveVaultToken() = %q, %v", token, err)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		if _, err := resolveVaultToken(VaultConfig{}); err == nil {
			t.Error("resolveVaultToken() succeeded with no token")
		}
	})

	t.Run("unreadable token file", func(t *testing.T) {
		if _, err := resolveVaultToken(VaultConfig{TokenFile: "/nonexistent/token"}); err == nil {
			t.Error("resolveVaultToken() succeeded with missing token file")
		}
	})
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"", ""},
		{"short", "****"},
		{"abcdefghijkl", "abcd****ijkl"},
	}
	for _, tt := range tests {
		if got := maskSecret(tt.value); got != tt.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestApplyFallbacks(t *testing.T) {
	t.Run("api keys from environment", func(t *testing.T) {
		t.Setenv("RESUMESCAN_SERVER_APIKEYS", "key-one, key-two")
		cfg := validConfig()
		cfg.applyFallbacks()
		if len(cfg.Server.APIKeys) != 2 || cfg.Server.APIKeys[1] != "key-two" {
			t.Errorf("APIKeys = %v, want [key-one key-two]", cfg.Server.APIKeys)
		}
	})

	t.Run("service instance generated", func(t *testing.T) {
		cfg := validConfig()
		cfg.Observability.ServiceName = "resumescan"
		cfg.applyFallbacks()
		if cfg.Observability.ServiceInstance == "" {
			t.Error("ServiceInstance not generated")
		}
	})

	t.Run("mutual tls defaults", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.TLS = TLSConfig{Mode: "mutual"}
		cfg.applyFallbacks()
		if cfg.Server.TLS.ClientAuthPolicy != "require" {
			t.Errorf("ClientAuthPolicy = %q, want require", cfg.Server.TLS.ClientAuthPolicy)
		}
		if cfg.Server.TLS.MinVersion != "1.2" {
			t.Errorf("MinVersion = %q, want 1.2", cfg.Server.TLS.MinVersion)
		}
	})
}
