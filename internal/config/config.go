// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package config loads service configuration from defaults, an optional
// YAML file, and command-line flags, in increasing precedence.
package config

import (
	"net"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Default values.
const (
	DefaultListenAddr = ":3000"
	DefaultLogFormat  = "json"
	DefaultStaticDir  = "public"
	DefaultSessionTTL = 7 * 24 * time.Hour
)

// Middleware holds the toggles for the optional request interceptors.
// Each interceptor is independent; disabled ones are simply not composed
// into the chain.
type Middleware struct {
	// SecurityHeaders enables the standard security response headers.
	SecurityHeaders bool `koanf:"security_headers"`

	// Firewall enables the IP allow-list. Requests from addresses
	// outside AllowedCIDRs are rejected with 403.
	Firewall     bool     `koanf:"firewall"`
	AllowedCIDRs []string `koanf:"allowed_cidrs"`

	// ServerLabel, when non-empty, is stamped on every response and
	// reported by the health endpoint. It labels which instance served
	// the request; it does not route traffic.
	ServerLabel string `koanf:"server_label"`
}

// Cookie holds session cookie settings.
type Cookie struct {
	// Secure marks the session cookie Secure. Off by default so local
	// plain-HTTP development works; turn on behind TLS.
	Secure bool `koanf:"secure"`
}

// Config is the full service configuration.
type Config struct {
	ListenAddr  string        `koanf:"listen_addr"`
	DatabaseURL string        `koanf:"database_url"`
	LogFormat   string        `koanf:"log_format"`
	StaticDir   string        `koanf:"static_dir"`
	SessionTTL  time.Duration `koanf:"session_ttl"`
	Cookie      Cookie        `koanf:"cookie"`
	Middleware  Middleware    `koanf:"middleware"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		ListenAddr: DefaultListenAddr,
		LogFormat:  DefaultLogFormat,
		StaticDir:  DefaultStaticDir,
		SessionTTL: DefaultSessionTTL,
	}
}

// Load builds a Config from defaults, the YAML file at path (if
// non-empty), and any set flags. The DATABASE_URL environment variable
// fills DatabaseURL when nothing else did.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("listen_addr is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log_format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if c.SessionTTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("session_ttl must be positive")
	}
	if c.Middleware.Firewall && len(c.Middleware.AllowedCIDRs) == 0 {
		return oops.Code("CONFIG_INVALID").Errorf("firewall enabled but allowed_cidrs is empty")
	}
	for _, cidr := range c.Middleware.AllowedCIDRs {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return oops.Code("CONFIG_INVALID").
				With("cidr", cidr).
				Wrapf(err, "invalid CIDR in allowed_cidrs")
		}
	}
	return nil
}
