// Package config handles configuration for credseal: defaults, an optional
// JSON or YAML file, L8_* environment variables and command-line flags,
// applied in that order.
package config

import (
	"fmt"
	"runtime"

	"github.com/spf13/pflag"
)

// Config holds runtime settings.
//
// Secrets (Pepper, KeyB64, S3SecretKey) are kept as given and are only
// interpreted by the keys package. Summary never exposes them.
type Config struct {
	DBDialect   string
	DatabaseDSN string

	Pepper     string
	PepperFile string
	KeyB64     string
	KeyFile    string
	KeyID      string

	ArgonMemoryKiB   uint32
	ArgonTimeCost    uint32
	ArgonParallelism uint32
	HashConcurrency  int

	AllowDevDefaults bool
	ProvisionSchema  string

	LogLevel  string
	LogFormat string

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3KeyObject    string
	S3PepperObject string
}

// LoadDefaults populates Config with development-friendly defaults. No
// secret has a default; see AllowDevDefaults.
func (c *Config) LoadDefaults() {
	c.DBDialect = "sqlite"
	c.DatabaseDSN = "file:credseal.db"
	c.KeyID = "k1"
	c.ArgonMemoryKiB = 131072
	c.ArgonTimeCost = 3
	c.ArgonParallelism = 2
	c.HashConcurrency = defaultHashConcurrency()
	c.ProvisionSchema = "primary"
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.S3Region = "us-east-1"
}

func defaultHashConcurrency() int {
	return min(max(runtime.NumCPU(), 1), 4)
}

// Load builds a Config by applying defaults, then the file at path (if
// non-empty), then the environment, then every flag in fs the user set
// explicitly. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}

	if fs != nil {
		if err := applyFlags(cfg, fs); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
