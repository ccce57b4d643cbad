package config

import (
	"fmt"
	"os"
	"strconv"
)

var lookupEnv = os.LookupEnv

// setting binds one Config field to its environment variable and CLI flag.
type setting struct {
	env   string
	flag  string
	apply func(c *Config, v string) error
}

func str(dst func(c *Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*dst(c) = v
		return nil
	}
}

func u32(dst func(c *Config) *uint32) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return err
		}
		*dst(c) = uint32(n)
		return nil
	}
}

var settings = []setting{
	{"L8_DB_DIALECT", "db-dialect", str(func(c *Config) *string { return &c.DBDialect })},
	{"L8_DB_DSN", "db-dsn", str(func(c *Config) *string { return &c.DatabaseDSN })},
	{"L8_PEPPER", "pepper", str(func(c *Config) *string { return &c.Pepper })},
	{"L8_PEPPER_FILE", "pepper-file", str(func(c *Config) *string { return &c.PepperFile })},
	{"L8_PWD_KEY_B64", "key-b64", str(func(c *Config) *string { return &c.KeyB64 })},
	{"L8_PWD_KEY_FILE", "key-file", str(func(c *Config) *string { return &c.KeyFile })},
	{"L8_PWD_KEY_ID", "key-id", str(func(c *Config) *string { return &c.KeyID })},
	{"L8_ARGON_MEMORY_COST", "argon-memory", u32(func(c *Config) *uint32 { return &c.ArgonMemoryKiB })},
	{"L8_ARGON_TIME_COST", "argon-time", u32(func(c *Config) *uint32 { return &c.ArgonTimeCost })},
	{"L8_ARGON_THREADS", "argon-threads", u32(func(c *Config) *uint32 { return &c.ArgonParallelism })},
	{"L8_HASH_CONCURRENCY", "hash-concurrency", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.HashConcurrency = n
		return nil
	}},
	{"L8_ALLOW_DEV_DEFAULTS", "allow-dev-defaults", func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.AllowDevDefaults = b
		return nil
	}},
	{"L8_PROVISION_SCHEMA", "provision-schema", str(func(c *Config) *string { return &c.ProvisionSchema })},
	{"L8_LOG_LEVEL", "log-level", str(func(c *Config) *string { return &c.LogLevel })},
	{"L8_LOG_FORMAT", "log-format", str(func(c *Config) *string { return &c.LogFormat })},
	{"L8_S3_BUCKET", "s3-bucket", str(func(c *Config) *string { return &c.S3Bucket })},
	{"L8_S3_REGION", "s3-region", str(func(c *Config) *string { return &c.S3Region })},
	{"L8_S3_BASE_ENDPOINT", "s3-endpoint", str(func(c *Config) *string { return &c.S3BaseEndpoint })},
	{"L8_S3_ACCESS_KEY", "", str(func(c *Config) *string { return &c.S3AccessKey })},
	{"L8_S3_SECRET_KEY", "", str(func(c *Config) *string { return &c.S3SecretKey })},
	{"L8_S3_KEY_OBJECT", "s3-key-object", str(func(c *Config) *string { return &c.S3KeyObject })},
	{"L8_S3_PEPPER_OBJECT", "s3-pepper-object", str(func(c *Config) *string { return &c.S3PepperObject })},
}

// parseEnv overlays every L8_* variable that is present, even when empty,
// so an operator can blank out a value set in a file.
func parseEnv(cfg *Config) error {
	for _, s := range settings {
		v, ok := lookupEnv(s.env)
		if !ok {
			continue
		}
		if err := s.apply(cfg, v); err != nil {
			return fmt.Errorf("%s: %w", s.env, err)
		}
	}
	return nil
}
