package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// RegisterFlags declares the configuration flags on fs. Their defaults are
// placeholders only: Load consults a flag only if the user set it.
//
// S3 credentials have no flag so they never show up in process listings.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.String("db-dialect", d.DBDialect, "database dialect (sqlite|postgres)")
	fs.String("db-dsn", d.DatabaseDSN, "database DSN")
	fs.String("pepper", "", "server-wide pepper (prefer --pepper-file)")
	fs.String("pepper-file", "", "file containing the pepper")
	fs.String("key-b64", "", "base64 32-byte sealing key (prefer --key-file)")
	fs.String("key-file", "", "file containing the raw 32-byte sealing key")
	fs.String("key-id", d.KeyID, "identifier written into sealed blobs")
	fs.Uint32("argon-memory", d.ArgonMemoryKiB, "Argon2id memory cost in KiB")
	fs.Uint32("argon-time", d.ArgonTimeCost, "Argon2id iterations")
	fs.Uint32("argon-threads", d.ArgonParallelism, "Argon2id parallelism")
	fs.Int("hash-concurrency", d.HashConcurrency, "max concurrent Argon2id computations")
	fs.Bool("allow-dev-defaults", false, "fall back to insecure development pepper and key")
	fs.String("provision-schema", d.ProvisionSchema, "schema for new users (primary|legacy)")
	fs.String("log-level", d.LogLevel, "log level (debug|info|warn|error)")
	fs.String("log-format", d.LogFormat, "log format (json|text)")
	fs.String("s3-bucket", "", "S3 bucket holding key material")
	fs.String("s3-region", d.S3Region, "S3 region")
	fs.String("s3-endpoint", "", "S3-compatible base endpoint")
	fs.String("s3-key-object", "", "S3 object containing the raw sealing key")
	fs.String("s3-pepper-object", "", "S3 object containing the pepper")
}

func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	byFlag := make(map[string]setting, len(settings))
	for _, s := range settings {
		if s.flag != "" {
			byFlag[s.flag] = s
		}
	}

	var err error
	fs.Visit(func(f *pflag.Flag) {
		s, ok := byFlag[f.Name]
		if !ok || err != nil {
			return
		}
		if e := s.apply(cfg, f.Value.String()); e != nil {
			err = fmt.Errorf("--%s: %w", f.Name, e)
		}
	})

	return err
}
