package config

// Summary describes the effective configuration without revealing secrets.
func (c *Config) Summary() map[string]any {
	return map[string]any{
		"db_dialect":         c.DBDialect,
		"db_dsn_set":         c.DatabaseDSN != "",
		"pepper_set":         c.Pepper != "",
		"pepper_file":        c.PepperFile,
		"key_b64_set":        c.KeyB64 != "",
		"key_file":           c.KeyFile,
		"key_id":             c.KeyID,
		"argon_memory_kib":   c.ArgonMemoryKiB,
		"argon_time_cost":    c.ArgonTimeCost,
		"argon_parallelism":  c.ArgonParallelism,
		"hash_concurrency":   c.HashConcurrency,
		"allow_dev_defaults": c.AllowDevDefaults,
		"provision_schema":   c.ProvisionSchema,
		"log_level":          c.LogLevel,
		"log_format":         c.LogFormat,
		"s3_bucket":          c.S3Bucket,
		"s3_key_object":      c.S3KeyObject,
		"s3_pepper_object":   c.S3PepperObject,
		"s3_credentials_set": c.S3AccessKey != "" && c.S3SecretKey != "",
	}
}
