package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk layout used for both JSON and YAML files.
// It is seeded from the current Config before decoding, so keys absent from
// the file leave earlier values untouched.
type FileConfig struct {
	DBDialect        string `json:"db_dialect" yaml:"db_dialect"`
	DatabaseDSN      string `json:"db_dsn" yaml:"db_dsn"`
	Pepper           string `json:"pepper" yaml:"pepper"`
	PepperFile       string `json:"pepper_file" yaml:"pepper_file"`
	KeyB64           string `json:"pwd_key_b64" yaml:"pwd_key_b64"`
	KeyFile          string `json:"pwd_key_file" yaml:"pwd_key_file"`
	KeyID            string `json:"pwd_key_id" yaml:"pwd_key_id"`
	ArgonMemoryKiB   uint32 `json:"argon_memory_cost" yaml:"argon_memory_cost"`
	ArgonTimeCost    uint32 `json:"argon_time_cost" yaml:"argon_time_cost"`
	ArgonParallelism uint32 `json:"argon_threads" yaml:"argon_threads"`
	HashConcurrency  int    `json:"hash_concurrency" yaml:"hash_concurrency"`
	AllowDevDefaults bool   `json:"allow_dev_defaults" yaml:"allow_dev_defaults"`
	ProvisionSchema  string `json:"provision_schema" yaml:"provision_schema"`
	LogLevel         string `json:"log_level" yaml:"log_level"`
	LogFormat        string `json:"log_format" yaml:"log_format"`
	S3Bucket         string `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region         string `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint   string `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3AccessKey      string `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey      string `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3KeyObject      string `json:"s3_key_object" yaml:"s3_key_object"`
	S3PepperObject   string `json:"s3_pepper_object" yaml:"s3_pepper_object"`
}

func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	fc := FileConfig(*cfg)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return err
	}

	*cfg = Config(fc)
	return nil
}
