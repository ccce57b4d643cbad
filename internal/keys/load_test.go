package keys

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/credseal/internal/common"
	"github.com/dmitrijs2005/credseal/internal/config"
	"github.com/dmitrijs2005/credseal/internal/cryptox"
	"github.com/dmitrijs2005/credseal/internal/logging"
)

type fakeObjects map[string][]byte

func (f fakeObjects) Fetch(_ context.Context, object string) ([]byte, error) {
	b, ok := f[object]
	if !ok {
		return nil, errors.New("no such object")
	}
	return b, nil
}

func baseConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.ArgonMemoryKiB, c.ArgonTimeCost, c.ArgonParallelism = 64, 1, 1
	return c
}

func writeSecret(t *testing.T, b []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(p, b, 0o600))
	return p
}

func captureLogger() (*bytes.Buffer, logging.Logger) {
	var buf bytes.Buffer
	return &buf, logging.NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func useObjects(t *testing.T, objs fakeObjects) {
	t.Helper()
	orig := newObjectSource
	newObjectSource = func(context.Context, *config.Config) (objectSource, error) { return objs, nil }
	t.Cleanup(func() { newObjectSource = orig })
}

func TestLoad_FromEnvValues(t *testing.T) {
	key := bytes.Repeat([]byte{3}, 40)
	cfg := baseConfig()
	cfg.Pepper = "pep"
	cfg.KeyB64 = base64.StdEncoding.EncodeToString(key)

	km, err := Load(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)

	assert.Equal(t, "pep", km.Pepper())
	assert.Equal(t, key[:32], km.SealingKey().Bytes)
	assert.Equal(t, "k1", km.KeyID())
}

func TestLoad_ShortOrInvalidB64KeyIsFatal(t *testing.T) {
	for _, v := range []string{base64.StdEncoding.EncodeToString(make([]byte, 16)), "%%%"} {
		cfg := baseConfig()
		cfg.Pepper = "pep"
		cfg.KeyB64 = v

		_, err := Load(context.Background(), cfg, logging.Discard())
		assert.ErrorIs(t, err, common.ErrConfiguration)
	}
}

func TestLoad_FilesNormalizeAndTrim(t *testing.T) {
	buf, log := captureLogger()

	cfg := baseConfig()
	cfg.PepperFile = writeSecret(t, []byte("  file-pepper\n"))
	cfg.KeyFile = writeSecret(t, []byte("0123456789"))

	km, err := Load(context.Background(), cfg, log)
	require.NoError(t, err)

	assert.Equal(t, "file-pepper", km.Pepper())
	want := make([]byte, 32)
	copy(want, "0123456789")
	assert.Equal(t, want, km.SealingKey().Bytes)
	assert.Contains(t, buf.String(), "zero-padding")
	assert.NotContains(t, buf.String(), "file-pepper")
}

func TestLoad_LongKeyFileTruncated(t *testing.T) {
	buf, log := captureLogger()

	cfg := baseConfig()
	cfg.Pepper = "p"
	cfg.KeyFile = writeSecret(t, bytes.Repeat([]byte{9}, 48))

	km, err := Load(context.Background(), cfg, log)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{9}, 32), km.SealingKey().Bytes)
	assert.Contains(t, buf.String(), "truncating")
}

func TestLoad_MissingFileIsFatal(t *testing.T) {
	cfg := baseConfig()
	cfg.Pepper = "p"
	cfg.KeyFile = filepath.Join(t.TempDir(), "nope")

	_, err := Load(context.Background(), cfg, logging.Discard())
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestLoad_FromS3Objects(t *testing.T) {
	useObjects(t, fakeObjects{
		"pepper": []byte("s3-pepper\n"),
		"key":    bytes.Repeat([]byte{5}, 32),
	})

	cfg := baseConfig()
	cfg.S3Bucket = "vault"
	cfg.S3PepperObject = "pepper"
	cfg.S3KeyObject = "key"

	km, err := Load(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, "s3-pepper", km.Pepper())
	assert.Equal(t, bytes.Repeat([]byte{5}, 32), km.SealingKey().Bytes)
}

func TestLoad_S3MissingObject(t *testing.T) {
	useObjects(t, fakeObjects{})

	cfg := baseConfig()
	cfg.Pepper = "p"
	cfg.S3Bucket = "vault"
	cfg.S3KeyObject = "key"

	_, err := Load(context.Background(), cfg, logging.Discard())
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestLoad_DevDefaults(t *testing.T) {
	cfg := baseConfig()

	_, err := Load(context.Background(), cfg, logging.Discard())
	require.ErrorIs(t, err, common.ErrConfiguration)

	buf, log := captureLogger()
	cfg.AllowDevDefaults = true
	km, err := Load(context.Background(), cfg, log)
	require.NoError(t, err)

	assert.Equal(t, DevPepper, km.Pepper())
	assert.Equal(t, cryptox.DeriveDevKey("DEV-PWD-KEY-CHANGE-ME-IN-PRODUCTION"), km.SealingKey().Bytes)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestLoad_InvalidArgonParams(t *testing.T) {
	cases := map[string]func(c *config.Config){
		"zero time":        func(c *config.Config) { c.ArgonTimeCost = 0 },
		"zero parallelism": func(c *config.Config) { c.ArgonParallelism = 0 },
		"huge parallelism": func(c *config.Config) { c.ArgonParallelism = 256; c.ArgonMemoryKiB = 1 << 16 },
		"memory too small": func(c *config.Config) { c.ArgonParallelism = 4; c.ArgonMemoryKiB = 16 },
	}

	for name, mut := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.AllowDevDefaults = true
			mut(cfg)

			_, err := Load(context.Background(), cfg, logging.Discard())
			assert.ErrorIs(t, err, common.ErrConfiguration)
		})
	}
}

func TestLoad_InvalidKeyID(t *testing.T) {
	cfg := baseConfig()
	cfg.AllowDevDefaults = true
	cfg.KeyID = "a:b"

	_, err := Load(context.Background(), cfg, logging.Discard())
	assert.ErrorIs(t, err, common.ErrConfiguration)
}
