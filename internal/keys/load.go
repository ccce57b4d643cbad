package keys

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/credseal/internal/common"
	"github.com/dmitrijs2005/credseal/internal/config"
	"github.com/dmitrijs2005/credseal/internal/cryptox"
	"github.com/dmitrijs2005/credseal/internal/filex"
	"github.com/dmitrijs2005/credseal/internal/logging"
	"github.com/dmitrijs2005/credseal/internal/password"
)

const (
	DevPepper  = "DEV-PEPPER-CHANGE-ME-IN-PRODUCTION"
	devKeySeed = "DEV-PWD-KEY-CHANGE-ME-IN-PRODUCTION"

	maxSecretSize = 4096
)

// objectSource is satisfied by *S3Source.
type objectSource interface {
	Fetch(ctx context.Context, object string) ([]byte, error)
}

var newObjectSource = func(ctx context.Context, cfg *config.Config) (objectSource, error) {
	return NewS3Source(ctx, cfg)
}

// Load resolves KeyMaterial from cfg. Dev fallbacks are used only when
// cfg.AllowDevDefaults is set; otherwise a missing secret is an
// ErrConfiguration.
func Load(ctx context.Context, cfg *config.Config, logger logging.Logger) (*KeyMaterial, error) {
	log := logger.With("module", "keys")

	l := &loader{cfg: cfg, log: log}

	pepper, err := l.pepper(ctx)
	if err != nil {
		return nil, err
	}

	key, err := l.key(ctx)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	params, err := argonParams(cfg)
	if err != nil {
		return nil, err
	}

	km, err := New(pepper, key, cfg.KeyID, params)
	if err != nil {
		return nil, err
	}

	log.Info(ctx, "key material loaded", "material", km)
	return km, nil
}

type loader struct {
	cfg *config.Config
	log logging.Logger
	src objectSource
}

func (l *loader) objects(ctx context.Context) (objectSource, error) {
	if l.src != nil {
		return l.src, nil
	}
	src, err := newObjectSource(ctx, l.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: s3: %v", common.ErrConfiguration, err)
	}
	l.src = src
	return src, nil
}

func (l *loader) pepper(ctx context.Context) (string, error) {
	switch {
	case l.cfg.Pepper != "":
		return l.cfg.Pepper, nil

	case l.cfg.PepperFile != "":
		b, err := filex.ReadSecretFile(l.cfg.PepperFile, maxSecretSize)
		if err != nil {
			return "", fmt.Errorf("%w: pepper file: %v", common.ErrConfiguration, err)
		}
		p := string(filex.TrimSecret(b))
		if p == "" {
			return "", fmt.Errorf("%w: pepper file %s is blank", common.ErrConfiguration, l.cfg.PepperFile)
		}
		return p, nil

	case l.cfg.S3Bucket != "" && l.cfg.S3PepperObject != "":
		src, err := l.objects(ctx)
		if err != nil {
			return "", err
		}
		b, err := src.Fetch(ctx, l.cfg.S3PepperObject)
		if err != nil {
			return "", fmt.Errorf("%w: pepper object: %v", common.ErrConfiguration, err)
		}
		p := strings.TrimSpace(string(b))
		if p == "" {
			return "", fmt.Errorf("%w: pepper object %s is blank", common.ErrConfiguration, l.cfg.S3PepperObject)
		}
		return p, nil

	case l.cfg.AllowDevDefaults:
		l.log.Warn(ctx, "using development pepper; set L8_PEPPER or L8_PEPPER_FILE in production")
		return DevPepper, nil
	}

	return "", fmt.Errorf("%w: no pepper configured", common.ErrConfiguration)
}

func (l *loader) key(ctx context.Context) ([]byte, error) {
	switch {
	case l.cfg.KeyB64 != "":
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(l.cfg.KeyB64))
		if err != nil {
			return nil, fmt.Errorf("%w: sealing key is not valid base64", common.ErrConfiguration)
		}
		if len(raw) < cryptox.KeySize {
			return nil, fmt.Errorf("%w: sealing key decodes to %d bytes, need %d", common.ErrConfiguration, len(raw), cryptox.KeySize)
		}
		return raw[:cryptox.KeySize], nil

	case l.cfg.KeyFile != "":
		raw, err := filex.ReadSecretFile(l.cfg.KeyFile, maxSecretSize)
		if err != nil {
			return nil, fmt.Errorf("%w: key file: %v", common.ErrConfiguration, err)
		}
		return l.normalize(ctx, raw, "key_file"), nil

	case l.cfg.S3Bucket != "" && l.cfg.S3KeyObject != "":
		src, err := l.objects(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := src.Fetch(ctx, l.cfg.S3KeyObject)
		if err != nil {
			return nil, fmt.Errorf("%w: key object: %v", common.ErrConfiguration, err)
		}
		if len(raw) == 0 {
			return nil, fmt.Errorf("%w: key object %s is empty", common.ErrConfiguration, l.cfg.S3KeyObject)
		}
		return l.normalize(ctx, raw, "s3"), nil

	case l.cfg.AllowDevDefaults:
		l.log.Warn(ctx, "using development sealing key; set L8_PWD_KEY_FILE or L8_PWD_KEY_B64 in production")
		return cryptox.DeriveDevKey(devKeySeed), nil
	}

	return nil, fmt.Errorf("%w: no sealing key configured", common.ErrConfiguration)
}

// normalize fits raw key bytes to exactly KeySize: longer input is cut,
// shorter input is zero-padded.
func (l *loader) normalize(ctx context.Context, raw []byte, source string) []byte {
	out := make([]byte, cryptox.KeySize)
	copy(out, raw)

	switch {
	case len(raw) > cryptox.KeySize:
		l.log.Warn(ctx, "sealing key longer than 32 bytes, truncating", "source", source, "len", len(raw))
	case len(raw) < cryptox.KeySize:
		l.log.Warn(ctx, "sealing key shorter than 32 bytes, zero-padding", "source", source, "len", len(raw))
	}

	return out
}

func argonParams(cfg *config.Config) (password.Params, error) {
	var errs []error
	if cfg.ArgonTimeCost < 1 {
		errs = append(errs, errors.New("argon2 time cost must be >= 1"))
	}
	if cfg.ArgonParallelism < 1 || cfg.ArgonParallelism > 255 {
		errs = append(errs, fmt.Errorf("argon2 parallelism %d out of range [1..255]", cfg.ArgonParallelism))
	}
	if cfg.ArgonMemoryKiB < 8*cfg.ArgonParallelism {
		errs = append(errs, fmt.Errorf("argon2 memory cost must be >= 8*parallelism KiB"))
	}
	if err := errors.Join(errs...); err != nil {
		return password.Params{}, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
	}

	p := password.DefaultParams()
	p.MemoryKiB = cfg.ArgonMemoryKiB
	p.Iterations = cfg.ArgonTimeCost
	p.Parallelism = uint8(cfg.ArgonParallelism)
	return p, nil
}
