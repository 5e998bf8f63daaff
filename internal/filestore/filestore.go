// Package filestore keeps the blobs of uploaded files.
package filestore

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/charleshuang3/teamcrm/internal/logging"
)

var (
	logger = logging.Component("filestore")

	ErrNotFound   = errors.New("object not found")
	ErrInvalidKey = errors.New("invalid object key")
)

const (
	ProviderLocal = "local"
	ProviderMinio = "minio"
)

type Config struct {
	// Provider is "local" (default) or "minio".
	Provider string `yaml:"provider"`

	// Dir is the root directory of the local provider.
	Dir string `yaml:"dir"`

	// minio / S3 compatible settings.
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseTLS    bool   `yaml:"use_tls"`
	BasePath  string `yaml:"base_path"`
}

func (c *Config) Validate() {
	if c.Provider == "" {
		c.Provider = ProviderLocal
	}

	switch c.Provider {
	case ProviderLocal:
		if c.Dir == "" {
			logger.Fatal().Msg("Files: Dir is missing")
		}
	case ProviderMinio:
		if c.Endpoint == "" {
			logger.Fatal().Msg("Files: Endpoint is missing")
		}
		if c.Bucket == "" {
			logger.Fatal().Msg("Files: Bucket is missing")
		}
	default:
		logger.Fatal().Msgf("Files: provider %s is not supported", c.Provider)
	}
}

// Store is a flat key/value blob store.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

func New(cfg *Config) (Store, error) {
	switch cfg.Provider {
	case ProviderMinio:
		return newMinio(cfg)
	default:
		return newLocal(cfg.Dir)
	}
}

// cleanKey rejects keys escaping the store root.
func cleanKey(key string) (string, error) {
	k := path.Clean("/" + key)
	k = strings.TrimPrefix(k, "/")
	if k == "" || k == "." || k != strings.TrimPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	return k, nil
}
