package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/simple-explain/internal/platform/logger"
)

// Store is a small durable key-value service. Values are opaque bytes and
// are always replaced whole.
type Store interface {
	// Read returns the stored value and whether the key exists.
	Read(ctx context.Context, key string) ([]byte, bool, error)
	Write(ctx context.Context, key string, value []byte) error
	Close() error
}

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

var (
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrWriteRejected = errors.New("kv write rejected")
)

type Options struct {
	Driver        string
	Path          string
	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Prefix        string
}

// Open builds the Store selected by opts.Driver.
func Open(ctx context.Context, opts Options, log *logger.Logger) (Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	log.Info("Opening key-value store", "driver", driver)
	switch driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		return NewFile(opts.Path)
	case DriverSQLite:
		return NewSQLite(opts.Path, log)
	case DriverPostgres:
		return NewPostgres(opts.DSN, log)
	case DriverRedis:
		return NewRedis(ctx, RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
			Prefix:   opts.Prefix,
		}, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
