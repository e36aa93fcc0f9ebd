package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yungbote/simple-explain/internal/platform/kv"
	"github.com/yungbote/simple-explain/internal/platform/logger"
	"github.com/yungbote/simple-explain/internal/platform/openai"
)

type Clients struct {
	OpenAI openai.Client
	Store  kv.Store
}

func wireClients(ctx context.Context, log *logger.Logger, cfg *Config) (Clients, error) {
	log.Info("Wiring clients...")

	temp := cfg.OpenAI.Temperature
	ai, err := openai.NewClient(log, openai.Config{
		APIKey:          cfg.OpenAI.APIKey,
		BaseURL:         cfg.OpenAI.BaseURL,
		Model:           cfg.OpenAI.Model,
		Temperature:     &temp,
		MaxOutputTokens: cfg.OpenAI.MaxOutputTokens,
		Timeout:         cfg.OpenAI.Timeout,
		MaxRetries:      cfg.OpenAI.MaxRetries,
	})
	switch {
	case errors.Is(err, openai.ErrNotConfigured):
		log.Warn("OPENAI_API_KEY not set; /api/generate will answer not_configured")
		ai = nil
	case err != nil:
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	store, err := kv.Open(ctx, StorageOptions(cfg.Storage), log)
	if err != nil {
		return Clients{}, fmt.Errorf("init storage: %w", err)
	}

	return Clients{OpenAI: ai, Store: store}, nil
}

// StorageOptions maps storage config onto kv.Options. For sqlite a
// directory path gets a database file inside it.
func StorageOptions(s StorageConfig) kv.Options {
	opts := kv.Options{
		Driver:        strings.ToLower(strings.TrimSpace(s.Driver)),
		Path:          s.Path,
		DSN:           s.DSN,
		RedisAddr:     s.RedisAddr,
		RedisPassword: s.RedisPassword,
		RedisDB:       s.RedisDB,
		Prefix:        s.RedisPrefix,
	}
	if opts.Driver == kv.DriverSQLite && filepath.Ext(opts.Path) == "" {
		_ = os.MkdirAll(opts.Path, 0o755)
		opts.Path = filepath.Join(opts.Path, "simple-explain.db")
	}
	return opts
}

func (c Clients) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}
