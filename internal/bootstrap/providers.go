package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/semantic-faq/internal/domain/auth"
	"github.com/yanqian/semantic-faq/internal/domain/faq"
	"github.com/yanqian/semantic-faq/internal/domain/rewrite"
	"github.com/yanqian/semantic-faq/internal/infra/classmap"
	"github.com/yanqian/semantic-faq/internal/infra/config"
	"github.com/yanqian/semantic-faq/internal/infra/encoder"
	"github.com/yanqian/semantic-faq/internal/infra/faqrepo"
	"github.com/yanqian/semantic-faq/internal/infra/llm/chatgpt"
)

const connectTimeout = 5 * time.Second

// ProvideFAQConfig maps the file/env config onto the FAQ service knobs.
func ProvideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{
		SimilarityThreshold: cfg.FAQ.SimilarityThreshold,
		MaxMessageLength:    cfg.FAQ.MaxMessageLength,
		IgnorePatterns:      cfg.FAQ.IgnorePatterns,
	}
}

// ProvideAuthConfig maps the admin token settings.
func ProvideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:   cfg.Auth.JWTSecret,
		Issuer:   cfg.Auth.Issuer,
		TokenTTL: cfg.Auth.TokenTTL,
	}
}

// ProvideEncoder builds the encoder selected by encoder.provider.
func ProvideEncoder(cfg *config.Config, logger *slog.Logger) (faq.Encoder, error) {
	enc := cfg.Encoder
	switch enc.Provider {
	case config.EncoderHashing:
		logger.Info("using hashing encoder", "dimensions", enc.Dimensions)
		return encoder.NewHashingEncoder(enc.Dimensions), nil
	case config.EncoderChatGPT:
		client, err := chatgpt.NewClient(enc.APIKey, enc.BaseURL, enc.Timeout)
		if err != nil {
			return nil, fmt.Errorf("create chatgpt client: %w", err)
		}
		counter := encoder.NewTokenCounter(enc.Model, logger)
		return encoder.NewChatGPTEncoder(client, enc.Model, enc.BatchTokens, counter, logger), nil
	case config.EncoderOpenAI:
		counter := encoder.NewTokenCounter(enc.Model, logger)
		openaiEncoder, err := encoder.NewOpenAIEncoder(enc.APIKey, enc.BaseURL, enc.Model, enc.Timeout, enc.BatchTokens, counter, logger)
		if err != nil {
			return nil, fmt.Errorf("create openai encoder: %w", err)
		}
		return openaiEncoder, nil
	case config.EncoderGemini:
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		client, err := encoder.NewGeminiClient(ctx, encoder.GeminiConfig{
			APIKey:   enc.APIKey,
			Backend:  enc.Gemini.Backend,
			Project:  enc.Gemini.Project,
			Location: enc.Gemini.Location,
			Model:    enc.Model,
		})
		if err != nil {
			return nil, err
		}
		return encoder.NewGeminiEncoder(client, enc.Model, logger), nil
	}
	return nil, fmt.Errorf("unsupported encoder provider %q", enc.Provider)
}

// ProvideFAQRepository opens the storage backend selected by faq.storage.driver.
// The returned cleanup releases its connections.
func ProvideFAQRepository(cfg *config.Config, logger *slog.Logger) (faq.Repository, func(), error) {
	storage := cfg.FAQ.Storage
	noop := func() {}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	switch storage.Driver {
	case config.StorageMemory:
		logger.Warn("faq entries are kept in memory only")
		return faqrepo.NewMemoryRepository(), noop, nil
	case config.StorageFile:
		logger.Info("faq file repository enabled", "path", storage.Path)
		return faqrepo.NewFileRepository(storage.Path), noop, nil
	case config.StorageSQLite:
		repo, err := faqrepo.NewSQLiteRepository(ctx, storage.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("faq sqlite repository enabled", "path", storage.Path)
		return repo, func() { _ = repo.Close() }, nil
	case config.StoragePostgres:
		pool, err := openPostgres(ctx, storage.Postgres)
		if err != nil {
			return nil, nil, err
		}
		repo := faqrepo.NewPostgresRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("faq postgres repository enabled")
		return repo, pool.Close, nil
	case config.StorageValkey:
		opt, err := buildValkeyOptions(storage.Valkey.Addr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid valkey configuration: %w", err)
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			return nil, nil, fmt.Errorf("create valkey client: %w", err)
		}
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("valkey ping: %w", err)
		}
		logger.Info("faq valkey repository enabled", "addr", storage.Valkey.Addr, "key", storage.Valkey.Key)
		return faqrepo.NewValkeyRepository(client, storage.Valkey.Key), client.Close, nil
	case config.StorageObject:
		repo, err := faqrepo.NewObjectRepository(faqrepo.ObjectConfig{
			Endpoint:  storage.Object.Endpoint,
			AccessKey: storage.Object.AccessKey,
			SecretKey: storage.Object.SecretKey,
			Bucket:    storage.Object.Bucket,
			Region:    storage.Object.Region,
			Key:       storage.Object.Key,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("faq object repository enabled", "bucket", storage.Object.Bucket, "key", storage.Object.Key)
		return repo, noop, nil
	}
	return nil, nil, fmt.Errorf("unsupported storage driver %q", storage.Driver)
}

// ProvideAnswerRewriter returns nil when rewriting is disabled.
func ProvideAnswerRewriter(cfg *config.Config, logger *slog.Logger) faq.AnswerRewriter {
	rw := cfg.FAQ.Rewrite
	if !rw.Enabled {
		return nil
	}
	logger.Info("faq answer rewriting enabled", "mapping_url", rw.MappingURL, "ttl", rw.TTL)
	return rewrite.NewRewriter(rewrite.Config{TTL: rw.TTL, MaxDepth: rw.MaxDepth, RetryBackoff: rw.RetryBackoff}, classmap.NewClient(rw.MappingURL), logger)
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
