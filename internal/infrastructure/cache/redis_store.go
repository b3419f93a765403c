package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/erp/servicepack/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const (
	templatesKey = "templates"
	bundlesKey   = "bundles"
)

// RedisStore keeps the template and bundle lists as two JSON documents.
// ReplaceAll writes both in one MULTI/EXEC transaction.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisStoreWithClient creates a store with an existing Redis client
func NewRedisStoreWithClient(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "servicepack:"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

// LoadTemplates returns the stored templates; a missing key is an empty list
func (s *RedisStore) LoadTemplates(ctx context.Context) ([]servicepack.Template, error) {
	var templates []servicepack.Template
	if err := s.load(ctx, templatesKey, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// LoadBundles returns the stored bundles; a missing key is an empty list
func (s *RedisStore) LoadBundles(ctx context.Context) ([]servicepack.ServiceBundle, error) {
	var bundles []servicepack.ServiceBundle
	if err := s.load(ctx, bundlesKey, &bundles); err != nil {
		return nil, err
	}
	return bundles, nil
}

// SaveTemplates replaces the stored template list
func (s *RedisStore) SaveTemplates(ctx context.Context, templates []servicepack.Template) error {
	data, err := encodeList(templates)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(templatesKey), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save templates: %w", err)
	}
	return nil
}

// SaveBundles replaces the stored bundle list
func (s *RedisStore) SaveBundles(ctx context.Context, bundles []servicepack.ServiceBundle) error {
	data, err := encodeList(bundles)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(bundlesKey), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save bundles: %w", err)
	}
	return nil
}

// ReplaceAll writes both lists atomically
func (s *RedisStore) ReplaceAll(ctx context.Context, templates []servicepack.Template, bundles []servicepack.ServiceBundle) error {
	tdata, err := encodeList(templates)
	if err != nil {
		return err
	}
	bdata, err := encodeList(bundles)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(templatesKey), tdata, 0)
		pipe.Set(ctx, s.key(bundlesKey), bdata, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace service packages: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(name string) string {
	return s.keyPrefix + name
}

func (s *RedisStore) load(ctx context.Context, name string, out any) error {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// encodeList marshals a list, writing nil as [] so readers always get an array
func encodeList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode list: %w", err)
	}
	return data, nil
}

var _ servicepack.AtomicStore = (*RedisStore)(nil)
