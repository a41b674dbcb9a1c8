package config

import (
	"context"
	"path/filepath"

	"github.com/matzehuels/doctriage/pkg/cache"
	"github.com/matzehuels/doctriage/pkg/storage"
)

// StoreFile is the snapshot name of the file backend inside DataDir.
const StoreFile = "store.json"

// RedisPrefix namespaces cache keys in a shared Redis.
const RedisPrefix = "doctriage:"

// StorageOptions converts the [storage] section for storage.Open.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend: c.Storage.Backend,
		Path:    filepath.Join(c.Storage.DataDir, StoreFile),
		Mongo: storage.MongoOptions{
			URI:      c.Storage.MongoURI,
			Database: c.Storage.MongoDatabase,
		},
	}
}

// OpenStore opens the configured document store.
func (c *Config) OpenStore(ctx context.Context) (storage.Store, error) {
	return storage.Open(ctx, c.StorageOptions())
}

// OpenCache opens the configured artifact cache.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:   c.Cache.RedisAddr,
			DB:     c.Cache.RedisDB,
			Prefix: RedisPrefix,
		})
	default:
		return cache.NewFileCache(c.Cache.Dir)
	}
}

// Keyer returns the cache keyer, scoped to [cache] namespace when set.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Namespace == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.Namespace+":")
}
