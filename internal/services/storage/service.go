package storage

import (
	"time"

	"github.com/phambaophuc/photomark/internal/config"
	"github.com/redis/go-redis/v9"
	storage_go "github.com/supabase-community/storage-go"
)

// StorageService holds the optional remote backends of the HTTP service.
// Either client is nil when its backend is not configured.
type StorageService struct {
	sbClient      *storage_go.Client
	redisClient   *redis.Client
	bucket        string
	cacheDuration time.Duration
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	s := &StorageService{
		bucket:        cfg.Supabase.Bucket,
		cacheDuration: cfg.Redis.CacheDuration,
	}

	if cfg.Supabase.URL != "" && cfg.Supabase.Bucket != "" {
		s.sbClient = storage_go.NewClient(cfg.Supabase.URL+"/storage/v1", cfg.Supabase.Key, nil)
	}

	if cfg.Redis.Addr != "" {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	return s, nil
}

func (s *StorageService) UploadEnabled() bool {
	return s != nil && s.sbClient != nil
}

func (s *StorageService) CacheEnabled() bool {
	return s != nil && s.redisClient != nil
}

func (s *StorageService) Close() error {
	if s.CacheEnabled() {
		return s.redisClient.Close()
	}
	return nil
}
