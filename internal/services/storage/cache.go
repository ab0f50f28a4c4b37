package storage

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/phambaophuc/photomark/internal/models"
	"github.com/redis/go-redis/v9"
)

// GetFromCache returns nil, nil on a miss or when no cache is configured.
func (s *StorageService) GetFromCache(ctx context.Context, cacheKey string) ([]byte, error) {
	if !s.CacheEnabled() {
		return nil, nil
	}

	data, err := s.redisClient.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}
	return data, nil
}

func (s *StorageService) SetCache(ctx context.Context, cacheKey string, data []byte) error {
	if !s.CacheEnabled() {
		return nil
	}
	return s.redisClient.Set(ctx, cacheKey, data, s.cacheDuration).Err()
}

// GenerateCacheKey hashes the uploaded bytes, the watermark kind, every
// rendering parameter and the bytes of an uploaded watermark image. Each
// field is length-prefixed so adjacent values cannot run into each other.
func GenerateCacheKey(source []byte, kind models.WatermarkKind, req *models.WatermarkRequest, mark []byte) string {
	hash := sha256.New()
	writeField(hash, source)
	writeField(hash, []byte(kind))

	if req != nil {
		opacity := "default"
		if req.Opacity != nil {
			opacity = strconv.Itoa(*req.Opacity)
		}
		writeField(hash, []byte(req.Text))
		writeField(hash, []byte(strconv.Itoa(req.FontSize)))
		writeField(hash, []byte(req.Color))
		writeField(hash, []byte(opacity))
		writeField(hash, []byte(req.Position))
		writeField(hash, []byte(strconv.FormatFloat(req.Scale, 'g', -1, 64)))
	}

	writeField(hash, mark)

	return fmt.Sprintf("wm_cache:%x", hash.Sum(nil))
}

func writeField(w io.Writer, b []byte) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(b)))
	w.Write(n[:])
	w.Write(b)
}
