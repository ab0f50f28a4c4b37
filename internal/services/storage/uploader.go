package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/phambaophuc/photomark/pkg/utils"
)

var ErrUploadDisabled = errors.New("supabase storage is not configured")

// Upload uploads a watermarked image to Supabase Storage and returns its public URL.
func (s *StorageService) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if !s.UploadEnabled() {
		return "", ErrUploadDisabled
	}

	key := utils.GenerateStorageKey(filename)

	_, err := s.sbClient.UploadFile(s.bucket, key, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to upload to supabase: %w", err)
	}

	publicURL := s.sbClient.GetPublicUrl(s.bucket, key)
	return publicURL.SignedURL, nil
}
