package models

import "time"

type ProcessedImage struct {
	ID           string        `json:"id"`
	OriginalName string        `json:"original_name"`
	Kind         WatermarkKind `json:"kind"`
	ProcessedAt  time.Time     `json:"processed_at"`
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	Format       string        `json:"format"`
	URL          string        `json:"url,omitempty"`
	FileSize     int64         `json:"file_size"`
}
