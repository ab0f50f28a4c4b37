// Package config holds photomark's defaults, the YAML config file and the
// environment overrides.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	DefaultFontSize    = 30
	DefaultOpacity     = 128
	DefaultColor       = "255,255,255"
	DefaultPosition    = "bottom-right"
	DefaultScale       = 0.2
	DefaultDirSuffix   = "_watermark"
	DefaultJPEGQuality = 95
	DefaultMaxFileSize = 10 << 20 // 10MB
)

type Config struct {
	Watermark WatermarkConfig `yaml:"watermark"`
	Output    OutputConfig    `yaml:"output"`
	Log       LogConfig       `yaml:"log"`
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	Supabase  SupabaseConfig  `yaml:"supabase"`
}

type WatermarkConfig struct {
	FontSize int     `yaml:"font_size"`
	Opacity  int     `yaml:"opacity"`
	Color    string  `yaml:"color"`
	Position string  `yaml:"position"`
	Scale    float64 `yaml:"scale"`
	// Fonts are tried in order before the built-in faces.
	Fonts    []string `yaml:"fonts"`
	FontDirs []string `yaml:"font_dirs,omitempty"`
}

type OutputConfig struct {
	DirSuffix   string `yaml:"dir_suffix"`
	JPEGQuality int    `yaml:"jpeg_quality"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxFileSize  int64         `yaml:"max_file_size"`
}

type RedisConfig struct {
	Addr          string        `yaml:"addr"`
	Password      string        `yaml:"password,omitempty"`
	DB            int           `yaml:"db"`
	CacheDuration time.Duration `yaml:"cache_duration"`
}

type SupabaseConfig struct {
	URL    string `yaml:"url"`
	Key    string `yaml:"key,omitempty"`
	Bucket string `yaml:"bucket"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Watermark: WatermarkConfig{
			FontSize: DefaultFontSize,
			Opacity:  DefaultOpacity,
			Color:    DefaultColor,
			Position: DefaultPosition,
			Scale:    DefaultScale,
			Fonts:    []string{"simhei.ttf", "Arial.ttf"},
		},
		Output: OutputConfig{
			DirSuffix:   DefaultDirSuffix,
			JPEGQuality: DefaultJPEGQuality,
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			MaxFileSize:  DefaultMaxFileSize,
		},
		Redis: RedisConfig{
			CacheDuration: 24 * time.Hour,
		},
	}
}

// Load reads the config file at path (or the default location when path is
// empty), then applies .env and process environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		zap.L().Debug("No .env file found")
	}

	var loader *Loader
	if path != "" {
		loader = NewLoaderWithPath(path)
	} else {
		l, err := NewLoader()
		if err != nil {
			return nil, err
		}
		loader = l
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Watermark.FontSize = getEnvAsInt("PHOTOMARK_FONT_SIZE", cfg.Watermark.FontSize)
	cfg.Watermark.Opacity = getEnvAsInt("PHOTOMARK_OPACITY", cfg.Watermark.Opacity)
	cfg.Watermark.Color = getEnv("PHOTOMARK_COLOR", cfg.Watermark.Color)
	cfg.Watermark.Position = getEnv("PHOTOMARK_POSITION", cfg.Watermark.Position)
	cfg.Watermark.Scale = getEnvAsFloat("PHOTOMARK_SCALE", cfg.Watermark.Scale)
	cfg.Output.JPEGQuality = getEnvAsInt("PHOTOMARK_JPEG_QUALITY", cfg.Output.JPEGQuality)
	cfg.Log.Level = getEnv("PHOTOMARK_LOG_LEVEL", cfg.Log.Level)

	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = getDuration("READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getDuration("WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.MaxFileSize = getEnvAsInt64("MAX_FILE_SIZE", cfg.Server.MaxFileSize)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.CacheDuration = getDuration("CACHE_DURATION", cfg.Redis.CacheDuration)

	cfg.Supabase.URL = getEnv("SUPABASE_URL", cfg.Supabase.URL)
	cfg.Supabase.Key = getEnv("SUPABASE_KEY", cfg.Supabase.Key)
	cfg.Supabase.Bucket = getEnv("SUPABASE_BUCKET", cfg.Supabase.Bucket)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}
