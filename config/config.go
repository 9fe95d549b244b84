package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	Storage    StorageConfig
	Redis      RedisConfig
	Remote     RemoteConfig
	AI         AIConfig
	Cloudinary CloudinaryConfig
}

type ServerConfig struct {
	AppEnv             string
	HTTPAddr           string
	CORSAllowedOrigins []string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type StorageConfig struct {
	Driver string
	DSN    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RemoteConfig struct {
	CommerceEndpoint string
	Timeout          time.Duration
}

type AIConfig struct {
	Endpoint  string
	Model     string
	MaxTokens int
}

type CloudinaryConfig struct {
	URL    string
	Folder string
}

const (
	DefaultAIEndpoint       = "https://api.deepinfra.com/v1/openai/chat/completions"
	DefaultAIModel          = "meta-llama/Llama-4-Maverick-17B-128E-Instruct-FP8"
	DefaultCommerceEndpoint = "https://sandyspace.com/api-products"
)

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:             getEnv("APP_ENV", "dev"),
			HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
			CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", "sqlite")),
			DSN:    getEnv("STORAGE_DSN", "catalog.db"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Remote: RemoteConfig{
			CommerceEndpoint: getEnv("COMMERCE_ENDPOINT", DefaultCommerceEndpoint),
			Timeout:          time.Duration(getEnvInt("HTTP_CLIENT_TIMEOUT", 0)) * time.Second,
		},
		AI: AIConfig{
			Endpoint:  getEnv("AI_ENDPOINT", DefaultAIEndpoint),
			Model:     getEnv("AI_MODEL", DefaultAIModel),
			MaxTokens: getEnvInt("AI_MAX_TOKENS", 300),
		},
		Cloudinary: CloudinaryConfig{
			URL:    getEnv("CLOUDINARY_URL", ""),
			Folder: getEnv("CLOUDINARY_FOLDER", "sandyspace"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return fallback
}
