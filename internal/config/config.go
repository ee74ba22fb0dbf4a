package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultMaxBodySize is the maximum accepted request body in bytes (1MB).
const DefaultMaxBodySize int64 = 1024 * 1024

// Config holds the application configuration. It is built once at startup and
// passed into constructors; nothing reads the environment after that.
type Config struct {
	ServerPort  string
	DataDir     string
	MaxBodySize int64
	Backend     string // "disk" or "s3"
	Strict      bool
	LogLevel    string
	LogFormat   string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// fileConfig is the optional YAML config file layout. Env vars win over file
// values, file values win over defaults.
type fileConfig struct {
	Server struct {
		Port   int  `yaml:"port"`
		Strict bool `yaml:"strict"`
	} `yaml:"server"`
	Storage struct {
		DataDir      string `yaml:"data_dir"`
		MaxBodyBytes int64  `yaml:"max_body_bytes"`
		Backend      string `yaml:"backend"`
	} `yaml:"storage"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	S3 struct {
		Endpoint  string `yaml:"endpoint"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Bucket    string `yaml:"bucket"`
		UseSSL    bool   `yaml:"use_ssl"`
	} `yaml:"s3"`
}

// Load builds the effective configuration from defaults, the optional YAML
// file named by JSON_DUMP_CONFIG, and environment variables, in that order.
func Load() *Config {
	cfg := &Config{
		ServerPort:     "8000",
		DataDir:        "./data",
		MaxBodySize:    DefaultMaxBodySize,
		Backend:        "disk",
		LogLevel:       "info",
		LogFormat:      "text",
		MinioEndpoint:  "localhost:9000",
		MinioAccessKey: "minioadmin",
		MinioSecretKey: "minioadmin",
		MinioBucket:    "json-dump-payloads",
	}

	if path := os.Getenv("JSON_DUMP_CONFIG"); path != "" {
		applyFile(cfg, path)
	}
	applyEnv(cfg)

	return cfg
}

func applyFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return
	}

	if fc.Server.Port > 0 {
		cfg.ServerPort = strconv.Itoa(fc.Server.Port)
	}
	if fc.Server.Strict {
		cfg.Strict = true
	}
	if fc.Storage.DataDir != "" {
		cfg.DataDir = fc.Storage.DataDir
	}
	if fc.Storage.MaxBodyBytes > 0 {
		cfg.MaxBodySize = fc.Storage.MaxBodyBytes
	}
	if fc.Storage.Backend != "" {
		cfg.Backend = fc.Storage.Backend
	}
	if fc.Logging.Level != "" {
		cfg.LogLevel = fc.Logging.Level
	}
	if fc.Logging.Format != "" {
		cfg.LogFormat = fc.Logging.Format
	}
	if fc.S3.Endpoint != "" {
		cfg.MinioEndpoint = fc.S3.Endpoint
	}
	if fc.S3.AccessKey != "" {
		cfg.MinioAccessKey = fc.S3.AccessKey
	}
	if fc.S3.SecretKey != "" {
		cfg.MinioSecretKey = fc.S3.SecretKey
	}
	if fc.S3.Bucket != "" {
		cfg.MinioBucket = fc.S3.Bucket
	}
	if fc.S3.UseSSL {
		cfg.MinioUseSSL = true
	}
}

func applyEnv(cfg *Config) {
	cfg.ServerPort = GetEnv("SERVER_PORT", cfg.ServerPort)
	cfg.DataDir = GetEnv("JSON_DUMP_DIR", cfg.DataDir)
	cfg.Backend = GetEnv("JSON_DUMP_BACKEND", cfg.Backend)
	cfg.LogLevel = GetEnv("JSON_DUMP_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = GetEnv("JSON_DUMP_LOG_FORMAT", cfg.LogFormat)
	cfg.MinioEndpoint = GetEnv("MINIO_ENDPOINT", cfg.MinioEndpoint)
	cfg.MinioAccessKey = GetEnv("MINIO_ACCESS_KEY", cfg.MinioAccessKey)
	cfg.MinioSecretKey = GetEnv("MINIO_SECRET_KEY", cfg.MinioSecretKey)
	cfg.MinioBucket = GetEnv("MINIO_BUCKET", cfg.MinioBucket)

	if v := os.Getenv("JSON_DUMP_MAX_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxBodySize = n
		}
	}
	if v := os.Getenv("JSON_DUMP_STRICT"); v != "" {
		cfg.Strict = v == "true" || v == "1"
	}
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		cfg.MinioUseSSL = v == "true"
	}
}

// GetEnv gets an environment variable with a default value.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
