package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	Refinement RefinementConfig `yaml:"refinement"`
	API        APIConfig        `yaml:"api"`
	Kafka      KafkaConfig      `yaml:"kafka"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MongoConfig 의 URI 는 MONGO_URI 환경변수가 있으면 그 값이 우선한다.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type GeminiConfig struct {
	Model      string `yaml:"model"`
	APIVersion string `yaml:"api_version"`
	// APIKey 는 yaml 에 두지 않고 GEMINI_API_KEY 로만 주입한다.
	APIKey string `yaml:"-"`
	// 0 이하이면 해당 방향의 제한을 두지 않는다.
	RequestsPerMinute int `yaml:"requests_per_minute"`
	RequestsPerDay    int `yaml:"requests_per_day"`
}

// RefinementConfig controls the AI typo-correction batch pipeline.
type RefinementConfig struct {
	ChunkSize      int           `yaml:"chunk_size"`
	ChunkDelay     time.Duration `yaml:"chunk_delay"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay"`
	// StrictParse turns an unparseable chunk response into a batch failure.
	StrictParse bool `yaml:"strict_parse"`
}

type APIConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type KafkaConfig struct {
	// Brokers 가 비어 있으면 이벤트 발행을 하지 않는다.
	Brokers string `yaml:"brokers"`
	Topic   string `yaml:"topic"`
}

const (
	DefaultChunkSize      = 20
	DefaultChunkDelay     = 10 * time.Second
	DefaultMaxRetries     = 3
	DefaultRetryBaseDelay = 5 * time.Second
	DefaultGeminiModel    = "gemini-2.0-flash"
	DefaultAPIVersion     = "v1beta"
)

var config *AppConfig

// ApplyDefaults fills zero values with the pipeline defaults.
func (c *AppConfig) ApplyDefaults() {
	if c.Refinement.ChunkSize <= 0 {
		c.Refinement.ChunkSize = DefaultChunkSize
	}
	if c.Refinement.ChunkDelay <= 0 {
		c.Refinement.ChunkDelay = DefaultChunkDelay
	}
	if c.Refinement.MaxRetries < 0 {
		c.Refinement.MaxRetries = 0
	} else if c.Refinement.MaxRetries == 0 {
		c.Refinement.MaxRetries = DefaultMaxRetries
	}
	if c.Refinement.RetryBaseDelay <= 0 {
		c.Refinement.RetryBaseDelay = DefaultRetryBaseDelay
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = DefaultGeminiModel
	}
	if c.Gemini.APIVersion == "" {
		c.Gemini.APIVersion = DefaultAPIVersion
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "zesecthink"
	}
	if c.API.Addr == "" {
		c.API.Addr = ":8080"
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "zesecthink.refinement.events"
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = "info"
	}
}

// applyEnv overrides secrets and endpoints from the environment.
func (c *AppConfig) applyEnv() {
	if v := os.Getenv("MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("KAFKA_BOOTSTRAP_SERVERS"); v != "" {
		c.Kafka.Brokers = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Load reads the yaml file at path, overlays environment values and applies defaults.
// An empty path yields a configuration built from the environment and defaults only.
func Load(path string) (*AppConfig, error) {
	var c AppConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	c.applyEnv()
	c.ApplyDefaults()
	return &c, nil
}

func InitApp() {
	basePath := GetBasePath()
	// load environment variables
	godotenv.Load(filepath.Join(basePath, ENV_FILE))

	cfgPath := ""
	if basePath != "" {
		cfgPath = filepath.Join(basePath, CONFIG_FILE)
	}
	c, err := Load(cfgPath)
	if err != nil {
		panic(err)
	}
	config = c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
