package config

import (
	"fmt"
	"log"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	// StorageMemory 使用进程内存储，重启后数据丢失。
	StorageMemory = "memory"
	// StorageSQLite 使用 gorm + sqlite 持久化。
	StorageSQLite = "sqlite"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr    string `env:"LISTEN_ADDR"`
	Port          string `env:"PORT" envDefault:"8080"`
	GinMode       string `env:"GIN_MODE" envDefault:"release"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"memory"`
	DatabasePath  string `env:"DATABASE_PATH" envDefault:"writespace.db"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"writespace-dev-secret"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"72h"`

	// 逗号分隔的来源列表，为空时不启用 CORS
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS"`

	AIProvider           string        `env:"AI_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey         string        `env:"OPENAI_API_KEY"`
	OpenAIAPIKeyFallback string        `env:"OPENAI_API_KEY_ENV_VAR"`
	OpenAIBaseURL        string        `env:"OPENAI_BASE_URL"`
	OpenAIModel          string        `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	DeepSeekAPIKey       string        `env:"DEEPSEEK_API_KEY"`
	DeepSeekBaseURL      string        `env:"DEEPSEEK_BASE_URL"`
	DeepSeekModel        string        `env:"DEEPSEEK_MODEL" envDefault:"deepseek-chat"`
	GeminiAPIKey         string        `env:"GEMINI_API_KEY"`
	GeminiModel          string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	AITimeout            time.Duration `env:"AI_TIMEOUT" envDefault:"180s"`

	DemoUserName     string `env:"DEMO_USER_NAME"`
	DemoUserEmail    string `env:"DEMO_USER_EMAIL"`
	DemoUserPassword string `env:"DEMO_USER_PASSWORD"`
}

// Load 读取 .env（若存在）与环境变量，并为缺失项提供默认值。
func Load() (AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}
	return parse(env.Options{})
}

func parse(opts env.Options) (AppConfig, error) {
	var cfg AppConfig
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return AppConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}
	trimStrings(&cfg)

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = fmt.Sprintf(":%s", cfg.Port)
	}
	if cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = cfg.OpenAIAPIKeyFallback
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = cfg.SessionSecret
	}

	cfg.StorageDriver = strings.ToLower(cfg.StorageDriver)
	switch cfg.StorageDriver {
	case StorageMemory, StorageSQLite:
	default:
		return AppConfig{}, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	return cfg, nil
}

// CORSOrigins 解析逗号分隔的来源列表。
func (c AppConfig) CORSOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := make([]string, 0)
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// trimStrings 去掉所有字符串字段首尾的空白。
func trimStrings(cfg *AppConfig) {
	v := reflect.ValueOf(cfg).Elem()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if field.Kind() == reflect.String {
			field.SetString(strings.TrimSpace(field.String()))
		}
	}
}
