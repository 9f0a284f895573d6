package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr         string
	Port               string
	DatabaseDriver     string
	DatabasePath       string
	DatabaseDSN        string
	SessionSecret      string
	SecureCookies      bool
	GinMode            string
	StaticDir          string
	MediaDir           string
	MediaURLPath       string
	LogLevel           string
	TimeZone           string
	RateLimitPerMinute int
	RateLimitBurst     int
	BootstrapUsername  string
	BootstrapPassword  string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// 当前目录存在 .env 时会先加载它，已设置的环境变量不会被覆盖。
func Load() AppConfig {
	_ = godotenv.Load()

	port := envOr("PORT", "8080")

	return AppConfig{
		ListenAddr:         envOr("LISTEN_ADDR", fmt.Sprintf(":%s", port)),
		Port:               port,
		DatabaseDriver:     strings.ToLower(envOr("DATABASE_DRIVER", "sqlite")),
		DatabasePath:       envOr("DATABASE_PATH", "blogicum.db"),
		DatabaseDSN:        strings.TrimSpace(os.Getenv("DATABASE_DSN")),
		SessionSecret:      envOr("SESSION_SECRET", "blogicum-dev-secret"),
		SecureCookies:      envBool("SECURE_COOKIES", false),
		GinMode:            envOr("GIN_MODE", "release"),
		StaticDir:          strings.TrimSpace(os.Getenv("STATIC_DIR")),
		MediaDir:           envOr("MEDIA_DIR", "media"),
		MediaURLPath:       envOr("MEDIA_URL_PATH", "/media"),
		LogLevel:           envOr("LOG_LEVEL", "info"),
		TimeZone:           envOr("TIME_ZONE", "UTC"),
		RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 30),
		RateLimitBurst:     envInt("RATE_LIMIT_BURST", 10),
		BootstrapUsername:  strings.TrimSpace(os.Getenv("BOOTSTRAP_USERNAME")),
		BootstrapPassword:  strings.TrimSpace(os.Getenv("BOOTSTRAP_PASSWORD")),
	}
}

// DSN 返回当前驱动对应的连接串；sqlite 未显式设置 DSN 时回退到 DatabasePath。
func (c AppConfig) DSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}
	return c.DatabasePath
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

func envBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

// Location 返回表单日期使用的时区，无法识别时回退到 UTC。
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
