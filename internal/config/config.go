// Package config は環境変数からアプリケーション設定を読み込む。
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	Database Database

	// Server
	ServerPort   string `env:"PORT" env-default:"5000"`
	FormMaxBytes int64  `env:"FORM_MAX_BYTES" env-default:"33554432"`

	// Registration
	AllowedEmailRegex string `env:"ALLOWED_EMAIL_REGEX"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	allowedEmail *regexp.Regexp
}

// Database はPostgreSQLへの接続設定を保持する。
type Database struct {
	Host           string        `env:"DB_HOST"`
	Name           string        `env:"DB_DATABASE"`
	User           string        `env:"DB_USER"`
	Password       string        `env:"DB_PASSWORD"`
	Port           int           `env:"DB_PORT" env-default:"5432"`
	SSLMode        string        `env:"DB_SSLMODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" env-default:"5s"`
	QueryTimeout   time.Duration `env:"DB_QUERY_TIMEOUT" env-default:"10s"`
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envがあれば先に読み込むが、既存の環境変数は上書きしない。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	// .envは任意。存在しない場合はプロセスの環境変数のみを使う。
	_ = godotenv.Load()

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// Required fields
	var missing []string
	if cfg.Database.Host == "" {
		missing = append(missing, "DB_HOST")
	}
	if cfg.Database.Name == "" {
		missing = append(missing, "DB_DATABASE")
	}
	if cfg.Database.User == "" {
		missing = append(missing, "DB_USER")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// 空文字で明示的に設定された場合もデフォルト値に戻す
	if cfg.ServerPort == "" {
		cfg.ServerPort = "5000"
	}

	if cfg.AllowedEmailRegex != "" {
		re, err := regexp.Compile(cfg.AllowedEmailRegex)
		if err != nil {
			return nil, fmt.Errorf("invalid ALLOWED_EMAIL_REGEX: %w", err)
		}
		cfg.allowedEmail = re
	}

	return cfg, nil
}

// AllowedEmail はALLOWED_EMAIL_REGEXをコンパイルした正規表現を返す。
// 未設定の場合はnilを返し、すべてのメールアドレスを許可する。
func (c *Config) AllowedEmail() *regexp.Regexp {
	return c.allowedEmail
}

// ServerPortFromEnv はフル初期化を行わずにHTTPの待ち受けポートを返す。
// healthcheckサブコマンドのように設定全体を必要としない処理で使う。
func ServerPortFromEnv() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "5000"
}
