package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort               int    `mapstructure:"APP_PORT"`
	DatabasePath          string `mapstructure:"DATABASE_PATH"`
	RedisAddr             string `mapstructure:"REDIS_ADDR"`
	EngineURL             string `mapstructure:"ENGINE_URL"`
	EngineAPIKey          string `mapstructure:"ENGINE_API_KEY"`
	DefaultModel          string `mapstructure:"DEFAULT_MODEL"`
	EmbeddingDim          int    `mapstructure:"EMBEDDING_DIM"`
	ProcessTimeoutSeconds int    `mapstructure:"PROCESS_TIMEOUT_SECONDS"`
	APIKey                string `mapstructure:"API_KEY"`
	JWTSecret             string `mapstructure:"JWT_SECRET"`
	LogLevel              string `mapstructure:"LOG_LEVEL"`
}

func Load() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("DATABASE_PATH", "/data/vectorchat.db")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("ENGINE_URL", "http://localhost:11434")
	viper.SetDefault("ENGINE_API_KEY", "")
	viper.SetDefault("DEFAULT_MODEL", "google-ai-studio/gemini-2.5-flash")
	viper.SetDefault("EMBEDDING_DIM", 1536)
	viper.SetDefault("PROCESS_TIMEOUT_SECONDS", 120)
	viper.SetDefault("API_KEY", "")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("LOG_LEVEL", "INFO")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
