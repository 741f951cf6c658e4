package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/burnerpost/burnerpost/internal/logger"
	"github.com/burnerpost/burnerpost/internal/tracing"
)

type Config struct {
	AppConfig      *AppConfig
	Logger         *logger.Config
	Tracing        *tracing.JaegerConfig
	DatabaseConfig *DatabaseConfig
	MailtmConfig   *MailtmConfig
	TelegramConfig *TelegramConfig
	LedgerConfig   *LedgerConfig
}

func InitConfig() (*Config, error) {
	config := &Config{
		AppConfig:      &AppConfig{},
		Logger:         &logger.Config{},
		Tracing:        &tracing.JaegerConfig{},
		DatabaseConfig: &DatabaseConfig{},
		MailtmConfig:   &MailtmConfig{},
		TelegramConfig: &TelegramConfig{},
		LedgerConfig:   &LedgerConfig{},
	}

	err := godotenv.Load()
	if err != nil {
		log.Print("Unable to load .env file")
	}

	err = env.Parse(config)
	if err != nil {
		log.Fatalf("Error loading burnerpost config: %v", err)
	}

	return config, nil
}
