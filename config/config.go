package config

import (
	"github.com/burnerpost/burnerpost/internal/logger"
	"github.com/burnerpost/burnerpost/internal/tracing"
)

type AppConfig struct {
	APIPort     string `env:"PORT" envDefault:"11333"`
	APIKey      string `env:"API_KEY,required"`
	RabbitMQURL string `env:"RABBITMQ_URL"`
	Logger      *logger.Config
	Tracing     *tracing.JaegerConfig
}

type DatabaseConfig struct {
	Host            string `env:"BURNERPOST_POSTGRES_HOST,required"`
	Port            string `env:"BURNERPOST_POSTGRES_PORT,required"`
	User            string `env:"BURNERPOST_POSTGRES_USER,required"`
	DBName          string `env:"BURNERPOST_POSTGRES_DB_NAME,required"`
	Password        string `env:"BURNERPOST_POSTGRES_PASSWORD,required"`
	MaxConn         int    `env:"BURNERPOST_POSTGRES_DB_MAX_CONN"`
	MaxIdleConn     int    `env:"BURNERPOST_POSTGRES_DB_MAX_IDLE_CONN"`
	ConnMaxLifetime int    `env:"BURNERPOST_POSTGRES_DB_CONN_MAX_LIFETIME"`
	LogLevel        string `env:"BURNERPOST_POSTGRES_LOG_LEVEL" envDefault:"WARN"`
	SSLMode         string `env:"BURNERPOST_POSTGRES_SSL_MODE,required"`
}

type MailtmConfig struct {
	BaseURL        string `env:"MAILTM_BASE_URL" envDefault:"https://api.mail.tm"`
	TimeoutSeconds int    `env:"MAILTM_TIMEOUT_SECONDS" envDefault:"20"`
}

type TelegramConfig struct {
	BotToken       string `env:"TELEGRAM_BOT_TOKEN,required"`
	BaseURL        string `env:"TELEGRAM_API_BASE_URL" envDefault:"https://api.telegram.org"`
	TimeoutSeconds int    `env:"TELEGRAM_TIMEOUT_SECONDS" envDefault:"10"`
}

type LedgerConfig struct {
	RetentionDays int `env:"LEDGER_RETENTION_DAYS" envDefault:"30"`
}
