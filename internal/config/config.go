package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Bot     Bot
	Storage Storage
	Backup  Backup
	Locale  Locale
	Server  Server
	Log     Log
}

type Bot struct {
	Token string `env:"BOT_TOKEN,required" json:"-"`

	// OversightID — контролирующий аккаунт: получает уведомления о каждой
	// закрытой сделке и вправе завершить любую.
	OversightID int64 `env:"BOT_OVERSIGHT_ID,required"`

	RateInterval time.Duration `env:"BOT_RATE_INTERVAL" envDefault:"300ms"`
}

type Locale struct {
	Dir     string `env:"LOCALE_DIR" envDefault:"locales"`
	Default string `env:"LOCALE_DEFAULT" envDefault:"ru"`
}

type Log struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
