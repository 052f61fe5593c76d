package config

import "time"

type Storage struct {
	// Dir — каталог с JSON-документами коллекций. Создается при старте,
	// если его еще нет.
	Dir string `env:"STORAGE_DIR" envDefault:"data"`
}

type Backup struct {
	Enabled  bool          `env:"BACKUP_ENABLED" envDefault:"true"`
	Dir      string        `env:"BACKUP_DIR" envDefault:"backups"`
	Interval time.Duration `env:"BACKUP_INTERVAL" envDefault:"1h"`
	Keep     int           `env:"BACKUP_KEEP" envDefault:"24"`
}
