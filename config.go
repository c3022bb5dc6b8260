package credstore

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr           string `env:"ADDR" envDefault:":3000"`
	UsersFile      string `env:"USERS_FILE" envDefault:"data/users.json"`
	StaticDir      string `env:"STATIC_DIR" envDefault:"public"`
	StoreBackend   string `env:"STORE_BACKEND" envDefault:"file"`
	MongoURI       string `env:"MONGO_URI" envDefault:"mongodb://127.0.0.1:27017"`
	MongoDatabase  string `env:"MONGO_DATABASE" envDefault:"credstore"`
	PasswordScheme string `env:"PASSWORD_SCHEME" envDefault:"plain"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
