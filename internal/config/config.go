package config

import (
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string        `env:"PORT" envDefault:"8080"`
	DataAPIURL  string        `env:"DATA_API_URL"`
	BudgetFile  string        `env:"BUDGET_FILE" envDefault:"budgets.yaml"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	var c Config
	err := env.Parse(&c)
	return c, err
}
