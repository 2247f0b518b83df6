package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectID       string
	Region          string
	LogLevel        string
	DefaultCurrency string
}

func New() *Config {
	// .env is a local-development convenience; on Cloud Run the variables
	// come from the service configuration.
	_ = godotenv.Load()

	return &Config{
		ProjectID:       os.Getenv("PROJECTID"),
		Region:          os.Getenv("REGION"),
		LogLevel:        os.Getenv("LOGLEVEL"),
		DefaultCurrency: getDefaultCurrency(os.Getenv("DEFAULTCURRENCY")),
	}
}

func getDefaultCurrency(currency string) string {
	if currency == "" {
		return "USD"
	}
	return currency
}
