package config

import (
	"fmt"
	"os"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

// ProvidersConfig holds the external source credentials. Every key is
// optional: a missing key turns the provider into a no-signal source
// instead of an error.
type ProvidersConfig struct {
	SpotifyAccessToken string
	LastfmAPIKey       string
	TicketmasterAPIKey string
}

type Config struct {
	Repositories RepositoriesConfig
	Providers    ProvidersConfig
	ServerPort   string
	MetricsAddr  string
	JWTSecret    string
	AdminToken   string
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "gigradar"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		Providers: ProvidersConfig{
			SpotifyAccessToken: os.Getenv("SPOTIFY_ACCESS_TOKEN"),
			LastfmAPIKey:       os.Getenv("LASTFM_API_KEY"),
			TicketmasterAPIKey: os.Getenv("TICKETMASTER_API_KEY"),
		},
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8080"),
		MetricsAddr: getEnvOrDefault("METRICS_ADDR", ":9092"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		AdminToken:  os.Getenv("ADMIN_TOKEN"),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
