package config

import (
	"os"
	"strconv"
)

type Config struct {
	DB_USERNAME string
	DB_PASSWORD string
	DB_HOST     string
	DB_PORT     string
	DB_NAME     string
	DISABLE_TLS string

	// HTTP
	LISTEN_ADDR string

	// Frontend origin; post-login redirects never leave it
	APP_URL string

	// Session tokens for password login
	JWT_SECRET    string
	JWT_TTL_HOURS int

	// Optional enterprise SSO
	AUTH0_DOMAIN        string
	AUTH0_CLIENT_ID     string
	AUTH0_CLIENT_SECRET string
	AUTH0_CALLBACK_URL  string
	STATE_SECRET        string

	// Login rate limiting
	REDIS_ADDR     string
	REDIS_PASSWORD string

	// Otel
	OTEL_EXPORTER_OTLP_ENDPOINT string
}

func ReadConfig() *Config {
	jwtTTL := 12
	if ttlStr := os.Getenv("JWT_TTL_HOURS"); ttlStr != "" {
		if ttl, err := strconv.Atoi(ttlStr); err == nil {
			jwtTTL = ttl
		}
	}

	return &Config{
		DB_USERNAME: os.Getenv("DB_USERNAME"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_NAME:     os.Getenv("DB_NAME"),
		DISABLE_TLS: os.Getenv("DISABLE_TLS"),

		LISTEN_ADDR: GetEnvOrDefault("LISTEN_ADDR", "0.0.0.0:7070"),

		APP_URL: GetEnvOrDefault("APP_URL", "http://localhost:3000"),

		JWT_SECRET:    os.Getenv("JWT_SECRET"),
		JWT_TTL_HOURS: jwtTTL,

		AUTH0_DOMAIN:        os.Getenv("AUTH0_DOMAIN"),
		AUTH0_CLIENT_ID:     os.Getenv("AUTH0_CLIENT_ID"),
		AUTH0_CLIENT_SECRET: os.Getenv("AUTH0_CLIENT_SECRET"),
		AUTH0_CALLBACK_URL:  os.Getenv("AUTH0_CALLBACK_URL"),
		STATE_SECRET:        os.Getenv("STATE_SECRET"),

		REDIS_ADDR:     os.Getenv("REDIS_ADDR"),
		REDIS_PASSWORD: os.Getenv("REDIS_PASSWORD"),

		OTEL_EXPORTER_OTLP_ENDPOINT: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
