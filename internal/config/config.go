package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит настройки приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Jira     JiraConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port string
}

// DatabaseConfig - настройки подключения к БД
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JiraConfig - настройки интеграции с Jira
type JiraConfig struct {
	BaseURL           string
	Email             string
	APIToken          string
	DefaultProjectKey string
	Timeout           time.Duration
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Configured сообщает, заданы ли учётные данные Jira
func (c *JiraConfig) Configured() bool {
	return c.BaseURL != "" && c.Email != "" && c.APIToken != ""
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "fotanalytics"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Jira: JiraConfig{
			BaseURL:           getEnv("JIRA_URL", ""),
			Email:             getEnv("JIRA_EMAIL", ""),
			APIToken:          getEnv("JIRA_API_TOKEN", ""),
			DefaultProjectKey: getEnv("JIRA_PROJECT_KEY", "PROJ"),
			Timeout:           time.Duration(getEnvAsInt("JIRA_TIMEOUT_SECONDS", 30)) * time.Second,
		},
	}
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает числовое значение переменной окружения
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
