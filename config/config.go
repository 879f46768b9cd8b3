package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения. Объект
// неизменяемый: собирается один раз при старте процесса и передаётся
// явно в сервисы, которым он нужен (никакого глобального состояния).
type Config struct {
	// Директория CIMS (members, login, group mapping) — общая схема,
	// которой владеют несколько систем.
	CIMSDatabaseURL string
	// Проектная схема (teams, events, matches, venues, equipment...).
	ProjectDatabaseURL string

	JWTSecretKey string
	ServerPort   int

	// GroupID — идентификатор нашей системы в MemberGroupMapping.
	// Процедура условного удаления вправе снять только эту связь.
	GroupID int
	// DefaultPassword выдаётся новым членам, созданным администратором.
	DefaultPassword string
	// TeamMaxPlayers — предел состава команды на одно событие.
	TeamMaxPlayers int

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cimsURL := os.Getenv("CIMS_DATABASE_URL")
	if cimsURL == "" {
		return nil, fmt.Errorf("CIMS_DATABASE_URL environment variable is not set")
	}

	projectURL := os.Getenv("PROJECT_DATABASE_URL")
	if projectURL == "" {
		return nil, fmt.Errorf("PROJECT_DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	groupID, err := intEnv("GROUP_ID", 2)
	if err != nil {
		return nil, err
	}

	maxPlayers, err := intEnv("TEAM_MAX_PLAYERS", 12)
	if err != nil {
		return nil, err
	}
	if maxPlayers <= 0 {
		return nil, fmt.Errorf("TEAM_MAX_PLAYERS must be positive, got %d", maxPlayers)
	}

	defaultPassword := os.Getenv("DEFAULT_PASSWORD")
	if defaultPassword == "" {
		defaultPassword = "default123"
	}

	cfg := &Config{
		CIMSDatabaseURL:    cimsURL,
		ProjectDatabaseURL: projectURL,
		JWTSecretKey:       jwtKey,
		ServerPort:         port,
		GroupID:            groupID,
		DefaultPassword:    defaultPassword,
		TeamMaxPlayers:     maxPlayers,
		R2AccountID:        os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:      os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:  os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:       os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:    os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

func intEnv(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return value, nil
}
