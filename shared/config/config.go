package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultGatewayServices = "service1=https://0.0.0.0:8001,service2=https://0.0.0.0:8002"

type Config struct {
	Port        string
	GatewayPort string
	Postgres    PostgresConfig
	Kafka       KafkaConfig
	Redis       RedisConfig
	Log         LogConfig
	CacheTTL    time.Duration
	Auth        AuthConfig
	// Services maps a gateway service name to its base URL.
	Services map[string]string
}

type PostgresConfig struct {
	Host    string
	Port    string
	Name    string
	User    string
	Pass    string
	SSLMode string
	Echo    bool
}

type KafkaConfig struct {
	Brokers       []string
	ConsumeTopics []string
	SendTopics    []string
	GroupID       string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	PoolSize int
}

type AuthConfig struct {
	// JWTSecret signs access tokens. Empty means a random per-process secret.
	JWTSecret string
	TokenTTL  time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	echo, err := strconv.ParseBool(getEnv("ECHO", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid ECHO: %w", err)
	}

	ttl, err := time.ParseDuration(getEnv("CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	redisPool, err := strconv.Atoi(getEnv("REDIS_POOL_SIZE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_POOL_SIZE: %w", err)
	}

	services, err := ParseServices(getEnv("GATEWAY_SERVICES", defaultGatewayServices))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:        getEnv("PORT", "8000"),
		GatewayPort: getEnv("GATEWAY_PORT", "8080"),
		Postgres: PostgresConfig{
			Host:    getEnv("PG_HOST", "postgres"),
			Port:    getEnv("PG_PORT", "5432"),
			Name:    getEnv("PG_NAME", "dip_1"),
			User:    getEnv("PG_USER", "postgres"),
			Pass:    getEnv("PG_PASS", "postgres"),
			SSLMode: getEnv("PG_SSLMODE", "disable"),
			Echo:    echo,
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(getEnv("KAFKA_BOOTSTRAP_SERVERS", "kafka:9092")),
			ConsumeTopics: splitList(getEnv("KAFKA_CONSUME_TOPICS", "RoadCondition")),
			SendTopics:    splitList(getEnv("SEND_TOPICS", "Car,Road,RoadCondition")),
			GroupID:       getEnv("GROUP_ID", "dip-user"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "redis"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			PoolSize: redisPool,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		CacheTTL: ttl,
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  tokenTTL,
		},
		Services: services,
	}, nil
}

// DSN builds a postgres:// URL so credentials with reserved characters survive.
func (p PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Pass),
		Host:     p.Host + ":" + p.Port,
		Path:     "/" + p.Name,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}
	return u.String()
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// ParseServices parses "name=url,name=url" into a registry.
func ParseServices(raw string) (map[string]string, error) {
	services := make(map[string]string)
	for _, entry := range splitList(raw) {
		name, base, ok := strings.Cut(entry, "=")
		name, base = strings.TrimSpace(name), strings.TrimSpace(base)
		if !ok || name == "" || base == "" {
			return nil, fmt.Errorf("invalid GATEWAY_SERVICES entry %q", entry)
		}
		if _, err := url.ParseRequestURI(base); err != nil {
			return nil, fmt.Errorf("invalid url for service %s: %w", name, err)
		}
		services[name] = strings.TrimRight(base, "/")
	}
	return services, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
