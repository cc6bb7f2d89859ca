package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	URL      string
	MaxConns int

	// StatementTimeout is applied server-side to every statement.
	StatementTimeout time.Duration
}

type KafkaConfig struct {
	Brokers       []string
	Topic         string
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
	TLS           bool
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	ProfileTTL time.Duration
}

type StorageConfig struct {
	Endpoint         string
	AccessKey        string
	SecretKey        string
	Bucket           string
	Region           string
	Secure           bool
	URLExpiry        time.Duration
	// Jurisdiction selects the data residency rule applied to the bucket.
	Jurisdiction     string
	EnforceResidency bool
}

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	SendTimeout time.Duration
}

type AuthConfig struct {
	Issuer        string
	Audience      string
	Secret        string
	PublicKeyPEM  string
	PublicKeyFile string
	ClockSkew     time.Duration
}

type TLSConfig struct {
	CertFile     string
	KeyFile      string
	ClientCAFile string
	Reflection   bool
}

func (t TLSConfig) Enabled() bool { return t.CertFile != "" && t.KeyFile != "" }

type Config struct {
	GRPCPort      int
	HTTPPort      int
	DB            DatabaseConfig
	Kafka         KafkaConfig
	Redis         RedisConfig
	Storage       StorageConfig
	SMTP          SMTPConfig
	Auth          AuthConfig
	TLS           TLSConfig
	LogLevel      string
	LogFormat     string
	OTLPEndpoint  string
	PolicyFile    string
	LenderName    string
	LenderAddress string
	LenderSupport string
	ServiceName   string
}

// Validate reports missing secrets the service cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.DB.URL == "" && c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD or DATABASE_URL environment variable is required"))
	}
	if c.Auth.Secret == "" && c.Auth.PublicKeyPEM == "" && c.Auth.PublicKeyFile == "" {
		errs = append(errs, errors.New("one of JWT_SECRET, JWT_PUBLIC_KEY or JWT_PUBLIC_KEY_FILE is required"))
	}
	if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
		errs = append(errs, errors.New("MINIO_ACCESS_KEY and MINIO_SECRET_KEY environment variables are required"))
	}
	if c.Kafka.SASLMechanism != "" && c.Kafka.SASLPassword == "" {
		errs = append(errs, errors.New("KAFKA_SASL_PASSWORD is required when KAFKA_SASL_MECHANISM is set"))
	}
	return errors.Join(errs...)
}

func Load() Config {
	return Config{
		GRPCPort: getEnvInt("GRPC_PORT", 9090),
		HTTPPort: getEnvInt("HTTP_PORT", 8080),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "origination"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "origination"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),

			StatementTimeout: getEnvDuration("DB_STATEMENT_TIMEOUT", 5*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:       getEnvList("KAFKA_BROKERS", "localhost:9092"),
			Topic:         getEnv("KAFKA_TOPIC", "origination-events"),
			SASLMechanism: getEnv("KAFKA_SASL_MECHANISM", ""),
			SASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
			TLS:           getEnvBool("KAFKA_TLS", false),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", "localhost:6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvInt("REDIS_DB", 0),
			ProfileTTL: getEnvDuration("PROFILE_CACHE_TTL", 5*time.Minute),
		},
		Storage: StorageConfig{
			Endpoint:         getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:        getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:        getEnv("MINIO_SECRET_KEY", ""),
			Bucket:           getEnv("MINIO_BUCKET", "sanction-letters"),
			Region:           getEnv("MINIO_REGION", ""),
			Secure:           getEnvBool("MINIO_SECURE", false),
			URLExpiry:        getEnvDuration("DOCUMENT_URL_EXPIRY", 7*24*time.Hour),
			Jurisdiction:     getEnv("DATA_JURISDICTION", "IN"),
			EnforceResidency: getEnvBool("DATA_RESIDENCY_ENFORCE", true),
		},
		SMTP: SMTPConfig{
			Host:        getEnv("SMTP_HOST", ""),
			Port:        getEnvInt("SMTP_PORT", 587),
			Username:    getEnv("SMTP_USERNAME", ""),
			Password:    getEnv("SMTP_PASSWORD", ""),
			From:        getEnv("SMTP_FROM", ""),
			SendTimeout: getEnvDuration("SMTP_SEND_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			Issuer:        getEnv("JWT_ISSUER", "bib-gateway"),
			Audience:      getEnv("JWT_AUDIENCE", "loan-origination"),
			Secret:        getEnv("JWT_SECRET", ""),
			PublicKeyPEM:  getEnv("JWT_PUBLIC_KEY", ""),
			PublicKeyFile: getEnv("JWT_PUBLIC_KEY_FILE", ""),
			ClockSkew:     getEnvDuration("JWT_CLOCK_SKEW", 30*time.Second),
		},
		TLS: TLSConfig{
			CertFile:     getEnv("TLS_CERT_FILE", ""),
			KeyFile:      getEnv("TLS_KEY_FILE", ""),
			ClientCAFile: getEnv("TLS_CLIENT_CA_FILE", ""),
			Reflection:   getEnvBool("GRPC_REFLECTION", false),
		},
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		OTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		PolicyFile:    getEnv("UW_POLICY_FILE", ""),
		LenderName:    getEnv("LENDER_NAME", "BIB Finance Ltd"),
		LenderAddress: getEnv("LENDER_ADDRESS", ""),
		LenderSupport: getEnv("LENDER_SUPPORT", ""),
		ServiceName:   "loan-origination",
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	var out []string
	for _, s := range strings.Split(getEnv(key, fallback), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
