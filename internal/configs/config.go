package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DBconfig хранит конфигурацию для БД
type DBconfig struct {
	URL          string
	PreferIPv4   bool
	QueryTimeout time.Duration
	MaxConns     int
}

type RESTconfig struct {
	Port           string
	AllowedOrigins []string
	MaxUploadBytes int64
}

// SMTPConfig - почта для уведомлений о новых объявлениях
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Password string
	To       string
	Timeout  time.Duration
}

type ImagesConfig struct {
	Backend           string // local | s3
	UploadFolder      string
	AllowedExtensions []string
	S3Bucket          string
	S3Prefix          string
	AWSRegion         string
}

// RabbitMQConfig хранит конфигурацию для RabbitMQ
type RabbitMQConfig struct {
	Enabled bool
	URL     string
}

type StdoutLogConfig struct {
	Level string
	JSON  bool
}

type FluentBitConfig struct {
	Enabled bool
	Host    string
	Port    int
	Level   string
}

// AppConfig хранит всю конфигурацию приложения. Собирается один раз при старте.
type AppConfig struct {
	AppName      string
	Database     DBconfig
	Rest         RESTconfig
	SMTP         SMTPConfig
	Images       ImagesConfig
	RabbitMQ     RabbitMQConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
	AdminToken   string
	SecretKey    string
	TaxonomyFile string
}

const (
	ImageBackendLocal = "local"
	ImageBackendS3    = "s3"
)

// LoadConfig загружает конфигурацию из переменных окружения. Файл .env необязателен.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 && envPath[0] != "" {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v. Using process environment.\n", envPath, err)
	}

	return loadFromEnv()
}

func loadFromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "listings-service")

	// Читаем DATABASE URL
	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.Database.PreferIPv4 = getEnvAsBool("DB_PREFER_IPV4", false)
	cfg.Database.QueryTimeout = getEnvAsDuration("DB_QUERY_TIMEOUT", 5*time.Second)
	cfg.Database.MaxConns = getEnvAsInt("DB_MAX_CONNS", 10)

	cfg.Rest.Port = getEnvAsString("PORT", "8080")
	cfg.Rest.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", nil)
	cfg.Rest.MaxUploadBytes = int64(getEnvAsInt("MAX_UPLOAD_BYTES", 10<<20))

	cfg.SMTP.Host = getEnvAsString("SMTP_HOST", "smtp.gmail.com")
	cfg.SMTP.Port = getEnvAsInt("SMTP_PORT", 465)
	cfg.SMTP.From = os.Getenv("EMAIL_ORIGEN")
	cfg.SMTP.Password = os.Getenv("EMAIL_PASSWORD")
	cfg.SMTP.To = os.Getenv("EMAIL_DESTINO")
	cfg.SMTP.Timeout = getEnvAsDuration("SMTP_TIMEOUT", 10*time.Second)

	cfg.Images.Backend = strings.ToLower(getEnvAsString("IMAGE_STORAGE", ImageBackendLocal))
	cfg.Images.UploadFolder = getEnvAsString("UPLOAD_FOLDER", "static/uploads")
	cfg.Images.AllowedExtensions = getEnvAsList("ALLOWED_EXTENSIONS", []string{"png", "jpg", "jpeg"})
	cfg.Images.S3Bucket = os.Getenv("S3_BUCKET")
	cfg.Images.S3Prefix = getEnvAsString("S3_PREFIX", "uploads")
	cfg.Images.AWSRegion = os.Getenv("AWS_REGION")
	switch cfg.Images.Backend {
	case ImageBackendLocal:
	case ImageBackendS3:
		if cfg.Images.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET environment variable is required when IMAGE_STORAGE=s3")
		}
	default:
		return nil, fmt.Errorf("IMAGE_STORAGE must be 'local' or 's3', got %q", cfg.Images.Backend)
	}

	// Читаем конфигурацию для RabbitMQ
	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when RABBITMQ_ENABLED=true")
		}
	}

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")
	cfg.StdoutLogger.JSON = getEnvAsBool("STDOUT_LOG_JSON", false)

	cfg.AdminToken = os.Getenv("ADMIN_TOKEN")
	if cfg.AdminToken == "" {
		log.Println("WARNING: ADMIN_TOKEN is not set. Admin edit and delete are disabled.")
	}
	cfg.SecretKey = os.Getenv("SECRET_KEY")
	cfg.TaxonomyFile = os.Getenv("TAXONOMY_FILE")

	return cfg, nil
}

// getEnvAsString читает переменную окружения как строку или возвращает значение по умолчанию
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
// Логирует ошибку, если переменная есть, но не может быть преобразована в int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists || valStr == "" {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsDuration принимает "5s", "1m" или целое число секунд
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists || valStr == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(valStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(valStr)
	if err != nil || d <= 0 {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration. Using default value: %s\n", key, valStr, defaultValue)
		return defaultValue
	}
	return d
}

// getEnvAsList разбирает список через запятую, пустые элементы отбрасываются
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valStr) == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
