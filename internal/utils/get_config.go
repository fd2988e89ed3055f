package utils

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppEnv  string `yaml:"APP_ENV" env:"APP_ENV" envDefault:"development"`
	AppPort string `yaml:"APP_PORT" env:"APP_PORT" envDefault:"5000"`
	AppURL  string `yaml:"APP_URL" env:"APP_URL" envDefault:"http://localhost:5000"`

	// Database configuration
	DBDriver          string        `yaml:"DB_DRIVER" env:"DB_DRIVER" envDefault:"postgres"`
	DBUser            string        `yaml:"DB_USER" env:"DB_USER" envDefault:"postgres"`
	DBName            string        `yaml:"DB_NAME" env:"DB_NAME" envDefault:"recipehub"`
	DBPassword        string        `yaml:"DB_PASSWORD" env:"DB_PASSWORD"`
	DBPort            string        `yaml:"DB_PORT" env:"DB_PORT" envDefault:"5432"`
	DBHost            string        `yaml:"DB_HOST" env:"DB_HOST" envDefault:"localhost"`
	DBSSLMode         string        `yaml:"DB_SSLMODE" env:"DB_SSLMODE" envDefault:"disable"`
	DBTimeZone        string        `yaml:"DB_TIMEZONE" env:"DB_TIMEZONE" envDefault:"UTC"`
	DBPath            string        `yaml:"DB_PATH" env:"DB_PATH" envDefault:"recipehub.db"`
	DBMaxOpenConns    int           `yaml:"DB_MAX_OPEN_CONNS" env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	DBMaxIdleConns    int           `yaml:"DB_MAX_IDLE_CONNS" env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxIdleTime time.Duration `yaml:"DB_CONN_MAX_IDLE_TIME" env:"DB_CONN_MAX_IDLE_TIME" envDefault:"30s"`
	DBConnectTimeout  time.Duration `yaml:"DB_CONNECT_TIMEOUT" env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`

	// JWT and password hashing
	JWTSecret    string        `yaml:"JWT_SECRET" env:"JWT_SECRET"`
	JWTExpiresIn time.Duration `yaml:"JWT_EXPIRES_IN" env:"JWT_EXPIRES_IN" envDefault:"168h"`
	JWTIssuer    string        `yaml:"JWT_ISSUER" env:"JWT_ISSUER" envDefault:"RECIPEHUB"`
	BcryptCost   int           `yaml:"BCRYPT_COST" env:"BCRYPT_COST" envDefault:"10"`

	// File storage
	StorageDriver    string `yaml:"STORAGE_DRIVER" env:"STORAGE_DRIVER" envDefault:"local"`
	UploadDir        string `yaml:"UPLOAD_DIR" env:"UPLOAD_DIR" envDefault:"./uploads"`
	UploadPublicPath string `yaml:"UPLOAD_PUBLIC_PATH" env:"UPLOAD_PUBLIC_PATH" envDefault:"/uploads"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET" env:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION" env:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY" env:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY" env:"AWS_SECRET_KEY"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST" env:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT" env:"SMTP_PORT" envDefault:"587"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME" env:"SMTP_SENDER_NAME" envDefault:"RecipeHub"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL" env:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD" env:"SMTP_AUTH_PASSWORD"`

	// Rate limiting
	RedisAddr       string        `yaml:"REDIS_ADDR" env:"REDIS_ADDR"`
	RedisPassword   string        `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD"`
	RedisDB         int           `yaml:"REDIS_DB" env:"REDIS_DB" envDefault:"0"`
	RateLimitMax    int           `yaml:"RATE_LIMIT_MAX" env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimitWindow time.Duration `yaml:"RATE_LIMIT_WINDOW" env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	// HTTP
	CORSAllowOrigins string `yaml:"CORS_ALLOW_ORIGINS" env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	LogFile          string `yaml:"LOG_FILE" env:"LOG_FILE" envDefault:"./logs/app.log"`
}

var config Config

// LoadConfig fills the package config. Precedence is environment, then
// config.yaml, then the envDefault values.
func LoadConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := LoadConfigFrom(path)
	if err != nil {
		log.Printf("Error loading config: %s\n", err)
	}
	config = cfg
}

func LoadConfigFrom(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error reading .env file: %s\n", err)
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err != nil {
		return cfg, err
	}

	file, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error reading YAML file: %s\n", err)
		}
	} else if err := yaml.Unmarshal(file, &cfg); err != nil {
		return cfg, err
	}

	// second pass applies only variables that are actually set
	if err := env.ParseWithOptions(&cfg, env.Options{DefaultValueTagName: "envNoDefault"}); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Get returns the loaded configuration.
func Get() Config {
	return config
}

// SetConfig replaces the loaded configuration. Used by tests and the desktop launcher.
func SetConfig(cfg Config) {
	config = cfg
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func GetConfig(key string) string {
	switch key {
	case "APP_ENV":
		return config.AppEnv
	case "APP_PORT":
		return config.AppPort
	case "APP_URL":
		return config.AppURL
	case "DB_DRIVER":
		return config.DBDriver
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "DB_SSLMODE":
		return config.DBSSLMode
	case "DB_TIMEZONE":
		return config.DBTimeZone
	case "DB_PATH":
		return config.DBPath
	case "JWT_SECRET":
		return config.JWTSecret
	case "JWT_ISSUER":
		return config.JWTIssuer
	case "JWT_EXPIRES_IN":
		return config.JWTExpiresIn.String()
	case "BCRYPT_COST":
		return strconv.Itoa(config.BcryptCost)
	case "STORAGE_DRIVER":
		return config.StorageDriver
	case "UPLOAD_DIR":
		return config.UploadDir
	case "UPLOAD_PUBLIC_PATH":
		return config.UploadPublicPath
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "REDIS_ADDR":
		return config.RedisAddr
	case "REDIS_PASSWORD":
		return config.RedisPassword
	case "CORS_ALLOW_ORIGINS":
		return config.CORSAllowOrigins
	case "LOG_FILE":
		return config.LogFile
	default:
		return ""
	}
}
