package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	httpapi "github.com/localconnect/catalog-manager/internal/api/http"
	"github.com/localconnect/catalog-manager/internal/auth/jwt"
	"github.com/localconnect/catalog-manager/internal/bucket"
	"github.com/localconnect/catalog-manager/internal/catalog"
	"github.com/localconnect/catalog-manager/internal/store"
	"github.com/localconnect/catalog-manager/log"
	"github.com/spf13/viper"
)

// Config represents the global configuration for the service.
type Config struct {
	DB      store.Config   `mapstructure:"mysql"`
	Logger  log.Config     `mapstructure:"logger"`
	HTTP    httpapi.Config `mapstructure:"http"`
	Auth    jwt.Config     `mapstructure:"auth"`
	Bucket  bucket.Config  `mapstructure:"bucket"`
	Catalog catalog.Config `mapstructure:"catalog"`
}

// LoadConfig loads the configuration from a file and/or environment variables.
// Environment variables take precedence over config file values.
// Nested keys use a double underscore, e.g. MYSQL__DSN for mysql.dsn.
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))
	bindEnvVars(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/config/catalog-manager")
		v.AddConfigPath("/etc/catalog-manager")
		_ = v.ReadInConfig()
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}

	if config.DB.DSN == "" {
		config.DB.DSN = dsnFromEnv()
	}

	return &config, nil
}

// dsnFromEnv builds a DSN out of MYSQL_* variables. It returns "" unless
// host, user, password and database are all present.
func dsnFromEnv() string {
	host := os.Getenv("MYSQL_HOST")
	port := os.Getenv("MYSQL_PORT")
	user := os.Getenv("MYSQL_USER")
	password := os.Getenv("MYSQL_PASSWORD")
	database := os.Getenv("MYSQL_DATABASE")

	if host == "" || user == "" || password == "" || database == "" {
		return ""
	}
	if port == "" {
		port = "3306"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true",
		user, password, host, port, database)
}

// bindEnvVars binds flat env names (MYSQL_DSN) next to the nested ones (MYSQL__DSN).
func bindEnvVars(v *viper.Viper) {
	// MySQL
	_ = v.BindEnv("mysql.dsn", "MYSQL_DSN")
	_ = v.BindEnv("mysql.automigrate", "MYSQL_AUTOMIGRATE")
	_ = v.BindEnv("mysql.max_open_connections", "MYSQL_MAX_OPEN_CONNECTIONS")
	_ = v.BindEnv("mysql.max_idle_connections", "MYSQL_MAX_IDLE_CONNECTIONS")

	// Logger
	_ = v.BindEnv("logger.level", "LOG_LEVEL")
	_ = v.BindEnv("logger.add_source", "LOG_ADD_SOURCE")

	// HTTP
	_ = v.BindEnv("http.port", "HTTP_PORT")
	_ = v.BindEnv("http.address", "HTTP_ADDRESS")
	_ = v.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")
	_ = v.BindEnv("http.search_per_minute", "HTTP_SEARCH_PER_MINUTE")

	// Auth
	_ = v.BindEnv("auth.jwtSecret", "AUTH_JWT_SECRET")
	_ = v.BindEnv("auth.tokenTTL", "AUTH_TOKEN_TTL")

	// Bucket
	_ = v.BindEnv("bucket.s3AccessKey", "BUCKET_S3_ACCESS_KEY")
	_ = v.BindEnv("bucket.s3SecretAccessKey", "BUCKET_S3_SECRET_ACCESS_KEY")
	_ = v.BindEnv("bucket.s3Endpoint", "BUCKET_S3_ENDPOINT")
	_ = v.BindEnv("bucket.s3BucketName", "BUCKET_S3_BUCKET_NAME")
	_ = v.BindEnv("bucket.s3BucketLocation", "BUCKET_S3_BUCKET_LOCATION")
	_ = v.BindEnv("bucket.baseFolder", "BUCKET_BASE_FOLDER")
	_ = v.BindEnv("bucket.imageFolder", "BUCKET_IMAGE_FOLDER")
	_ = v.BindEnv("bucket.subdomainEndpoint", "BUCKET_SUBDOMAIN_ENDPOINT")
	_ = v.BindEnv("bucket.defaultImage", "BUCKET_DEFAULT_IMAGE")
	_ = v.BindEnv("bucket.maxImageSize", "BUCKET_MAX_IMAGE_SIZE")
	_ = v.BindEnv("bucket.insecure", "BUCKET_INSECURE")

	// Catalog
	_ = v.BindEnv("catalog.page_size", "CATALOG_PAGE_SIZE")
	_ = v.BindEnv("catalog.public_page_size", "CATALOG_PUBLIC_PAGE_SIZE")
}
