package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		Driver       string `yaml:"driver"` // postgres, mysql
		DSN          string `yaml:"url"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
		SlowQueryMs  int    `yaml:"slow_query_ms"`
	} `yaml:"database"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
		TemplatesDir string `yaml:"templates_dir"`
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	Storage struct {
		Type          string `yaml:"type"`      // local, s3, cloudflare_r2, cloudinary
		BasePath      string `yaml:"base_path"` // local
		BaseURL       string `yaml:"base_url"`  // публичный префикс URL
		Bucket        string `yaml:"bucket"`
		Region        string `yaml:"region"`
		AccessKey     string `yaml:"access_key"`
		SecretKey     string `yaml:"secret_key"`
		Endpoint      string `yaml:"endpoint"`
		UseSSL        bool   `yaml:"use_ssl"`
		PublicRead    bool   `yaml:"public_read"`
		CloudinaryURL string `yaml:"cloudinary_url"`
		Folder        string `yaml:"folder"`
	} `yaml:"storage"`

	Upload struct {
		MaxSize           int64    `yaml:"max_size"`
		AllowedTypes      []string `yaml:"allowed_types"`
		ImageQuality      int      `yaml:"image_quality"`
		MaxImageDimension int      `yaml:"max_image_dimension"`
	} `yaml:"upload"`

	Pagination struct {
		DefaultSize int    `yaml:"default_size"`
		MaxSize     int    `yaml:"max_size"`
		DefaultSort string `yaml:"default_sort"`
	} `yaml:"pagination"`

	RateLimit struct {
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
	} `yaml:"rate_limit"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	FirstAdmin struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"first_admin"`
}

var AppConfig *Config

// LoadConfig загружает конфигурацию в AppConfig, при ошибке завершает процесс
func LoadConfig() {
	if err := godotenv.Load(); err == nil {
		log.Println("Загружен .env")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// Load читает YAML (если файл есть), накладывает переменные окружения и проверяет результат
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		log.Printf("Config file %s not found, using defaults and environment", path)
	default:
		return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default - значения по умолчанию
func Default() *Config {
	var cfg Config

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Server.Env = "development"

	cfg.Database.Driver = "postgres"
	cfg.Database.MaxOpenConns = 25
	cfg.Database.MaxIdleConns = 5
	cfg.Database.SlowQueryMs = 200

	cfg.Email.Enabled = true
	cfg.Email.SMTPPort = 587
	cfg.Email.FromName = "Workout Scheduler"

	cfg.JWT.TTL = 60

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/uploads"
	cfg.Storage.Folder = "exercises"

	cfg.Upload.MaxSize = 10 * 1024 * 1024
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	cfg.Upload.ImageQuality = 85
	cfg.Upload.MaxImageDimension = 1600

	cfg.Pagination.DefaultSize = 10
	cfg.Pagination.MaxSize = 100
	cfg.Pagination.DefaultSort = "created_at"

	cfg.RateLimit.RequestsPerSecond = 1
	cfg.RateLimit.Burst = 5

	cfg.CORS.AllowedOrigins = []string{"*"}

	return &cfg
}

func (c *Config) applyEnv() {
	setString(&c.Database.DSN, "DATABASE_URL")
	setString(&c.Database.Driver, "DATABASE_DRIVER")
	setString(&c.Server.Env, "SERVER_ENV")
	setInt(&c.Server.Port, "SERVER_PORT")
	setString(&c.JWT.Secret, "JWT_SECRET")
	setInt(&c.JWT.TTL, "JWT_TTL_MINUTES")
	setString(&c.Email.SMTPHost, "SMTP_HOST")
	setInt(&c.Email.SMTPPort, "SMTP_PORT")
	setString(&c.Email.SMTPUsername, "SMTP_USER")
	setString(&c.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&c.Email.FromEmail, "MAIL_FROM")
	setString(&c.Storage.Type, "STORAGE_TYPE")
	setString(&c.Storage.CloudinaryURL, "CLOUDINARY_URL")
	setString(&c.FirstAdmin.Email, "FIRST_ADMIN_EMAIL")
	setString(&c.FirstAdmin.Password, "FIRST_ADMIN_PASSWORD")

	if v := os.Getenv("EMAIL_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Email.Enabled = b
		}
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.CORS.AllowedOrigins = splitList(v)
	}
}

// applyDefaults чинит значения, обнуленные YAML-файлом
func (c *Config) applyDefaults() {
	if c.Pagination.DefaultSize <= 0 {
		c.Pagination.DefaultSize = 10
	}
	if c.Pagination.MaxSize <= 0 {
		c.Pagination.MaxSize = 100
	}
	if c.Pagination.DefaultSort == "" {
		c.Pagination.DefaultSort = "created_at"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.JWT.TTL <= 0 {
		c.JWT.TTL = 60
	}
}

// Validate собирает все отсутствующие обязательные значения в одну ошибку
func (c *Config) Validate() error {
	var missing []string

	if c.Database.DSN == "" {
		missing = append(missing, "database.url (DATABASE_URL)")
	}
	if c.JWT.Secret == "" {
		missing = append(missing, "jwt.secret (JWT_SECRET)")
	}
	if c.Email.Enabled && c.Email.SMTPHost == "" {
		missing = append(missing, "email.smtp_host (SMTP_HOST)")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
