package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	HttpAddr      string        `yaml:"http_addr" validate:"required"`
	JwtTTL        time.Duration `yaml:"jwt_ttl" validate:"required"`
	LogLevel      string        `yaml:"log_level"`
	LogJSON       bool          `yaml:"log_json"`
	SecureCookies bool          `yaml:"secure_cookies"`
	CorsOrigins   []string      `yaml:"cors_origins"`

	DefaultPageLimit int `yaml:"default_page_limit" validate:"required,min=1"`
	MaxPageLimit     int `yaml:"max_page_limit" validate:"required,gtefield=DefaultPageLimit,max=1000"`

	MediaPath             string   `yaml:"media_path" validate:"required"`
	MaxAvatarSize         int64    `yaml:"max_avatar_size" validate:"required"`
	AllowedImageMimeTypes []string `yaml:"allowed_image_mime_types" validate:"required,min=1"`

	InventoryExpiryInterval  time.Duration `yaml:"inventory_expiry_interval" validate:"required"`
	InventorySummaryCacheTTL time.Duration `yaml:"inventory_summary_cache_ttl"`
	AccountCacheInterval     time.Duration `yaml:"account_cache_interval" validate:"required"`

	Taxi Taxi `yaml:"taxi"`
}

type Taxi struct {
	BaseFare float64 `yaml:"base_fare"`
	PerKm    float64 `yaml:"per_km" validate:"gt=0"`
	Currency string  `yaml:"currency" validate:"required,len=3"`
}

type Private struct {
	Pg            Pg      `yaml:"pg"`
	Mongo         Mongo   `yaml:"mongo"`
	Redis         Redis   `yaml:"redis"`
	JwtKey        string  `yaml:"jwt_key" validate:"required"`
	EncryptionKey string  `yaml:"encryption_key" validate:"required"`
	Email         Email   `yaml:"email"`
	Payment       Payment `yaml:"payment"`
}

type Pg struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname" validate:"required"`
}

type Mongo struct {
	URI      string `yaml:"uri" validate:"required"`
	Database string `yaml:"database" validate:"required"`
}

type Redis struct {
	Addr     string `yaml:"addr" validate:"required"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	SenderName string `yaml:"sender_name"`
	Timeout    int    `yaml:"timeout"` // seconds
}

type Payment struct {
	BaseURL   string `yaml:"base_url" validate:"required,url"`
	KeyID     string `yaml:"key_id" validate:"required"`
	KeySecret string `yaml:"key_secret" validate:"required"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic(fmt.Sprintf("can't unmarshal config file %s: %v", configPath, err))
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{Public: public, Private: private}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		panic(fmt.Sprintf("invalid config: %v", err))
	}
	return cfg
}
