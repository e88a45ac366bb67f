package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConf struct {
	Env          string        `mapstructure:"env"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type MongoConf struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConf struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConf struct {
	Secret     string `mapstructure:"secret"`
	ExpireDays int    `mapstructure:"expire_days"`
}

type MailerConf struct {
	APIKey    string `mapstructure:"api_key"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
}

type GeocoderConf struct {
	APIKey string `mapstructure:"api_key"`
}

type AWSConf struct {
	Region string `mapstructure:"region"`
	Bucket string `mapstructure:"bucket"`
}

type UploadConf struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

type RateLimitConf struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

type Config struct {
	App       AppConf       `mapstructure:"app"`
	Mongo     MongoConf     `mapstructure:"mongodb"`
	Redis     RedisConf     `mapstructure:"redis"`
	JWT       JWTConf       `mapstructure:"jwt"`
	Mailer    MailerConf    `mapstructure:"mailer"`
	Geocoder  GeocoderConf  `mapstructure:"geocoder"`
	AWS       AWSConf       `mapstructure:"aws"`
	Upload    UploadConf    `mapstructure:"upload"`
	RateLimit RateLimitConf `mapstructure:"rate_limit"`

	// derived
	JWTExpire time.Duration
}

// Load reads the YAML config file, applying environment overrides on top.
// Secrets (JWT_SECRET, MONGO_URI, MAILER_API_KEY, GEOCODER_API_KEY) are
// normally supplied via the environment, optionally from a .env file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if s := v.GetString("JWT_SECRET"); s != "" {
		cfg.JWT.Secret = s
	}
	if s := v.GetString("MONGO_URI"); s != "" {
		cfg.Mongo.URI = s
	}
	if s := v.GetString("REDIS_ADDR"); s != "" {
		cfg.Redis.Addr = s
	}
	if s := v.GetString("MAILER_API_KEY"); s != "" {
		cfg.Mailer.APIKey = s
	}
	if s := v.GetString("GEOCODER_API_KEY"); s != "" {
		cfg.Geocoder.APIKey = s
	}

	if cfg.App.Port == 0 {
		cfg.App.Port = 5000
	}
	if cfg.JWT.ExpireDays == 0 {
		cfg.JWT.ExpireDays = 30
	}
	if cfg.Upload.MaxBytes == 0 {
		cfg.Upload.MaxBytes = 1 << 20
	}
	if cfg.RateLimit.Requests == 0 {
		cfg.RateLimit.Requests = 100
	}
	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = 10 * time.Minute
	}
	cfg.JWTExpire = time.Duration(cfg.JWT.ExpireDays) * 24 * time.Hour

	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.Mongo.URI == "" {
		return nil, errors.New("MONGO_URI is required")
	}

	return &cfg, nil
}
