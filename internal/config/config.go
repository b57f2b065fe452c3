// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                    string `yaml:"env" env:"ENV" env-default:"local"`
	MongoConnectionString  string `yaml:"mongo_connection_string" env:"MONGO_CONNECTION_STRING"`
	MongoDatabase          string `yaml:"mongo_database" env:"MONGO_DATABASE" env-default:"asanaflow"`
	RabbitConnectionString string `yaml:"rabbit_connection_string" env:"RABBIT_CONNECTION_STRING"`
	RedisConnection        `yaml:"redis_connection"`
	HTTPServer             `yaml:"http_server"`
	JWTToken               `yaml:"jwttoken"`
	Gateway                `yaml:"gateway"`
	Locale                 `yaml:"locale"`
	Checkout               `yaml:"checkout"`
	SMTP                   `yaml:"smtp"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"0.0.0.0:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для проверки токенов внешнего сервиса аутентификации
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Gateway настройки платежного шлюза. Шлюз принимает только внутреннюю
// валюту, курс пересчета фиксированный и задается конфигом.
type Gateway struct {
	KeyID     string  `yaml:"key_id" env:"GATEWAY_KEY_ID"`
	KeySecret string  `yaml:"key_secret" env:"GATEWAY_KEY_SECRET"`
	APIURL    string  `yaml:"api_url" env-default:"https://api.razorpay.com/v1"`
	Currency  string  `yaml:"currency" env-default:"INR"`
	FXRate    float64 `yaml:"fx_rate" env-default:"1.0"`
}

// Locale настройки определения региона посетителя
type Locale struct {
	HomeCountry   string        `yaml:"home_country" env-default:"IN"`
	HomeTimezone  string        `yaml:"home_timezone" env-default:"Asia/Calcutta"`
	HomeLanguages []string      `yaml:"home_languages" env-default:"hi,en-IN"`
	GeoAPIURL     string        `yaml:"geo_api_url" env-default:"https://ipapi.co"`
	RegionTTL     time.Duration `yaml:"region_ttl" env-default:"12h"`
}

// Checkout настройки оркестратора оформления покупки
type Checkout struct {
	ResumeDelay time.Duration `yaml:"resume_delay" env-default:"500ms"`
	PendingTTL  time.Duration `yaml:"pending_ttl" env-default:"15m"`
}

// SMTP настройки почтового транспорта воркера уведомлений
type SMTP struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     string `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
}

// MustLoad функция для загрузки конфига, путь берется из переменной CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
