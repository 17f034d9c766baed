// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	ClientURL               string `yaml:"client_url" env:"CLIENT_URL"`
	MailFrom                string `yaml:"mail_from" env:"MAIL_FROM"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	SMTP                    `yaml:"smtp"`
	RabbitMQ                `yaml:"rabbitmq"`
	RateLimits              `yaml:"rate_limits"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"localhost:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для работы с jwt-токенами.
// Секреты access и refresh токенов независимы: компрометация одного
// не дает возможности подделать токены другого класса.
type JWTToken struct {
	JWTAccessSecretKey  string        `yaml:"jwt_access_secret_key" env:"JWT_ACCESS_SECRET"`
	JWTRefreshSecretKey string        `yaml:"jwt_refresh_secret_key" env:"JWT_REFRESH_SECRET"`
	AccessTokenTTL      time.Duration `yaml:"access_token_ttl" env-default:"1h"`
	RefreshTokenTTL     time.Duration `yaml:"refresh_token_ttl" env-default:"168h"`
}

// SMTP структура для настройки почтового транспорта
type SMTP struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort string `yaml:"smtp_port"`
	SMTPUser string `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPass string `yaml:"smtp_pass" env:"SMTP_PASS"`
}

// RabbitMQ структура для настройки подключения к брокеру сообщений
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"rabbitmq_url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"rabbitmq_max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"rabbitmq_retry_delay" env-default:"3s"`
}

// RateLimits структура с порогами фильтра допуска запросов.
// Счетчики хранятся в redis по ключу клиентского IP, окно фиксированное.
type RateLimits struct {
	SignupWindow time.Duration `yaml:"signup_window" env-default:"15m"`
	SignupMax    int           `yaml:"signup_max" env-default:"3"`
	LoginWindow  time.Duration `yaml:"login_window" env-default:"15m"`
	LoginMax     int           `yaml:"login_max" env-default:"200"`
}

// MustLoad функция для загрузки конфига, путь к файлу берется
// из переменной окружения CONFIG_PATH
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
