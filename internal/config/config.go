// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Admin                   `yaml:"admin"`
	SMTP                    `yaml:"smtp"`
	RabbitMQ                `yaml:"rabbitmq"`
	Notifications           `yaml:"notifications"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP   string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP   time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout   time.Duration `yaml:"idle_timeout" env-default:"60s"`
	AllowedOrigin string        `yaml:"allowed_origin" env-default:"*"`
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
	CacheTTL     time.Duration `yaml:"cache_ttl" env-default:"1h"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"12h"`
}

// Admin учётная запись оператора, создаваемая при пустой таблице пользователей
type Admin struct {
	AdminUsername string `yaml:"username" env-default:"admin"`
	AdminPassword string `yaml:"password"`
}

// SMTP настройки почтового сервера
type SMTP struct {
	SMTPHost     string `yaml:"host"`
	SMTPPort     string `yaml:"port" env-default:"587"`
	SMTPUser     string `yaml:"user"`
	SMTPPass     string `yaml:"password"`
	SMTPFromName string `yaml:"from_name" env-default:"Club Sportivo"`
}

// RabbitMQ настройки брокера сообщений
type RabbitMQ struct {
	RabbitMQURL string        `yaml:"url"`
	Retries     int           `yaml:"retries" env-default:"5"`
	RetryDelay  time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// Notifications настройки напоминаний об истечении медицинской справки
type Notifications struct {
	DaysAhead int           `yaml:"days_ahead" env-default:"30"`
	Interval  time.Duration `yaml:"interval" env-default:"24h"`
}

// RateLimit параметры ограничителя запросов
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"1"`
	Burst int     `yaml:"burst" env-default:"3"`
}

// MustLoad функция для загрузки конфига по пути из CONFIG_PATH.
// Переменные из файла .env, если он есть, подхватываются до чтения конфига.
func MustLoad() *Config {
	_ = godotenv.Load()

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

// String печатает конфиг без секретов
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"MigrationsPath: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  CacheTTL: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"SMTP:\n"+
			"  Host: %s\n"+
			"  Port: %s\n"+
			"RabbitMQ:\n"+
			"  Retries: %d\n"+
			"Notifications:\n"+
			"  DaysAhead: %d\n"+
			"  Interval: %s\n",
		c.Env,
		c.MigrationsPath,
		c.AddressRedis,
		c.DB,
		c.CacheTTL,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.SMTPHost,
		c.SMTPPort,
		c.Retries,
		c.DaysAhead,
		c.Interval,
	)
}
