package config

import (
	"errors"
	"fmt"
	"io/fs"
	"ktrend_api/config/values"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StorePostgREST = "postgrest"
	StorePostgres  = "postgres"
	StoreSqlite    = "sqlite"
)

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type StoreConfig struct {
	Driver            string  `yaml:"driver"`
	PostgRESTURL      string  `yaml:"postgrest_url"`
	ApiKey            string  `yaml:"api_key"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	SqliteDSN         string  `yaml:"sqlite_dsn"`
	Migrate           bool    `yaml:"migrate"`
}

type RedisConfig struct {
	URL         string        `yaml:"url"`
	CategoryTTL time.Duration `yaml:"category_ttl"`
}

type SchedulerConfig struct {
	Spec      string   `yaml:"spec"`
	Platforms []string `yaml:"platforms"`
}

type AppConfig struct {
	Server    ServerConfig        `yaml:"server"`
	Store     StoreConfig         `yaml:"store"`
	Postgres  PostgresConfig      `yaml:"postgres"`
	Redis     RedisConfig         `yaml:"redis"`
	Trends    values.TrendsValues `yaml:"trends"`
	Scheduler SchedulerConfig     `yaml:"scheduler"`
}

func Default() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Driver:            StorePostgREST,
			RequestsPerSecond: 10,
			Burst:             10,
		},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			DBName:   "postgres",
		},
		Redis: RedisConfig{
			CategoryTTL: 6 * time.Hour,
		},
		Trends: values.DefaultTrendsValues(),
		Scheduler: SchedulerConfig{
			Spec:      "@every 30m",
			Platforms: []string{"oliveyoung", "musinsa"},
		},
	}
}

// LoadConfig reads filename over the defaults. A missing file yields the defaults.
func LoadConfig(filename string) (*AppConfig, error) {
	config := Default()

	file, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			config.applyEnv()
			return config, config.Validate()
		}
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	config.applyEnv()
	return config, config.Validate()
}

func (c *AppConfig) applyEnv() {
	c.Store.PostgRESTURL = getEnv("POSTGREST_URL", c.Store.PostgRESTURL)
	c.Store.ApiKey = getEnv("POSTGREST_API_KEY", c.Store.ApiKey)
	c.Store.Driver = getEnv("KTREND_STORE", c.Store.Driver)
	c.Redis.URL = getEnv("REDIS_URL", c.Redis.URL)
	ApplyPostgresEnv(&c.Postgres)
}

func (c *AppConfig) Validate() error {
	switch c.Store.Driver {
	case StorePostgREST:
		if c.Store.PostgRESTURL == "" {
			return fmt.Errorf("store.postgrest_url is required for the %s driver", StorePostgREST)
		}
	case StorePostgres, StoreSqlite:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Trends.DefaultPerPage < 1 || c.Trends.MaxPerPage < c.Trends.DefaultPerPage {
		return fmt.Errorf("trends: default-per-page must be in [1, max-per-page]")
	}
	if c.Trends.JoinBatchSize < 1 {
		return fmt.Errorf("trends: join-batch-size must be positive")
	}
	return nil
}
