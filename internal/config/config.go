package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the terminal configuration. Values come from defaults, then
// an optional YAML file, then environment overrides, in that order.
type Config struct {
	HTTPAddr      string        `yaml:"http_addr"`
	MySQLDSN      string        `yaml:"mysql_dsn"`
	RedisAddr     string        `yaml:"redis_addr"`
	SQLitePath    string        `yaml:"sqlite_path"`
	KafkaBrokers  []string      `yaml:"kafka_brokers"`
	KafkaTopic    string        `yaml:"kafka_topic"`
	JWTSecret     string        `yaml:"jwt_secret"`
	StoreName     string        `yaml:"store_name"`
	StoreAddress  string        `yaml:"store_address"`
	ProbeInterval time.Duration `yaml:"probe_interval"`
}

func Default() Config {
	return Config{
		HTTPAddr:      ":8080",
		MySQLDSN:      "root:root@tcp(localhost:3306)/savdo?parseTime=true",
		RedisAddr:     "localhost:6379",
		SQLitePath:    "savdo-terminal.db",
		KafkaTopic:    "pos-notifications",
		JWTSecret:     "dev-secret",
		StoreName:     "SavdoPlatform",
		StoreAddress:  "Toshkent, Yunusobod",
		ProbeInterval: 5 * time.Second,
	}
}

// Load reads the config file at path (missing file is fine) and applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("POS_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		cfg.MySQLDSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("POS_SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		cfg.KafkaTopic = v
	}
	if v := os.Getenv("POS_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("POS_STORE_NAME"); v != "" {
		cfg.StoreName = v
	}
	if v := os.Getenv("POS_STORE_ADDRESS"); v != "" {
		cfg.StoreAddress = v
	}
	if v := os.Getenv("POS_PROBE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ProbeInterval = d
		}
	}
}
