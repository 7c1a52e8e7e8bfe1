package config

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Game    GameConfig    `mapstructure:"game"`
	AutoBet AutoBetConfig `mapstructure:"autobet"`
	Rate    RateConfig    `mapstructure:"rate"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port     string `mapstructure:"port"`
	AdminKey string `mapstructure:"admin_key"` // empty disables /admin routes
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type GameConfig struct {
	StartingBalance float64       `mapstructure:"starting_balance"`
	SpinDuration    time.Duration `mapstructure:"spin_duration"`
	RevealDelay     time.Duration `mapstructure:"reveal_delay"`
	HistoryLimit    int           `mapstructure:"history_limit"`
	Seed            int64         `mapstructure:"seed"` // 0 = seed from crypto/rand

	// Tables overrides the built-in multiplier table per risk tier ("low", "medium", "high").
	Tables map[string][]TableEntry `mapstructure:"tables"`
}

type TableEntry struct {
	Multiplier  float64 `mapstructure:"multiplier"`
	Probability float64 `mapstructure:"probability"`
}

type AutoBetConfig struct {
	Interval      time.Duration `mapstructure:"interval"`       // pause between autobet spins
	MaxIterations int           `mapstructure:"max_iterations"` // upper bound accepted for iteration_limit
}

type RateConfig struct {
	QPS   float64 `mapstructure:"qps"`
	Burst int     `mapstructure:"burst"`
}

type RedisConfig struct {
	Addr                  string `mapstructure:"addr"`
	Password              string `mapstructure:"password"`
	DB                    int    `mapstructure:"db"`
	IdempotencyTTLSeconds int    `mapstructure:"idempotency_ttl_seconds"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

func Load() (*Config, error) {
	// .env is optional; real env vars still win over it
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Failed to read .env: %v", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	// e.g. WHEELGATE_GAME_STARTING_BALANCE
	v.SetEnvPrefix("wheelgate")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found, using defaults and env vars")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.admin_key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("game.starting_balance", 1000)
	v.SetDefault("game.spin_duration", 3*time.Second)
	v.SetDefault("game.reveal_delay", time.Second)
	v.SetDefault("game.history_limit", 50)
	v.SetDefault("game.seed", 0)
	v.SetDefault("autobet.interval", time.Second)
	v.SetDefault("autobet.max_iterations", 1000)
	v.SetDefault("rate.qps", 10)
	v.SetDefault("rate.burst", 20)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.idempotency_ttl_seconds", 86400)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
