package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the application.
type Config struct {
	Env            string         // Env is the current environment: local, development, production.
	Token          string         // Token is the telegram bot token
	PollerTimeout  time.Duration  // PollerTimeout is the long-polling timeout of the telegram bot
	Language       string         // Language of buyer notifications
	Database       PostgresConfig // Database holds the postgres database configuration
	Redis          RedisConfig    // Redis holds the employee cache configuration
	AMQP           AMQPConfig     // AMQP holds the notification broker configuration
	MonitoringPort int            // MonitoringPort serves /healthz and /metrics
	NotifyTimeout  time.Duration  // NotifyTimeout bounds a single buyer notification
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// RedisConfig configures the employee cache. An empty Addr disables it.
type RedisConfig struct {
	Addr string
	TTL  time.Duration
}

// AMQPConfig configures the notification publisher. An empty URL disables it.
type AMQPConfig struct {
	URL   string
	Queue string
}

var bindings = map[string]string{
	"env":               "BAZAAR_ENV",
	"telegram.token":    "BAZAAR_TELEGRAM_TOKEN",
	"telegram.timeout":  "BAZAAR_TELEGRAM_TIMEOUT",
	"language":          "BAZAAR_LANGUAGE",
	"postgres.host":     "DB_HOST",
	"postgres.port":     "DB_PORT",
	"postgres.user":     "DB_USERNAME",
	"postgres.password": "DB_PASSWORD",
	"postgres.db_name":  "DB_NAME",
	"redis.addr":        "REDIS_ADDR",
	"redis.ttl":         "REDIS_TTL",
	"amqp.url":          "AMQP_URL",
	"amqp.queue":        "AMQP_QUEUE",
	"monitoring_port":   "MONITORING_PORT",
	"notify_timeout":    "NOTIFY_TIMEOUT",
}

const defaultMonitoringPort = 8080

// MustLoad reads .env, then the optional YAML file named by CONFIG_PATH, with
// environment variables taking precedence over file values.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("env", "production")
	v.SetDefault("telegram.timeout", "10s")
	v.SetDefault("language", "ru")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("redis.ttl", "1h")
	v.SetDefault("amqp.queue", "shop.notifications")
	v.SetDefault("monitoring_port", defaultMonitoringPort)
	v.SetDefault("notify_timeout", "10s")

	for key, env := range bindings {
		_ = v.BindEnv(key, env)
	}

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			panic("config file does not exist: " + configPath)
		}
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			panic("config error: " + err.Error())
		}
	}

	return &Config{
		Env:           v.GetString("env"),
		Token:         v.GetString("telegram.token"),
		PollerTimeout: mustDuration(v, "telegram.timeout"),
		Language:      v.GetString("language"),
		Database: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Name:     v.GetString("postgres.db_name"),
		},
		Redis: RedisConfig{
			Addr: v.GetString("redis.addr"),
			TTL:  mustDuration(v, "redis.ttl"),
		},
		AMQP: AMQPConfig{
			URL:   v.GetString("amqp.url"),
			Queue: v.GetString("amqp.queue"),
		},
		MonitoringPort: v.GetInt("monitoring_port"),
		NotifyTimeout:  mustDuration(v, "notify_timeout"),
	}
}

func mustDuration(v *viper.Viper, key string) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		panic("failed to parse " + key + " from configuration")
	}
	return d
}
