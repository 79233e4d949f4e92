package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the application.
// It includes the environment type, the directory service the client talks to,
// the listen addresses of the directory API and the database configuration.
type Config struct {
	Env      string         `yaml:"env"`      // Env is the current environment: local, development, production.
	API      APIConfig      `yaml:"api"`      // API describes the upstream directory service.
	Server   ServerConfig   `yaml:"server"`   // Server holds the listen settings of the directory API.
	Database PostgresConfig `yaml:"postgres"` // Database holds the postgres database configuration
}

// APIConfig describes how the client reaches the directory service.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`   // BaseURL is the address of the directory service.
	Timeout   time.Duration `yaml:"timeout"`    // Timeout bounds every request to the directory service.
	FetchMode string        `yaml:"fetch_mode"` // FetchMode is "concurrent" or "sequential".
}

// ServerConfig holds the listen settings of the directory API.
type ServerConfig struct {
	ListenAddr     string `yaml:"listen_addr"`     // ListenAddr is the address of the REST API.
	MonitoringPort int    `yaml:"monitoring_port"` // MonitoringPort serves /healthz and /metrics.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Name     string `yaml:"db_name"`  // Name is the name of the database.
}

// envBindings maps configuration keys to the environment variables that override them.
var envBindings = map[string]string{
	"env":                    "ATLAS_ENV",
	"api.base_url":           "ATLAS_API_BASE_URL",
	"api.timeout":            "ATLAS_HTTP_TIMEOUT",
	"api.fetch_mode":         "ATLAS_FETCH_MODE",
	"server.listen_addr":     "ATLAS_LISTEN_ADDR",
	"server.monitoring_port": "ATLAS_MONITORING_PORT",
	"postgres.host":          "DB_HOST",
	"postgres.port":          "DB_PORT",
	"postgres.user":          "DB_USERNAME",
	"postgres.password":      "DB_PASSWORD",
	"postgres.db_name":       "DB_NAME",
}

// MustLoad loads the configuration and returns a Config struct.
// Values come from defaults, then the optional YAML file named by CONFIG_PATH,
// then the environment (a .env file in the working directory is loaded first).
// It panics when the file is missing or unreadable or a value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	vpr := viper.New()
	vpr.SetDefault("env", "production")
	vpr.SetDefault("api.timeout", "10s")
	vpr.SetDefault("api.fetch_mode", "concurrent")
	vpr.SetDefault("server.listen_addr", ":3000")
	vpr.SetDefault("server.monitoring_port", "8080")
	vpr.SetDefault("postgres.port", "5432")

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		// check if file exists
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			panic("config file does not exist: " + configPath)
		}

		vpr.SetConfigFile(configPath)
		if err := vpr.ReadInConfig(); err != nil {
			panic("config error: " + err.Error())
		}
	}

	for key, env := range envBindings {
		_ = vpr.BindEnv(key, env) //nolint:errcheck // BindEnv fails only without arguments
	}

	timeout, err := time.ParseDuration(vpr.GetString("api.timeout"))
	if err != nil {
		panic("failed to parse http timeout from configuration")
	}

	monitoringPort, err := strconv.Atoi(vpr.GetString("server.monitoring_port"))
	if err != nil {
		panic("failed to parse monitoring port from configuration")
	}

	return &Config{
		Env: vpr.GetString("env"),
		API: APIConfig{
			BaseURL:   vpr.GetString("api.base_url"),
			Timeout:   timeout,
			FetchMode: vpr.GetString("api.fetch_mode"),
		},
		Server: ServerConfig{
			ListenAddr:     vpr.GetString("server.listen_addr"),
			MonitoringPort: monitoringPort,
		},
		Database: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Name:     vpr.GetString("postgres.db_name"),
		},
	}
}
