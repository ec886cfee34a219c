package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Relay specifics
	Discord DiscordConfig
	Store   StoreConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type DiscordConfig struct {
	BotToken   string
	APIBaseURL string
	// Ceiling for outbound Discord REST calls, requests per second.
	APIRateLimit float64
}

type StoreConfig struct {
	Path string
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Discord
	cfg.Discord.BotToken = viper.GetString("discord.bot_token")
	cfg.Discord.APIBaseURL = viper.GetString("discord.api_base_url")
	cfg.Discord.APIRateLimit = viper.GetFloat64("discord.api_rate_limit")
	if token := viper.GetString("discord_bot_token"); token != "" {
		cfg.Discord.BotToken = token
	}

	// Destination store
	cfg.Store.Path = viper.GetString("store.path")
	if storePath := viper.GetString("store_path"); storePath != "" {
		cfg.Store.Path = storePath
	}

	if cfg.Discord.BotToken == "" {
		return nil, fmt.Errorf("discord.bot_token is required - set it in config.yaml or DISCORD_BOT_TOKEN")
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 3000)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
	viper.SetDefault("discord.api_base_url", "https://discord.com/api/v10")
	viper.SetDefault("discord.api_rate_limit", 25)
	viper.SetDefault("store.path", "gitcord.db")
}
