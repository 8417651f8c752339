package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	SendBuffer int           `mapstructure:"send_buffer"`

	DBPath    string `mapstructure:"db_path"`
	CachePath string `mapstructure:"cache_path"`

	AdminSecret string `mapstructure:"admin_secret"`

	SaavnBaseURL    string `mapstructure:"saavn_base_url"`
	JamendoBaseURL  string `mapstructure:"jamendo_base_url"`
	JamendoClientID string `mapstructure:"jamendo_client_id"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 5173)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("send_buffer", 32)
	v.SetDefault("db_path", "./data/syncy.db")
	v.SetDefault("cache_path", "./data/audio-cache.db")
	v.SetDefault("admin_secret", "dev-secret-change")
	v.SetDefault("saavn_base_url", "https://jiosaavn-api-privatecvc2.vercel.app")
	v.SetDefault("jamendo_base_url", "https://api.jamendo.com/v3.0")
	v.SetDefault("jamendo_client_id", "b6747d04")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("config file not found (%s), using defaults\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
