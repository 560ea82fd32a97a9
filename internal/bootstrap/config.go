package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"

	"goban/internal/domain/goban"
)

type Config struct {
	ServerPort    string `mapstructure:"SERVER_PORT"`
	BoardSize     int    `mapstructure:"BOARD_SIZE"`
	BoardID       string `mapstructure:"BOARD_ID"`
	RedisUrl      string `mapstructure:"REDIS_URL"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	MongoUri      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`
	IsLocalCors   bool   `mapstructure:"LOCAL_CORS"`
}

var defaults = map[string]any{
	"SERVER_PORT":    ":8080",
	"BOARD_SIZE":     19,
	"BOARD_ID":       "",
	"REDIS_URL":      "",
	"REDIS_PASSWORD": "",
	"MONGO_URI":      "",
	"MONGO_DATABASE": "goban",
	"LOCAL_CORS":     false,
}

// Setup reads cfgPath (a .env file) over the defaults. Environment variables
// win over both. A missing file is not an error.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	v.SetConfigFile(cfgPath)

	err := v.ReadInConfig()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
	}

	var cfg Config

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.BoardSize < goban.MinSize || cfg.BoardSize > goban.MaxSize {
		return nil, fmt.Errorf("BOARD_SIZE %d out of range %d..%d", cfg.BoardSize, goban.MinSize, goban.MaxSize)
	}

	return &cfg, nil
}
