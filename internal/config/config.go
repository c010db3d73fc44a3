package config

import (
	"fmt"
	"log/slog"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"GOMOKU_LOG_LEVEL" env-default:"info"`
	HTTPPort string `yaml:"http-port" env:"GOMOKU_HTTP_PORT" env-default:"9090"`
	Redis    Redis  `yaml:"redis"`
	Board    Board  `yaml:"board"`
}

// Redis is optional: an empty host disables placement events.
type Redis struct {
	Host    string `yaml:"host" env:"GOMOKU_REDIS_HOST" env-default:""`
	Port    string `yaml:"port" env:"GOMOKU_REDIS_PORT" env-default:"6379"`
	Channel string `yaml:"channel" env:"GOMOKU_REDIS_CHANNEL" env-default:"gomoku:placements"`
}

type Board struct {
	GridSize    int `yaml:"grid-size" env:"GOMOKU_BOARD_GRID_SIZE" env-default:"9"`
	PixelOffset int `yaml:"pixel-offset" env:"GOMOKU_BOARD_PIXEL_OFFSET" env-default:"75"`
	NodeSpacing int `yaml:"node-spacing" env:"GOMOKU_BOARD_NODE_SPACING" env-default:"75"`
	SnapRadius  int `yaml:"snap-radius" env:"GOMOKU_BOARD_SNAP_RADIUS" env-default:"10"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if _, err := config.SlogLevel(); err != nil {
		return nil, fmt.Errorf("unable to load log config: %w", err)
	}

	if _, err := config.Board.Geometry(); err != nil {
		return nil, fmt.Errorf("unable to load board config: %w", err)
	}

	return config, nil
}

// SlogLevel accepts debug, info, warn and error in any case.
func (that *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(that.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", apperror.ErrInvalidLogLevel, that.LogLevel)
	}

	return level, nil
}

func (that *Redis) Enabled() bool {
	return that.Host != ""
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Board) Geometry() (entity.Geometry, error) {
	geometry := entity.Geometry{
		GridSize:    that.GridSize,
		PixelOffset: that.PixelOffset,
		NodeSpacing: that.NodeSpacing,
		SnapRadius:  that.SnapRadius,
	}

	if err := geometry.Validate(); err != nil {
		return entity.Geometry{}, err
	}

	return geometry, nil
}
