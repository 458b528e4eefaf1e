package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

var ErrUnknownStorage = errors.New("storage must be memory or redis")

type Config struct {
	LogLevel   string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string   `yaml:"http-port" env:"HTTP_PORT" env-default:"3000"`
	SocketPort string   `yaml:"socket-port" env:"SOCKET_PORT" env-default:"3001"`
	Storage    string   `yaml:"storage" env:"STORAGE" env-default:"memory"`
	Redis      Redis    `yaml:"redis"`
	Stats      Stats    `yaml:"stats"`
	Opponent   Opponent `yaml:"opponent"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Stats struct {
	SelfMark string `yaml:"self-mark" env:"STATS_SELF_MARK" env-default:"X"`
}

type Opponent struct {
	Enabled Switch `yaml:"enabled" env:"OPPONENT_ENABLED" env-default:"true"`
}

// Switch - an on/off setting kept as text. cleanenv applies env-default to zero values,
// so a plain bool read as false from the file would be reset to the default.
type Switch string

func (that Switch) Bool() (bool, error) {
	on, err := strconv.ParseBool(string(that))
	if err != nil {
		return false, fmt.Errorf("invalid switch value %q: %w", string(that), err)
	}

	return on, nil
}

// IsEnabled - call only on a validated config.
func (that *Opponent) IsEnabled() bool {
	on, _ := that.Enabled.Bool()
	return on
}

// Load - reads path if it exists, otherwise only the environment. An optional .env next to
// the working directory is loaded first; variables already set win.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("unable to load .env file: %w", err)
	}

	config := &Config{}

	var err error
	if _, statErr := os.Stat(path); statErr == nil {
		err = cleanenv.ReadConfig(path, config)
	} else {
		err = cleanenv.ReadEnv(config)
	}

	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if err = config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Config) validate() error {
	if that.Storage != StorageMemory && that.Storage != StorageRedis {
		return fmt.Errorf("%w: got %q", ErrUnknownStorage, that.Storage)
	}

	if _, err := that.Stats.Player(); err != nil {
		return err
	}

	if _, err := that.Opponent.Enabled.Bool(); err != nil {
		return fmt.Errorf("invalid opponent enabled: %w", err)
	}

	if _, err := that.Level(); err != nil {
		return err
	}

	return nil
}

// Level - the slog level named by log-level (debug, info, warn, error).
func (that *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(that.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log-level: %w", err)
	}

	return level, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// Player - the mark whose wins and losses the stats count.
func (that *Stats) Player() (entity.Player, error) {
	player, err := entity.ParsePlayer(that.SelfMark)
	if err != nil {
		return "", fmt.Errorf("invalid stats self-mark: %w", err)
	}

	return player, nil
}
