package main

import (
	"fmt"
	"log/slog"
	"os"

	app "github.com/rocketscienceinc/tictactoe-core/internal"
	"github.com/rocketscienceinc/tictactoe-core/internal/config"
)

const configFile = "config.yml"

func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := config.MustLoad(configPath())

	// validated by config.Load
	level, _ := conf.Level()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	logger.Info("config loaded",
		"storage", conf.Storage,
		"httpPort", conf.HTTPPort,
		"socketPort", conf.SocketPort,
		"opponent", conf.Opponent.IsEnabled(),
	)

	if err := app.RunApp(logger, conf); err != nil {
		logger.Error("app run failed", "error", err)
		os.Exit(1)
	}
}

// configPath - CONFIG_PATH wins over config.yml in the working directory.
func configPath() string {
	if path, ok := os.LookupEnv("CONFIG_PATH"); ok && path != "" {
		return path
	}

	return configFile
}
