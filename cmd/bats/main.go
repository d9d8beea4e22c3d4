// Command bats composes a row of animated bats from a sprite sheet and
// draws them with ebiten.
package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sprites/config"
)

func main() {
	configPath := flag.String("config", "", "YAML scene file. The built-in scene is used when empty.")
	texturePath := flag.String("texture", "", "Sprite sheet image, overriding the sheet path of the config.")
	count := flag.Int("count", -1, "Number of sprites in the row, overriding the config.")
	debug := flag.Bool("debug", false, "Show the ImGui debug windows.")
	watch := flag.Bool("watch", false, "Reload background colour and playback rates when the config file changes.")
	resizable := flag.Bool("resizable", false, "Allow resizing the window. The row is recomposed at the new size.")
	logLevel := flag.String("log-level", "info", "One of debug, info, warn, error.")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		slog.Error("bad -log-level", "value", *logLevel, "err", err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}
	if *texturePath != "" {
		cfg.Sheet.Path = *texturePath
	}
	if *count >= 0 {
		cfg.Scene.Count = uint32(*count)
	}

	game, err := newGame(cfg, options{
		debug:     *debug,
		resizable: *resizable,
		logger:    logger,
	})
	if err != nil {
		logger.Error("set up scene", "err", err)
		os.Exit(1)
	}

	if *watch {
		if *configPath == "" {
			logger.Warn("-watch needs -config, not watching")
		} else {
			watcher, err := config.NewWatcher(*configPath)
			if err != nil {
				logger.Error("watch config", "err", err)
				os.Exit(1)
			}
			defer watcher.Close()
			game.watch(watcher)
			logger.Info("watching config", "path", watcher.Path())
		}
	}

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("run", "err", err)
		os.Exit(1)
	}
}
