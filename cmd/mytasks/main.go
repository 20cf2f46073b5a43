package main

import (
	"context"
	"fmt"
	"os"

	"mytasks/internal/app"
	"mytasks/internal/config"
	"mytasks/internal/logger"
	"mytasks/internal/storage"
	"mytasks/internal/ui"
)

func main() {
	configPath := config.ResolveConfigPath()
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logFile, err := logger.OpenFile(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	tasks, err := store.LoadTasks()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load tasks: %v\n", err)
		os.Exit(1)
	}
	ctrl := app.New(store, tasks)
	logger.Info(context.Background(), "started", "config", configPath, "tasks", len(tasks))

	if len(os.Args) < 2 {
		err = ui.Run(ctrl, store, cfg, store.DarkMode())
	} else {
		c := newCLI(ctrl, cfg)
		err = c.run(os.Args[1], os.Args[2:])
	}

	if cfg.MetricsPath != "" {
		if werr := ctrl.Metrics().WriteTextfile(cfg.MetricsPath); werr != nil {
			logger.Error(context.Background(), werr, "write metrics failed", "path", cfg.MetricsPath)
		}
	}
	if err != nil {
		logger.Error(context.Background(), err, "command failed")
		store.Close()
		logFile.Close()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
