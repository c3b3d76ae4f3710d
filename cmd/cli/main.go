package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/cloudtasks/internal/cli"
	"github.com/dmitrijs2005/cloudtasks/internal/config"
	"github.com/dmitrijs2005/cloudtasks/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("store failure: %v", err)
	}
}
