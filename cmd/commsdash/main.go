package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type cli struct {
	LogLevel  string `default:"info" env:"COMMSDASH_LOG_LEVEL" enum:"trace,debug,info,warn,error" help:"Log level."`
	LogFormat string `default:"text" env:"COMMSDASH_LOG_FORMAT" enum:"text,json" help:"Log output format."`

	Serve    serveCmd    `cmd:"" help:"Serve the dashboard shell, API, streams and metrics."`
	Generate generateCmd `cmd:"" help:"Print a generated collection."`
	Manifest manifestCmd `cmd:"" help:"Work with view and section manifests."`
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "commsdash: load .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var app cli
	kctx := kong.Parse(&app,
		kong.Name("commsdash"),
		kong.Description("Communications operations dashboard."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	logger, err := newLogger(app.LogLevel, app.LogFormat)
	kctx.FatalIfErrorf(err)
	kctx.FatalIfErrorf(kctx.Run(logger))
}

func newLogger(level, format string) (*logrus.Logger, error) {
	logger := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("commsdash: %w", err)
	}
	logger.SetLevel(lvl)
	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}
