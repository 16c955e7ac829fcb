package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-extras/cobraflags"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/librarycatalog/library-api/internal/config"
	"github.com/librarycatalog/library-api/internal/logger"
)

const (
	envFileFlag = "env-file"
	portFlag    = "port"
)

// rootFlags are persistent, so every subcommand accepts them. Each flag is
// registered once; cobraflags binds GetString to the last registration.
var rootFlags = map[string]cobraflags.Flag{
	envFileFlag: &cobraflags.StringFlag{
		Name:       envFileFlag,
		Value:      ".env",
		Usage:      "Dotenv file loaded before reading the environment",
		Persistent: true,
	},
	portFlag: &cobraflags.StringFlag{
		Name:       portFlag,
		Value:      "",
		Usage:      "Listen port, overrides PORT",
		Persistent: true,
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "library-api",
		Short:         "Library catalog REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Running without a subcommand starts the server.
		RunE: serveCommand,
	}
	cobraflags.RegisterMap(root, rootFlags)

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	return root
}

// loadConfig reads the dotenv file, then the environment, and installs the
// process logger.
func loadConfig() (config.Config, *slog.Logger, error) {
	envFile := rootFlags[envFileFlag].GetString()
	if err := godotenv.Load(envFile); err != nil {
		slog.Warn("no .env file found, using environment variables", "file", envFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger.New(cfg.Env, cfg.LogLevel), nil
}
