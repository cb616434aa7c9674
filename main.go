// Command reliefhub runs the relief goods API.
//
// @title Relief Goods API
// @version 1.0
// @description Registration, login and relief goods records for the relief distribution dashboard.
// @contact.name API Support
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/user/reliefhub-go/config"
	"github.com/user/reliefhub-go/db"
	"github.com/user/reliefhub-go/logging"
	"github.com/user/reliefhub-go/server"
	"github.com/user/reliefhub-go/store"
)

func main() {
	app := &cli.App{
		Name:  "reliefhub",
		Usage: "relief goods API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "load environment variables from `FILE` if it exists",
				Value: ".env",
			},
		},
		Before: func(c *cli.Context) error {
			if err := godotenv.Load(c.String("env-file")); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load %s: %w", c.String("env-file"), err)
			}
			return nil
		},
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "apply the schema and serve HTTP until interrupted",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply the store schema and exit",
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// bootstrap loads the configuration, builds the logger and opens the store.
func bootstrap(ctx context.Context) (*config.AppConfig, *zap.Logger, store.Store, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	l, err := logging.New(!cfg.Server.Production)
	if err != nil {
		return nil, nil, nil, err
	}
	st, err := db.Open(ctx, cfg.Store, l)
	if err != nil {
		_ = l.Sync()
		return nil, nil, nil, fmt.Errorf("open store: %w", err)
	}
	return cfg, l, st, nil
}

func closeStore(st store.Store, l *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := st.Close(ctx); err != nil {
		l.Warn("error closing store", zap.Error(err))
	}
}

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, l, st, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer l.Sync() //nolint:errcheck
	defer closeStore(st, l)

	if err := db.Migrate(ctx, st); err != nil {
		return err
	}

	router, err := server.NewRouter(cfg, st, l)
	if err != nil {
		return err
	}
	return server.Run(ctx, ":"+cfg.Server.Port, router, l)
}

func migrate(c *cli.Context) error {
	cfg, l, st, err := bootstrap(c.Context)
	if err != nil {
		return err
	}
	defer l.Sync() //nolint:errcheck
	defer closeStore(st, l)

	if err := db.Migrate(c.Context, st); err != nil {
		return err
	}
	l.Info("schema applied", zap.String("driver", cfg.Store.Driver))
	return nil
}
