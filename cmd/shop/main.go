package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/marcotuliovd/betimfc-v0/internal/cart"
	"github.com/marcotuliovd/betimfc-v0/internal/config"
	"github.com/marcotuliovd/betimfc-v0/internal/gateway"
	"github.com/marcotuliovd/betimfc-v0/internal/logging"
	"github.com/marcotuliovd/betimfc-v0/internal/persist"
	"github.com/marcotuliovd/betimfc-v0/internal/session"
	"github.com/marcotuliovd/betimfc-v0/internal/storefront"
)

// app is everything a command needs: both client stores, the API client and
// the storefront built over them.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	out     io.Writer
	api     *gateway.Client
	cart    *cart.Store
	session *session.Store
	shop    *storefront.Storefront
}

func main() {
	_ = godotenv.Load()

	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	a, err := newApp(ctx, cfg, logger, store, out)
	if err != nil {
		return err
	}
	return commands().Execute(ctx, a, args)
}

func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger, store persist.Store, out io.Writer) (*app, error) {
	api := gateway.New(cfg.APIBaseURL, nil, logger.Named("gateway"))

	c, err := cart.New(ctx, store, cfg.StoreNamespace, logger.Named("cart"))
	if err != nil {
		return nil, err
	}
	s, err := session.New(ctx, api, store, cfg.StoreNamespace, logger.Named("session"))
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		log:     logger,
		out:     out,
		api:     api,
		cart:    c,
		session: s,
		shop: storefront.New(storefront.Dependencies{
			Cart:        c,
			Session:     s,
			Orders:      api,
			Memberships: api,
			Log:         logger.Named("storefront"),
		}),
	}, nil
}

// openStore picks the snapshot backend named by STORE_BACKEND.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (persist.Store, func(), error) {
	switch cfg.StoreBackend {
	case "memory":
		return persist.NewMemoryStore(), func() {}, nil
	case "redis":
		rs, err := persist.NewRedisStore(ctx, persist.RedisOptions{
			URL:    cfg.RedisURL,
			DB:     cfg.RedisDB,
			Logger: logger.Named("redis"),
		})
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { _ = rs.Close() }, nil
	case "file", "":
		fs, err := persist.NewFileStore(cfg.StoreDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q (want file, redis or memory)", cfg.StoreBackend)
}

func commands() *registry {
	r := newRegistry()
	registerCatalogCommands(r)
	registerAccountCommands(r)
	registerCartCommands(r)
	return r
}
