package main

import (
	"Dilemma/config"
	_ "Dilemma/config/swagger"
	room_constants "Dilemma/constants/room"
	"Dilemma/middleware"
	"Dilemma/routes"
	"Dilemma/services/feed"
	"Dilemma/services/flows"
	"Dilemma/services/gateway"
	"Dilemma/services/redis"
	"Dilemma/services/socket_io"
	roomsync "Dilemma/sync"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// @title Dilemma API
// @version 1.0
// @description Gin-Gonic server for live Prisoner's Dilemma rooms
// @BasePath /
func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	cfg := &config.Config{}
	if err := config.NewCommand(cfg, run).ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}

// backend is the store and change feed chosen by the configuration.
type backend struct {
	gw      gateway.Gateway
	feed    feed.Feed
	closers []func() error
}

func (b *backend) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			logrus.WithError(err).Warn("Error during shutdown")
		}
	}
}

func openBackend(cfg *config.Config) (*backend, error) {
	b := &backend{}

	var gormGateway func(f feed.Feed) gateway.Gateway
	if cfg.Store == config.STORE_POSTGRES {
		gormDB, err := config.ConnectGORM(cfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, sqlDB.Close)

		// Only migrate in development or during deployment
		if cfg.Migrate {
			logrus.Info("Migrating PostgreSQL database...")
			if err := config.MigrateDatabase(gormDB); err != nil {
				b.close()
				return nil, err
			}
		}

		if cfg.Feed == room_constants.FEED_POSTGRES {
			pgFeed, err := feed.NewPostgresFeed(cfg.DSN(), sqlDB)
			if err != nil {
				b.close()
				return nil, err
			}
			b.feed = pgFeed
		}
		gormGateway = func(f feed.Feed) gateway.Gateway { return gateway.NewGormGateway(gormDB, f) }
	}

	switch cfg.Feed {
	case room_constants.FEED_REDIS:
		redisClient, err := config.Connect_redis(cfg)
		if err != nil {
			b.close()
			return nil, err
		}
		b.closers = append(b.closers, func() error { return redis.CloseRedis(redisClient) })
		b.feed = feed.NewRedisFeed(redisClient)
	case room_constants.FEED_MEMORY:
		b.feed = feed.NewMemoryFeed()
	}
	b.closers = append(b.closers, b.feed.Close)

	if gormGateway != nil {
		b.gw = gormGateway(b.feed)
	} else {
		b.gw = gateway.NewMemoryGateway(b.feed)
	}
	logrus.WithFields(logrus.Fields{"store": cfg.Store, "feed": cfg.Feed}).Info("Store ready")
	return b, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	logrus.Info("Setting up server...")
	if cfg.Prod {
		gin.SetMode(gin.ReleaseMode)
	}

	b, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer b.close()

	fl := flows.New(b.gw, flows.Policy{Choice: cfg.ChoicePolicy, Leave: cfg.LeavePolicy})
	sm := roomsync.NewSyncManager(ctx, fl)
	defer sm.Close()

	sessionKey := []byte(cfg.SessionKey)
	r := gin.New()
	middleware.SetUpMiddleware(r, middleware.Options{
		SessionKey:   cfg.SessionKey,
		Secure:       cfg.Prod,
		AllowOrigins: cfg.AllowOrigins,
	})
	routes.SetupRoutes(r, fl, sm, sessionKey, cfg.PublicURL)

	sio := &socket_io.MySocketServer{}
	sio.Start(r, sm, sessionKey)
	defer sio.Close()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":          cfg.Addr(),
			"choice_policy": cfg.ChoicePolicy,
			"leave_policy":  cfg.LeavePolicy,
		}).Info("Server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	logrus.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
