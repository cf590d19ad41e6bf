package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/church-members-api/internal/api"
	"github.com/vietanh2810/church-members-api/internal/config"
	"github.com/vietanh2810/church-members-api/internal/db"
	"github.com/vietanh2810/church-members-api/internal/logger"
	"github.com/vietanh2810/church-members-api/internal/notifier"
	"github.com/vietanh2810/church-members-api/internal/repository"
	"github.com/vietanh2810/church-members-api/internal/repository/dao"
	"github.com/vietanh2810/church-members-api/internal/repository/mongodao"
	"github.com/vietanh2810/church-members-api/internal/service"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment, conf.API.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer zap.L().Sync() //nolint:errcheck

	conf.Watch(func(reloaded *config.AppConfig) {
		if err := logger.SetLevel(reloaded.API.LogLevel); err != nil {
			zap.L().Warn("ignoring log level from reloaded config", zap.Error(err))
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, closeStorage, err := openStorage(ctx, conf)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}
	defer closeStorage()

	if err = bootstrapAdmin(ctx, conf.Bootstrap, storage); err != nil {
		return fmt.Errorf("failed to bootstrap admin account -> %w", err)
	}

	n, err := notifier.New(conf.Discord)
	if err != nil {
		return fmt.Errorf("failed to initialize notifier -> %w", err)
	}

	s, err := api.NewServer(conf, storage, n)
	if err != nil {
		return fmt.Errorf("failed to initialize server -> %w", err)
	}

	srv := &http.Server{
		Addr:    ":" + s.Config.API.Port,
		Handler: s.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr), zap.String("storage", conf.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.API.ShutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server -> %w", err)
	}

	return nil
}

func openStorage(ctx context.Context, conf *config.AppConfig) (repository.Storage, func(), error) {
	if conf.Storage.Driver == config.DriverMongo {
		client, database, err := db.OpenMongo(ctx, conf.Mongo)
		if err != nil {
			return repository.Storage{}, nil, err
		}
		if err = mongodao.InitCollections(ctx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return repository.Storage{}, nil, fmt.Errorf("mongodao.InitCollections -> %w", err)
		}

		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				zap.L().Warn("failed to disconnect from mongo", zap.Error(err))
			}
		}
		return repository.NewMongoStorage(database), closeFn, nil
	}

	var gormDB *gorm.DB
	var err error
	switch {
	case conf.Storage.Driver == config.DriverSQLite:
		gormDB, err = db.OpenSQLite(conf.SQLite.Path)
	case os.Getenv("DATABASE_URL") != "":
		gormDB, err = db.OpenPostgresWithURL(os.Getenv("DATABASE_URL"))
	default:
		gormDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return repository.Storage{}, nil, err
	}

	if err = dao.InitTables(gormDB); err != nil {
		return repository.Storage{}, nil, fmt.Errorf("dao.InitTables -> %w", err)
	}

	closeFn := func() {
		sqlDB, err := gormDB.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil {
			zap.L().Warn("failed to close database", zap.Error(err))
		}
	}
	return repository.NewGormStorage(gormDB), closeFn, nil
}

func bootstrapAdmin(ctx context.Context, conf *config.BootstrapConfig, storage repository.Storage) error {
	if conf == nil || conf.AdminEmail == "" || conf.AdminPassword == "" {
		return nil
	}

	svc := service.NewAuthService(repository.NewUserRepository(storage.Users))
	created, err := svc.EnsureAdmin(ctx, conf.AdminName, conf.AdminEmail, conf.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		zap.L().Info("created admin account", zap.String("email", conf.AdminEmail))
	}

	return nil
}
