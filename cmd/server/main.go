package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"course-portal/internal/config"
	apphttp "course-portal/internal/http"
	"course-portal/internal/logging"
	"course-portal/internal/repository"
	"course-portal/internal/repository/jsonstore"
	"course-portal/internal/repository/sqlite"
	"course-portal/internal/service"
	"course-portal/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid config: %v", err)
	}

	logger, err := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		logrus.Fatalf("setup logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, closers, err := buildBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	store := jsonstore.New(backend)
	courses, err := store.ListCourses(ctx)
	if err != nil {
		logger.Fatalf("load course catalog: %v", err)
	}
	logger.Infof("loaded %d courses (driver %s)", len(courses), cfg.Database.Driver)

	courseService := service.NewCourseService(store)
	userService := service.NewUserService(store, logger)
	enrollmentService := service.NewEnrollmentService(store, store, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(courseService, userService, enrollmentService, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	if err := closeAll(closers); err != nil {
		logger.Warnf("close storage: %v", err)
	}

	logger.Info("bye")
}

// buildBackend returns the configured collection backend. sqlite and s3
// backends are seeded from the JSON directory when they lack a collection.
func buildBackend(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Backend, []io.Closer, error) {
	files := storage.NewFileBackend(cfg.Database.Dir)

	var (
		backend storage.Backend
		closers []io.Closer
	)
	switch cfg.Database.Driver {
	case config.DriverJSON:
		logger.Infof("using json collections in %s", cfg.Database.Dir)
		return files, nil, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		closers = append(closers, db)

		repo := sqlite.NewCollectionRepository(db)
		if err := repo.Init(ctx); err != nil {
			return nil, closers, fmt.Errorf("init collection repository: %w", err)
		}
		if updated, err := repo.UpdatedAt(ctx, repository.UsersCollection); err == nil {
			logger.Infof("users collection last written %s", updated.Format(time.RFC3339))
		}
		logger.Infof("using sqlite collections in %s", cfg.Database.Path)
		backend = repo
	case config.DriverS3:
		s3Backend, err := buildS3Backend(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		names, err := s3Backend.Collections(ctx)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("using s3 bucket %s (region %s), found collections %v", cfg.Storage.Bucket, cfg.Storage.Region, names)
		backend = s3Backend
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	if cfg.Database.Seed {
		seeded, err := storage.Seed(ctx, backend, files, repository.CoursesCollection, repository.UsersCollection)
		if err != nil {
			return nil, closers, fmt.Errorf("seed collections: %w", err)
		}
		for _, name := range seeded {
			logger.Infof("seeded %s from %s", name, files.Path(name))
		}
	}
	return backend, closers, nil
}

func buildS3Backend(ctx context.Context, cfg config.Config) (*storage.S3Backend, error) {
	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	return storage.NewS3Backend(client, cfg.Storage.Bucket, cfg.Storage.KeyPrefix)
}

func closeAll(closers []io.Closer) error {
	var err error
	for _, c := range closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}
