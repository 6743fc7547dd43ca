// Package bootstrap wires the configured accident source into a dataset
// service. It is shared by the server and the CLI.
package bootstrap

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/smartcity/accidents/internal/config"
	"github.com/smartcity/accidents/internal/domain"
	"github.com/smartcity/accidents/internal/repository/csvfile"
	"github.com/smartcity/accidents/internal/repository/postgres"
	"github.com/smartcity/accidents/internal/service"
)

const connectTimeout = 10 * time.Second

// Dataset builds the dataset service for cfg.DataSource. The returned close
// function releases the database pool, if any, and is never nil.
func Dataset(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*service.DatasetService, func()) {
	source, remote, closeFn := Source(ctx, cfg, logger)

	var fetcher *service.Fetcher
	if remote != nil {
		fetcher = service.NewFetcher(cfg.FetchTimeout, logger)
	}
	return service.NewDatasetService(source, fetcher, remote, logger), closeFn
}

// Source selects the accident source. An unreachable database falls back to
// the built-in demo data.
func Source(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domain.AccidentSource, *service.RemoteFile, func()) {
	noop := func() {}

	switch cfg.DataSource {
	case config.SourcePostgres:
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err == nil {
			err = pool.Ping(ctx)
			if err != nil {
				pool.Close()
			}
		}
		if err != nil {
			logger.Warn("could not connect to database, running with mock data", zap.Error(err))
			return postgres.NewMockRepository(), nil, noop
		}
		logger.Info("connected to PostgreSQL", zap.String("table", cfg.AccidentsTable))
		return postgres.NewPostgresRepository(pool, cfg.AccidentsTable), nil, pool.Close

	case config.SourceMock:
		logger.Info("running with mock data")
		return postgres.NewMockRepository(), nil, noop

	default:
		remote := &service.RemoteFile{URL: cfg.DatasetURL, Path: cfg.DatasetPath}
		if cfg.DatasetURL == "" {
			remote = nil
		}
		repo := csvfile.NewRepository(cfg.DatasetPath, logger)
		logger.Info("reading accidents from csv", zap.String("path", repo.Path()))
		return repo, remote, noop
	}
}
