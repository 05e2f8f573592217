package application

import (
	"context"
	"fmt"
	"log/slog"

	"shaftmatch/internal/config"
	"shaftmatch/internal/domain/entity"
	"shaftmatch/internal/infrastructure/persistence"
	"shaftmatch/pkg/application/connectors"
	"shaftmatch/pkg/logx"
)

// LoadCatalog reads the catalog from the configured source. The database
// connection, if any, is closed before returning: the catalog is immutable
// once loaded.
func LoadCatalog(ctx context.Context, cfg config.Config) (*entity.Catalog, error) {
	var (
		catalog *entity.Catalog
		err     error
	)

	switch cfg.Catalog.Source {
	case config.CatalogSourcePostgres:
		pg := newPostgres(cfg.Postgres)
		defer pg.Close(ctx)

		catalog, err = persistence.NewShaftRepository(pg.Client(ctx)).LoadCatalog(ctx)
		if err != nil {
			return nil, fmt.Errorf("shaftRepository.LoadCatalog: %w", err)
		}
	default:
		catalog, err = persistence.LoadCatalogFile(cfg.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("persistence.LoadCatalogFile: %w", err)
		}
	}

	logger(ctx).Info("catalog loaded",
		slog.String(logx.FieldCatalogSource, cfg.Catalog.Source),
		slog.Int(logx.FieldCatalogSize, catalog.Len()),
	)

	return catalog, nil
}

// ImportCatalog replaces the shafts table with the contents of a JSON file.
func ImportCatalog(ctx context.Context, cfg config.Config, path string) (*entity.Catalog, error) {
	if cfg.Postgres.DSN == "" {
		return nil, config.ErrPostgresDSNRequired
	}

	catalog, err := persistence.LoadCatalogFile(path)
	if err != nil {
		return nil, fmt.Errorf("persistence.LoadCatalogFile: %w", err)
	}

	pg := newPostgres(cfg.Postgres)
	defer pg.Close(ctx)

	if err := persistence.NewShaftRepository(pg.Client(ctx)).ReplaceAll(ctx, catalog); err != nil {
		return nil, fmt.Errorf("shaftRepository.ReplaceAll: %w", err)
	}

	logger(ctx).Info("catalog imported",
		slog.String(logx.FieldCatalogSource, path),
		slog.Int(logx.FieldCatalogSize, catalog.Len()),
	)

	return catalog, nil
}

func newPostgres(cfg config.Postgres) *connectors.Postgres {
	return &connectors.Postgres{
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}
}
