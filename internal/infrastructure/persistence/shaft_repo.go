package persistence

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"shaftmatch/internal/domain"
	"shaftmatch/internal/domain/entity"
	"shaftmatch/pkg/errcodes"
	"shaftmatch/pkg/lox"
)

const (
	queryListShafts = `
		SELECT position, model, brand, flex, weight, torque,
		       balance_point, tip_flex, cpm, ei_profile
		FROM shafts
		ORDER BY position ASC`

	queryDeleteShafts = `DELETE FROM shafts`

	queryInsertShaft = `
		INSERT INTO shafts (
			position, model, brand, flex, weight, torque,
			balance_point, tip_flex, cpm, ei_profile
		) VALUES (
			:position, :model, :brand, :flex, :weight, :torque,
			:balance_point, :tip_flex, :cpm, :ei_profile
		)`
)

// ShaftRepository is the PostgreSQL catalog source.
type ShaftRepository struct {
	db *sqlx.DB
}

func NewShaftRepository(db *sqlx.DB) *ShaftRepository {
	return &ShaftRepository{db: db}
}

func (r *ShaftRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// List returns every shaft in catalog order.
func (r *ShaftRepository) List(ctx context.Context) ([]entity.Shaft, error) {
	var schemas []shaftSchema

	if err := r.db.SelectContext(ctx, &schemas, queryListShafts); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list shafts")
	}

	shafts, err := lox.MapErr(schemas, shaftSchema.toDomain)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InvalidCatalog, "failed to decode ei profile")
	}

	return shafts, nil
}

// LoadCatalog lists, validates and assembles the catalog.
func (r *ShaftRepository) LoadCatalog(ctx context.Context) (*entity.Catalog, error) {
	shafts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	return BuildCatalog(shafts)
}

// ReplaceAll swaps the table contents for catalog atomically. Used to seed
// the database from a file catalog.
func (r *ShaftRepository) ReplaceAll(ctx context.Context, catalog *entity.Catalog) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, queryDeleteShafts); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to clear shafts")
		}

		for i, s := range catalog.All() {
			schema, err := fromShaft(i, s)
			if err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to encode ei profile")
			}

			if _, err := tx.NamedExecContext(ctx, queryInsertShaft, schema); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, fmt.Sprintf("failed to insert shaft %q", s.Model))
			}
		}

		return nil
	})
}
