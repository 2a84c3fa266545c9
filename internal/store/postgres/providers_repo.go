package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"turno/backend/internal/domain"
	"turno/backend/internal/store"
)

type ProviderRepo struct {
	db *bun.DB
}

func NewProviderRepo(db *bun.DB) *ProviderRepo {
	return &ProviderRepo{db: db}
}

func (r *ProviderRepo) List(ctx context.Context) ([]domain.Provider, error) {
	var rows []domain.Provider
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ProviderRepo) Get(ctx context.Context, providerID uuid.UUID) (domain.Provider, error) {
	var m domain.Provider
	err := r.db.NewSelect().
		Model(&m).
		Where("id = ?", providerID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Provider{}, store.ErrNotFound
		}
		return domain.Provider{}, err
	}
	return m, nil
}

func (r *ProviderRepo) Create(ctx context.Context, p domain.Provider) (domain.Provider, error) {
	m := p
	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Provider{}, err
	}
	return m, nil
}

func (r *ProviderRepo) Delete(ctx context.Context, providerID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Provider)(nil)).
		Where("id = ?", providerID).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *ProviderRepo) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*domain.Provider)(nil)).Count(ctx)
}

func (r *ProviderRepo) CreateBatch(ctx context.Context, ps []domain.Provider) error {
	if len(ps) == 0 {
		return nil
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		rows := make([]domain.Provider, len(ps))
		copy(rows, ps)
		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
}
