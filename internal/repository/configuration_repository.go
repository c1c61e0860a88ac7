package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/00DarkGhost00/Tracking-absence/internal/models"
)

// ConfigurationRepository persists key/value settings.
type ConfigurationRepository struct {
	db *sqlx.DB
}

// NewConfigurationRepository constructs the repository.
func NewConfigurationRepository(db *sqlx.DB) *ConfigurationRepository {
	return &ConfigurationRepository{db: db}
}

// ListByKeys returns configurations whose key is in keys.
func (r *ConfigurationRepository) ListByKeys(ctx context.Context, keys []string) ([]models.Configuration, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT key, value, updated_by, updated_at FROM configurations WHERE key IN (?) ORDER BY key`, keys)
	if err != nil {
		return nil, fmt.Errorf("build configuration query: %w", err)
	}
	var configs []models.Configuration
	if err := r.db.SelectContext(ctx, &configs, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list configurations: %w", err)
	}
	return configs, nil
}

// BulkUpsert writes every entry through exec, or in its own transaction when exec is nil.
func (r *ConfigurationRepository) BulkUpsert(ctx context.Context, exec sqlx.ExtContext, cfgs []models.Configuration) error {
	if len(cfgs) == 0 {
		return nil
	}
	if exec == nil {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin configuration tx: %w", err)
		}
		if err := r.BulkUpsert(ctx, tx, cfgs); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit configuration tx: %w", err)
		}
		return nil
	}

	const query = `INSERT INTO configurations (key, value, updated_by, updated_at)
VALUES (:key, :value, :updated_by, :updated_at)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	for i := range cfgs {
		cfgs[i].UpdatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, exec, query, cfgs[i]); err != nil {
			return fmt.Errorf("upsert configuration %s: %w", cfgs[i].Key, err)
		}
	}
	return nil
}
