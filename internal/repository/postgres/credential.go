package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/krishisakhi/sakhi-session/internal/model"
)

// Ensure CredentialRepository implements the model.CredentialStore interface.
var _ model.CredentialStore = (*CredentialRepository)(nil)

type CredentialRepository struct {
	db       *sql.DB
	deviceID string
}

func NewCredentialRepository(db *sql.DB, deviceID string) *CredentialRepository {
	return &CredentialRepository{db: db, deviceID: deviceID}
}

func (r *CredentialRepository) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `
        SELECT value FROM credentials
        WHERE device_id = $1 AND key = $2
    `
	var value string
	if err := r.db.QueryRowContext(ctx, query, r.deviceID, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get credential %q: %w", key, err)
	}
	return value, true, nil
}

func (r *CredentialRepository) Set(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO credentials (device_id, key, value, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (device_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
    `
	if _, err := r.db.ExecContext(ctx, query, r.deviceID, key, value); err != nil {
		return fmt.Errorf("failed to set credential %q: %w", key, err)
	}
	return nil
}

// RemoveAll deletes the keys in one transaction.
func (r *CredentialRepository) RemoveAll(ctx context.Context, keys ...string) (err error) {
	const query = `
        DELETE FROM credentials
        WHERE device_id = $1 AND key = $2
    `
	if len(keys) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, key := range keys {
		if _, err = tx.ExecContext(ctx, query, r.deviceID, key); err != nil {
			return fmt.Errorf("failed to remove credential %q: %w", key, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit credential removal: %w", err)
	}
	return nil
}
