package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/target/lexdesk/internal/data/pgxutil"
	apperrors "github.com/target/lexdesk/internal/errors"
)

// ClientStateRepo stores per-client key/value state in the client_state table.
// It satisfies ports.ClientStore.
type ClientStateRepo struct {
	DB *sql.DB
}

// NewClientStateRepo creates a new ClientStateRepo.
func NewClientStateRepo(db *sql.DB) *ClientStateRepo {
	return &ClientStateRepo{DB: db}
}

// ErrClientIDRequired is returned when a write or read names no client.
var ErrClientIDRequired = errors.New("client_id is required")

const (
	selectClientStateSQL = `
		SELECT key, value
		FROM client_state
		WHERE client_id = $1 AND key = ANY($2)`

	upsertClientStateSQL = `
		INSERT INTO client_state (client_id, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (client_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	deleteClientStateSQL = `
		DELETE FROM client_state
		WHERE client_id = $1 AND key = ANY($2)`
)

// Get returns the requested keys present for the client.
func (r *ClientStateRepo) Get(ctx context.Context, clientID string, keys ...string) (map[string]string, error) {
	if clientID == "" {
		return nil, ErrClientIDRequired
	}
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, selectClientStateSQL, clientID, keys)
		if err != nil {
			return err
		}
		var k, v string
		_, err = pgx.ForEachRow(rows, []any{&k, &v}, func() error {
			out[k] = v
			return nil
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("select client state: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

// Set upserts every value in one transaction, so either all keys change or none do.
func (r *ClientStateRepo) Set(ctx context.Context, clientID string, values map[string]string) error {
	if clientID == "" {
		return ErrClientIDRequired
	}
	if len(values) == 0 {
		return nil
	}

	err := pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for k, v := range values {
			batch.Queue(upsertClientStateSQL, clientID, k, v)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("upsert client state: %w", apperrors.MapDBError(err))
	}
	return nil
}

// Delete removes the keys in a single statement. Missing keys are ignored.
func (r *ClientStateRepo) Delete(ctx context.Context, clientID string, keys ...string) error {
	if clientID == "" || len(keys) == 0 {
		return nil
	}
	if _, err := r.DB.ExecContext(ctx, deleteClientStateSQL, clientID, keys); err != nil {
		return fmt.Errorf("delete client state: %w", apperrors.MapDBError(err))
	}
	return nil
}

// Advisory lock keys so concurrent reapers do not contend for the same rows.
const (
	advisoryLockClientStateMajor = 2100
	advisoryLockPurgeIdle        = 1
)

// PurgeIdle deletes the state of up to batchSize clients that have not written
// anything since before. It returns the number of rows removed, which is zero when
// another instance holds the purge lock.
func (r *ClientStateRepo) PurgeIdle(ctx context.Context, before time.Time, batchSize int) (int64, error) {
	if batchSize < 1 {
		batchSize = 1
	}

	var rowsAffected int64
	err := pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		var locked bool
		if err := tx.QueryRow(ctx, "SELECT pg_try_advisory_xact_lock($1, $2)",
			advisoryLockClientStateMajor, advisoryLockPurgeIdle).Scan(&locked); err != nil {
			return fmt.Errorf("acquire advisory lock: %w", err)
		}
		if !locked {
			return nil
		}

		tag, err := tx.Exec(ctx, `
			DELETE FROM client_state
			WHERE client_id IN (
				SELECT client_id FROM client_state
				GROUP BY client_id
				HAVING max(updated_at) < $1
				ORDER BY max(updated_at)
				LIMIT $2
			)`, before.UTC(), batchSize)
		if err != nil {
			return err
		}
		rowsAffected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("purge idle client state: %w", apperrors.MapDBError(err))
	}
	return rowsAffected, nil
}
