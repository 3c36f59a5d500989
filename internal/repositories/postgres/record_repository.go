package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
    CREATE TABLE IF NOT EXISTS admin_records (
        resource   TEXT        NOT NULL,
        id         TEXT        NOT NULL,
        seq        BIGSERIAL,
        payload    JSONB       NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (resource, id)
    )`

// Migrate creates the records table when missing.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create admin_records: %w", err)
	}
	return nil
}

// RecordRepository stores one resource as JSONB rows; seq keeps insertion order.
type RecordRepository[T repositories.Record] struct {
	pool     *pgxpool.Pool
	resource string
}

func NewRecordRepository[T repositories.Record](pool *pgxpool.Pool, resource string) *RecordRepository[T] {
	return &RecordRepository[T]{pool: pool, resource: resource}
}

func (r *RecordRepository[T]) List(ctx context.Context) ([]T, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT payload FROM admin_records WHERE resource = $1 ORDER BY seq`, r.resource)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]T, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		record, err := decode[T](payload)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *RecordRepository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	var payload []byte
	err := r.pool.QueryRow(ctx,
		`SELECT payload FROM admin_records WHERE resource = $1 AND id = $2`, r.resource, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, models.NotFound(r.resource, id)
	}
	if err != nil {
		return zero, err
	}
	return decode[T](payload)
}

func (r *RecordRepository[T]) Insert(ctx context.Context, records ...T) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	stmt := `
        INSERT INTO admin_records (resource, id, payload)
        VALUES ($1, $2, $3)
        ON CONFLICT (resource, id) DO NOTHING`

	for _, record := range records {
		if record.GetID() == "" {
			return models.Invalid("%s id is required", r.resource)
		}
		payload, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to encode %s %q: %w", r.resource, record.GetID(), err)
		}
		tag, err := tx.Exec(ctx, stmt, r.resource, record.GetID(), payload)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%s %q already exists: %w", r.resource, record.GetID(), models.ErrValidation)
		}
	}

	return tx.Commit(ctx)
}

func (r *RecordRepository[T]) Update(ctx context.Context, id string, fn func(*T) error) (T, error) {
	var zero T
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return zero, err
	}
	defer tx.Rollback(ctx)

	var payload []byte
	err = tx.QueryRow(ctx,
		`SELECT payload FROM admin_records WHERE resource = $1 AND id = $2 FOR UPDATE`,
		r.resource, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, models.NotFound(r.resource, id)
	}
	if err != nil {
		return zero, err
	}

	record, err := decode[T](payload)
	if err != nil {
		return zero, err
	}
	if err := fn(&record); err != nil {
		return zero, err
	}
	if record.GetID() != id {
		return zero, models.Invalid("%s id cannot change", r.resource)
	}

	updated, err := json.Marshal(record)
	if err != nil {
		return zero, fmt.Errorf("failed to encode %s %q: %w", r.resource, id, err)
	}
	_, err = tx.Exec(ctx, `
        UPDATE admin_records
        SET payload = $3, updated_at = CURRENT_TIMESTAMP
        WHERE resource = $1 AND id = $2`, r.resource, id, updated)
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return zero, err
	}
	return record, nil
}

func (r *RecordRepository[T]) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM admin_records WHERE resource = $1 AND id = $2`, r.resource, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.NotFound(r.resource, id)
	}
	return nil
}

func (r *RecordRepository[T]) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM admin_records WHERE resource = $1", r.resource).Scan(&count)
	return count, err
}

func (r *RecordRepository[T]) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM admin_records WHERE resource = $1", r.resource)
	return err
}

func decode[T any](payload []byte) (T, error) {
	var record T
	if err := json.Unmarshal(payload, &record); err != nil {
		return record, fmt.Errorf("failed to decode record: %w", err)
	}
	return record, nil
}

// NewStores returns a Postgres-backed store for every resource on pool.
func NewStores(pool *pgxpool.Pool) repositories.Stores {
	return repositories.Stores{
		Orders:        NewRecordRepository[models.Order](pool, "order"),
		Ratings:       NewRecordRepository[models.DriverRating](pool, "rating"),
		Notifications: NewRecordRepository[models.Notification](pool, "notification"),
		Templates:     NewRecordRepository[models.NotificationTemplate](pool, "template"),
		Rewards:       NewRecordRepository[models.Reward](pool, "reward"),
		UserRewards:   NewRecordRepository[models.UserReward](pool, "user reward"),
		Users:         NewRecordRepository[models.User](pool, "user"),
	}
}

// Connect opens a pool for cfg and verifies it.
func Connect(ctx context.Context, cfg models.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	return pool, nil
}
