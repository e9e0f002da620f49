package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/GeorgePetre11/CyberEdPlatform/internal/order/domain"
	"github.com/GeorgePetre11/CyberEdPlatform/pkg/outbox"
	"github.com/GeorgePetre11/CyberEdPlatform/pkg/tracing"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPurchaseNotFound = errors.New("purchase not found")

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS purchases (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		course_id BIGINT NOT NULL,
		course_name TEXT NOT NULL,
		total_price DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL,
		purchased_at TIMESTAMPTZ NOT NULL
	)`)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS outbox (
		id BIGSERIAL PRIMARY KEY,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		type TEXT NOT NULL,
		payload JSONB NOT NULL,
		headers JSONB,
		traceparent TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		relay_id TEXT,
		lease_until TIMESTAMPTZ,
		retry_count INT NOT NULL DEFAULT 0,
		last_error TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	return err
}

func (r *Repository) Create(ctx context.Context, p domain.Purchase) (domain.Purchase, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO purchases (user_id, course_id, course_name, total_price, status, purchased_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id`,
		p.UserID, p.CourseID, p.CourseName, p.TotalPrice, p.Status, p.PurchasedAt).Scan(&p.ID)
	if err != nil {
		return domain.Purchase{}, err
	}
	return p, nil
}

// CreateWithOutbox records the purchase and stages its OrderPlaced event in
// the same transaction; the relay picks the event up from the outbox table.
func (r *Repository) CreateWithOutbox(ctx context.Context, p domain.Purchase, event domain.OrderPlacedEvent) (domain.Purchase, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Purchase{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = tx.QueryRow(ctx, `INSERT INTO purchases (user_id, course_id, course_name, total_price, status, purchased_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id`,
		p.UserID, p.CourseID, p.CourseName, p.TotalPrice, p.Status, p.PurchasedAt).Scan(&p.ID)
	if err != nil {
		return domain.Purchase{}, err
	}

	event.OrderID = p.ID
	payload, err := json.Marshal(event)
	if err != nil {
		return domain.Purchase{}, err
	}

	headers, err := json.Marshal(map[string]string{"source": "order-service"})
	if err != nil {
		return domain.Purchase{}, err
	}
	_, err = tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, headers, traceparent, status)
		VALUES ($1,$2,$3,$4,$5,$6,'pending')`,
		"order", strconv.FormatInt(p.ID, 10), domain.OrderPlacedType, payload, headers, tracing.Traceparent(ctx))
	if err != nil {
		return domain.Purchase{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Purchase{}, err
	}
	return p, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (domain.Purchase, error) {
	var p domain.Purchase
	err := r.pool.QueryRow(ctx, `SELECT id, user_id, course_id, course_name, total_price, status, purchased_at
		FROM purchases WHERE id=$1`, id).
		Scan(&p.ID, &p.UserID, &p.CourseID, &p.CourseName, &p.TotalPrice, &p.Status, &p.PurchasedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Purchase{}, ErrPurchaseNotFound
	}
	if err != nil {
		return domain.Purchase{}, err
	}
	return p, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]domain.Purchase, error) {
	return r.list(ctx, `SELECT id, user_id, course_id, course_name, total_price, status, purchased_at
		FROM purchases WHERE user_id=$1 ORDER BY id`, userID)
}

func (r *Repository) ListAll(ctx context.Context) ([]domain.Purchase, error) {
	return r.list(ctx, `SELECT id, user_id, course_id, course_name, total_price, status, purchased_at
		FROM purchases ORDER BY id`)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Purchase, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []domain.Purchase
	for rows.Next() {
		var p domain.Purchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.CourseID, &p.CourseName, &p.TotalPrice, &p.Status, &p.PurchasedAt); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

type OutboxStore struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewOutboxStore(log *slog.Logger, pool *pgxpool.Pool) *OutboxStore {
	return &OutboxStore{log: log, pool: pool}
}

func (s *OutboxStore) LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]outbox.Event, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	rows, err := tx.Query(ctx, `
		SELECT id, aggregate_type, aggregate_id, type, payload, headers, traceparent, created_at
		FROM outbox
		WHERE status = 'pending'
		ORDER BY id
		FOR UPDATE SKIP LOCKED
		LIMIT $1
	`, batchSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []outbox.Event
	for rows.Next() {
		var event outbox.Event
		var headers map[string]string
		if err := rows.Scan(&event.ID, &event.AggregateType, &event.AggregateID, &event.Type, &event.Payload, &headers, &event.Traceparent, &event.CreatedAt); err != nil {
			return nil, err
		}
		event.Headers = headers
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, tx.Commit(ctx)
	}

	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}

	_, err = tx.Exec(ctx, `UPDATE outbox SET status='in_progress', relay_id=$1, lease_until=now() + make_interval(secs => $2) WHERE id = ANY($3)`, relayID, lease.Seconds(), ids)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, ids []int64) error {
	ct, err := s.pool.Exec(ctx, `UPDATE outbox SET status='sent' WHERE id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.New("no rows updated")
	}
	return nil
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	_, err := s.pool.Exec(ctx, `UPDATE outbox SET status='failed', last_error=$2, retry_count=retry_count+1 WHERE id=$1`, id, errMsg)
	return err
}

func (s *OutboxStore) ExtendLease(ctx context.Context, relayID string, ids []int64, lease time.Duration) error {
	_, err := s.pool.Exec(ctx, `UPDATE outbox SET lease_until=now() + make_interval(secs => $1) WHERE id = ANY($2) AND relay_id=$3`, lease.Seconds(), ids, relayID)
	return err
}
