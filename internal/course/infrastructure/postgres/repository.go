package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/GeorgePetre11/CyberEdPlatform/internal/course/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const courseColumns = `id, title, description, price, quantity, created_at`

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS courses (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL UNIQUE,
		description TEXT,
		price DOUBLE PRECISION NOT NULL,
		quantity INT NOT NULL CHECK (quantity >= 0),
		created_at TIMESTAMPTZ NOT NULL
	)`)
	return err
}

func (r *Repository) Create(ctx context.Context, c domain.Course) (domain.Course, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO courses (title, description, price, quantity, created_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`,
		c.Title, c.Description, c.Price, c.Quantity, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return domain.Course{}, err
	}
	return c, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (domain.Course, error) {
	return r.get(ctx, `SELECT `+courseColumns+` FROM courses WHERE id=$1`, id)
}

func (r *Repository) GetByTitle(ctx context.Context, title string) (domain.Course, error) {
	return r.get(ctx, `SELECT `+courseColumns+` FROM courses WHERE title=$1`, title)
}

func (r *Repository) get(ctx context.Context, query string, arg any) (domain.Course, error) {
	var c domain.Course
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&c.ID, &c.Title, &c.Description, &c.Price, &c.Quantity, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Course{}, domain.ErrCourseNotFound
	}
	if err != nil {
		return domain.Course{}, err
	}
	return c, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Course, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		var c domain.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Price, &c.Quantity, &c.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *Repository) Update(ctx context.Context, c domain.Course) (domain.Course, error) {
	ct, err := r.pool.Exec(ctx, `UPDATE courses SET title=$2, description=$3, price=$4, quantity=$5 WHERE id=$1`,
		c.ID, c.Title, c.Description, c.Price, c.Quantity)
	if err != nil {
		return domain.Course{}, err
	}
	if ct.RowsAffected() == 0 {
		return domain.Course{}, domain.ErrCourseNotFound
	}
	return c, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

// AdjustQuantity applies the delta in a single conditional UPDATE. Postgres
// row locking serializes concurrent adjustments on the same course, so two
// purchases cannot race past the non-negative check.
func (r *Repository) AdjustQuantity(ctx context.Context, id int64, delta int) (domain.Course, error) {
	var c domain.Course
	err := r.pool.QueryRow(ctx, `UPDATE courses
		SET quantity = quantity + $2
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING `+courseColumns,
		id, delta).
		Scan(&c.ID, &c.Title, &c.Description, &c.Price, &c.Quantity, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the course is gone or the delta would go negative.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return domain.Course{}, getErr
		}
		return domain.Course{}, domain.ErrInsufficientStock
	}
	if err != nil {
		return domain.Course{}, err
	}
	return c, nil
}
