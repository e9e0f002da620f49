package application

import (
	"context"

	"github.com/GeorgePetre11/CyberEdPlatform/internal/course/domain"
)

type CourseRepository interface {
	Create(ctx context.Context, c domain.Course) (domain.Course, error)
	GetByID(ctx context.Context, id int64) (domain.Course, error)
	GetByTitle(ctx context.Context, title string) (domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
	Update(ctx context.Context, c domain.Course) (domain.Course, error)
	Delete(ctx context.Context, id int64) error

	// AdjustQuantity applies quantity += delta atomically and refuses any
	// adjustment that would take the counter below zero.
	AdjustQuantity(ctx context.Context, id int64, delta int) (domain.Course, error)
}
