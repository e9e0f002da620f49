package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GeorgePetre11/CyberEdPlatform/internal/course/domain"
	orderdom "github.com/GeorgePetre11/CyberEdPlatform/internal/order/domain"
)

type Service struct {
	log  *slog.Logger
	repo CourseRepository
}

func NewService(log *slog.Logger, repo CourseRepository) *Service {
	return &Service{log: log, repo: repo}
}

func (s *Service) CreateCourse(ctx context.Context, title, description string, price float64, quantity int) (domain.Course, error) {
	_, err := s.repo.GetByTitle(ctx, title)
	if err == nil {
		return domain.Course{}, domain.ErrDuplicateTitle
	}
	if !errors.Is(err, domain.ErrCourseNotFound) {
		return domain.Course{}, err
	}
	return s.repo.Create(ctx, domain.NewCourse(title, description, price, quantity))
}

func (s *Service) GetCourse(ctx context.Context, id int64) (domain.Course, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return s.repo.List(ctx)
}

// UpdateCourse applies partial updates: empty strings keep the stored
// title/description, non-positive price and negative quantity are ignored.
// CreatedAt is immutable.
func (s *Service) UpdateCourse(ctx context.Context, id int64, title, description string, price float64, quantity int) (domain.Course, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Course{}, err
	}
	if title != "" {
		course.Title = title
	}
	if description != "" {
		course.Description = description
	}
	if price > 0 {
		course.Price = price
	}
	if quantity >= 0 {
		course.Quantity = quantity
	}
	return s.repo.Update(ctx, course)
}

func (s *Service) DeleteCourse(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// AdjustInventory is the only mutation path for a course's quantity. The
// repository serializes adjustments per course and rejects any delta that
// would make the counter negative.
func (s *Service) AdjustInventory(ctx context.Context, courseID int64, delta int) (domain.Course, error) {
	course, err := s.repo.AdjustQuantity(ctx, courseID, delta)
	if err != nil {
		return domain.Course{}, err
	}
	s.log.Info("inventory adjusted", "course_id", courseID, "delta", delta, "quantity", course.Quantity)
	return course, nil
}

// HandleOrderPlaced applies one OrderPlaced event to the inventory ledger.
// It returns the failure kind instead of swallowing it; the caller logs the
// error and the message is considered consumed either way, so a failed
// adjustment is dropped, not retried.
func (s *Service) HandleOrderPlaced(ctx context.Context, event orderdom.OrderPlacedEvent) error {
	_, err := s.AdjustInventory(ctx, event.CourseID, event.QuantityChange)
	if err != nil {
		return fmt.Errorf("apply order %d: %w", event.OrderID, err)
	}
	return nil
}
