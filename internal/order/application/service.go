package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GeorgePetre11/CyberEdPlatform/internal/order/domain"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrCourseNotFound = errors.New("course not found")
	ErrOutOfStock     = errors.New("course out of stock")
)

// OutboxPurchaseRepository persists a purchase and stages its OrderPlaced
// event in the same transaction. The repository fills in the event's order
// id once the insert has assigned one.
type OutboxPurchaseRepository interface {
	CreateWithOutbox(ctx context.Context, p domain.Purchase, event domain.OrderPlacedEvent) (domain.Purchase, error)
}

type Service struct {
	log       *slog.Logger
	repo      PurchaseRepository
	directory DirectoryClient
	publisher EventPublisher
	outbox    OutboxPurchaseRepository
}

func NewService(log *slog.Logger, repo PurchaseRepository, directory DirectoryClient, publisher EventPublisher) *Service {
	return &Service{log: log, repo: repo, directory: directory, publisher: publisher}
}

// WithOutbox switches checkout to transactional event staging: the relay
// dispatches staged events instead of the direct fire-and-forget publish.
func (s *Service) WithOutbox(repo OutboxPurchaseRepository) *Service {
	s.outbox = repo
	return s
}

// Checkout validates the user and course against their owning services,
// records the purchase, and hands an inventory-decrement event to the
// course service. The purchase is marked COMPLETED before the inventory
// side effect is confirmed; a failed publish is logged, never rolled back.
func (s *Service) Checkout(ctx context.Context, userID, courseID int64) (domain.Purchase, error) {
	user, err := s.directory.GetUser(ctx, userID)
	if err != nil {
		s.log.Warn("user lookup failed", "user_id", userID, "err", err)
		return domain.Purchase{}, ErrUserNotFound
	}

	course, err := s.directory.GetCourse(ctx, courseID)
	if err != nil {
		s.log.Warn("course lookup failed", "course_id", courseID, "err", err)
		return domain.Purchase{}, ErrCourseNotFound
	}

	if course.Quantity <= 0 {
		return domain.Purchase{}, ErrOutOfStock
	}

	p := domain.NewPurchase(userID, courseID, course.Title, course.Price)
	event := domain.OrderPlacedEvent{
		UserID:         userID,
		CourseID:       courseID,
		CourseName:     course.Title,
		TotalPrice:     course.Price,
		Timestamp:      p.PurchasedAt,
		QuantityChange: -1,
	}

	if s.outbox != nil {
		saved, err := s.outbox.CreateWithOutbox(ctx, p, event)
		if err != nil {
			return domain.Purchase{}, fmt.Errorf("persist purchase: %w", err)
		}
		s.log.Info("checkout completed", "order_id", saved.ID, "user", user.Username, "course_id", courseID)
		return saved, nil
	}

	saved, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Purchase{}, fmt.Errorf("persist purchase: %w", err)
	}

	event.OrderID = saved.ID
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		// The caller already owns a COMPLETED purchase; the inventory
		// decrement is lost until reconciled out of band.
		s.log.Error("order placed publish failed", "order_id", saved.ID, "err", err)
	} else {
		s.log.Info("order placed event published", "order_id", saved.ID, "course_id", courseID)
	}

	s.log.Info("checkout completed", "order_id", saved.ID, "user", user.Username, "course_id", courseID)
	return saved, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (domain.Purchase, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Purchase, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListOrders(ctx context.Context) ([]domain.Purchase, error) {
	return s.repo.ListAll(ctx)
}
