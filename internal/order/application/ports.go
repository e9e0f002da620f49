package application

import (
	"context"

	coursedom "github.com/GeorgePetre11/CyberEdPlatform/internal/course/domain"
	"github.com/GeorgePetre11/CyberEdPlatform/internal/order/domain"
)

type PurchaseRepository interface {
	Create(ctx context.Context, p domain.Purchase) (domain.Purchase, error)
	GetByID(ctx context.Context, id int64) (domain.Purchase, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Purchase, error)
	ListAll(ctx context.Context) ([]domain.Purchase, error)
}

// DirectoryClient looks up records on the user and course services.
type DirectoryClient interface {
	GetUser(ctx context.Context, id int64) (domain.User, error)
	GetCourse(ctx context.Context, id int64) (coursedom.Course, error)
}

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event domain.OrderPlacedEvent) error
}
