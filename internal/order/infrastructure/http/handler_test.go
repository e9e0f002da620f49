package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	coursedom "github.com/GeorgePetre11/CyberEdPlatform/internal/course/domain"
	"github.com/GeorgePetre11/CyberEdPlatform/internal/order/application"
	"github.com/GeorgePetre11/CyberEdPlatform/internal/order/domain"
	orderpg "github.com/GeorgePetre11/CyberEdPlatform/internal/order/infrastructure/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	purchases []domain.Purchase
}

func (s *stubRepo) Create(_ context.Context, p domain.Purchase) (domain.Purchase, error) {
	p.ID = int64(len(s.purchases) + 1)
	s.purchases = append(s.purchases, p)
	return p, nil
}

func (s *stubRepo) GetByID(_ context.Context, id int64) (domain.Purchase, error) {
	for _, p := range s.purchases {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Purchase{}, orderpg.ErrPurchaseNotFound
}

func (s *stubRepo) ListByUser(_ context.Context, userID int64) ([]domain.Purchase, error) {
	var out []domain.Purchase
	for _, p := range s.purchases {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubRepo) ListAll(_ context.Context) ([]domain.Purchase, error) {
	return s.purchases, nil
}

type stubDirectory struct {
	userErr   error
	courseErr error
	quantity  int
}

func (s *stubDirectory) GetUser(context.Context, int64) (domain.User, error) {
	return domain.User{ID: 1, Username: "testuser"}, s.userErr
}

func (s *stubDirectory) GetCourse(context.Context, int64) (coursedom.Course, error) {
	return coursedom.Course{ID: 7, Title: "Introduction to Cybersecurity", Price: 49.99, Quantity: s.quantity}, s.courseErr
}

type stubPublisher struct{ events int }

func (s *stubPublisher) PublishOrderPlaced(context.Context, domain.OrderPlacedEvent) error {
	s.events++
	return nil
}

func newTestHandler(directory *stubDirectory) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := application.NewService(log, &stubRepo{}, directory, &stubPublisher{})
	return NewHandler(log, svc).Routes()
}

func TestCheckoutEndpoint_Success(t *testing.T) {
	h := newTestHandler(&stubDirectory{quantity: 5})

	req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout", strings.NewReader(`{"userId":1,"courseId":7}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var purchase domain.Purchase
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&purchase))
	assert.Equal(t, int64(1), purchase.UserID)
	assert.Equal(t, int64(7), purchase.CourseID)
	assert.Equal(t, "Introduction to Cybersecurity", purchase.CourseName)
	assert.Equal(t, 49.99, purchase.TotalPrice)
	assert.Equal(t, domain.StatusCompleted, purchase.Status)
}

func TestCheckoutEndpoint_Failures(t *testing.T) {
	tests := []struct {
		name      string
		directory *stubDirectory
		wantMsg   string
	}{
		{"user not found", &stubDirectory{userErr: errors.New("nope"), quantity: 5}, "user not found"},
		{"course not found", &stubDirectory{courseErr: errors.New("nope"), quantity: 5}, "course not found"},
		{"out of stock", &stubDirectory{quantity: 0}, "course out of stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(tt.directory)

			req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout", strings.NewReader(`{"userId":1,"courseId":7}`))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantMsg, body["error"])
		})
	}
}

func TestCheckoutEndpoint_InvalidBody(t *testing.T) {
	h := newTestHandler(&stubDirectory{quantity: 5})

	req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrderEndpoint_NotFound(t *testing.T) {
	h := newTestHandler(&stubDirectory{quantity: 5})

	req := httptest.NewRequest(http.MethodGet, "/api/orders/123", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(&stubDirectory{quantity: 5})

	req := httptest.NewRequest(http.MethodGet, "/api/orders/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "UP", body["status"])
	assert.Equal(t, "order-service", body["service"])
}
