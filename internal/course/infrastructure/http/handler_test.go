package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GeorgePetre11/CyberEdPlatform/internal/course/application"
	"github.com/GeorgePetre11/CyberEdPlatform/internal/course/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	nextID  int64
	courses map[int64]domain.Course
}

func newStubRepo() *stubRepo {
	return &stubRepo{courses: make(map[int64]domain.Course)}
}

func (r *stubRepo) Create(_ context.Context, c domain.Course) (domain.Course, error) {
	r.nextID++
	c.ID = r.nextID
	r.courses[c.ID] = c
	return c, nil
}

func (r *stubRepo) GetByID(_ context.Context, id int64) (domain.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return domain.Course{}, domain.ErrCourseNotFound
	}
	return c, nil
}

func (r *stubRepo) GetByTitle(_ context.Context, title string) (domain.Course, error) {
	for _, c := range r.courses {
		if c.Title == title {
			return c, nil
		}
	}
	return domain.Course{}, domain.ErrCourseNotFound
}

func (r *stubRepo) List(_ context.Context) ([]domain.Course, error) {
	out := make([]domain.Course, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, c)
	}
	return out, nil
}

func (r *stubRepo) Update(_ context.Context, c domain.Course) (domain.Course, error) {
	if _, ok := r.courses[c.ID]; !ok {
		return domain.Course{}, domain.ErrCourseNotFound
	}
	r.courses[c.ID] = c
	return c, nil
}

func (r *stubRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.courses[id]; !ok {
		return domain.ErrCourseNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *stubRepo) AdjustQuantity(_ context.Context, id int64, delta int) (domain.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return domain.Course{}, domain.ErrCourseNotFound
	}
	if c.Quantity+delta < 0 {
		return domain.Course{}, domain.ErrInsufficientStock
	}
	c.Quantity += delta
	r.courses[id] = c
	return c, nil
}

func newTestHandler(t *testing.T) (http.Handler, *stubRepo) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newStubRepo()
	svc := application.NewService(log, repo)
	_, err := svc.CreateCourse(context.Background(), "Ethical Hacking Fundamentals", "pentesting", 79.99, 50)
	require.NoError(t, err)
	return NewHandler(log, svc).Routes(), repo
}

func TestCreateCourseEndpoint_Duplicate(t *testing.T) {
	h, _ := newTestHandler(t)

	body := `{"title":"Ethical Hacking Fundamentals","description":"x","price":1,"quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/courses", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCourseEndpoint_NotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/courses/99", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateInventoryEndpoint_Decrement(t *testing.T) {
	h, repo := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPut, "/api/courses/1/inventory", strings.NewReader(`{"quantityChange":-1}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var course domain.Course
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&course))
	assert.Equal(t, 49, course.Quantity)
	assert.Equal(t, 49, repo.courses[1].Quantity)
}

func TestUpdateInventoryEndpoint_RejectsNegative(t *testing.T) {
	h, repo := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPut, "/api/courses/1/inventory", strings.NewReader(`{"quantityChange":-51}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 50, repo.courses[1].Quantity)
}
