package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GeorgePetre11/CyberEdPlatform/internal/course/application"
	"github.com/GeorgePetre11/CyberEdPlatform/internal/course/domain"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("course-http"),
	}
}

type courseReq struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

type inventoryUpdateReq struct {
	QuantityChange int `json:"quantityChange"`
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/api/courses", h.createCourse)
	r.Get("/api/courses", h.listCourses)
	r.Get("/api/courses/health", h.health)
	r.Get("/api/courses/{id}", h.getCourse)
	r.Put("/api/courses/{id}", h.updateCourse)
	r.Delete("/api/courses/{id}", h.deleteCourse)
	r.Put("/api/courses/{id}/inventory", h.updateInventory)

	return r
}

func (h *Handler) createCourse(w http.ResponseWriter, r *http.Request) {
	var req courseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	course, err := h.service.CreateCourse(r.Context(), req.Title, req.Description, req.Price, req.Quantity)
	if errors.Is(err, domain.ErrDuplicateTitle) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.log.Error("create course failed", "err", err)
		writeError(w, http.StatusInternalServerError, "create failed")
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

func (h *Handler) listCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.ListCourses(r.Context())
	if err != nil {
		h.log.Error("list courses failed", "err", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (h *Handler) getCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(w, r)
	if !ok {
		return
	}
	course, err := h.service.GetCourse(r.Context(), id)
	if errors.Is(err, domain.ErrCourseNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.log.Error("get course failed", "course_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (h *Handler) updateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(w, r)
	if !ok {
		return
	}
	var req courseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	course, err := h.service.UpdateCourse(r.Context(), id, req.Title, req.Description, req.Price, req.Quantity)
	if errors.Is(err, domain.ErrCourseNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.log.Error("update course failed", "course_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "update failed")
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (h *Handler) deleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(w, r)
	if !ok {
		return
	}
	err := h.service.DeleteCourse(r.Context(), id)
	if errors.Is(err, domain.ErrCourseNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.log.Error("delete course failed", "course_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "course deleted"})
}

// updateInventory is the synchronous adjust path kept alongside the event
// channel; the order service itself only uses the asynchronous one.
func (h *Handler) updateInventory(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateInventory")
	defer span.End()

	id, ok := courseID(w, r)
	if !ok {
		return
	}
	var req inventoryUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	course, err := h.service.AdjustInventory(ctx, id, req.QuantityChange)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, course)
	case errors.Is(err, domain.ErrCourseNotFound), errors.Is(err, domain.ErrInsufficientStock):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("inventory update failed", "course_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "update failed")
	}
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "UP", "service": "course-service"})
}

func courseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid course id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
