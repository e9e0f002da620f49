package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GeorgePetre11/CyberEdPlatform/internal/order/application"
	orderpg "github.com/GeorgePetre11/CyberEdPlatform/internal/order/infrastructure/postgres"
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
		tracer:  otel.Tracer("order-http"),
	}
}

type checkoutReq struct {
	UserID   int64 `json:"userId"`
	CourseID int64 `json:"courseId"`
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/api/orders/checkout", h.checkout)
	r.Get("/api/orders", h.listOrders)
	r.Get("/api/orders/health", h.health)
	r.Get("/api/orders/user/{userId}", h.listOrdersByUser)
	r.Get("/api/orders/{id}", h.getOrder)

	return r
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Checkout")
	defer span.End()

	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	purchase, err := h.service.Checkout(ctx, req.UserID, req.CourseID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, purchase)
	case errors.Is(err, application.ErrUserNotFound),
		errors.Is(err, application.ErrCourseNotFound),
		errors.Is(err, application.ErrOutOfStock):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("checkout failed", "err", err)
		writeError(w, http.StatusInternalServerError, "checkout failed")
	}
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	purchase, err := h.service.GetOrder(r.Context(), id)
	if errors.Is(err, orderpg.ErrPurchaseNotFound) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		h.log.Error("get order failed", "order_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, purchase)
}

func (h *Handler) listOrdersByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	purchases, err := h.service.ListOrdersByUser(r.Context(), userID)
	if err != nil {
		h.log.Error("list orders by user failed", "user_id", userID, "err", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, purchases)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.service.ListOrders(r.Context())
	if err != nil {
		h.log.Error("list orders failed", "err", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, purchases)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "UP", "service": "order-service"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
