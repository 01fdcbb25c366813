package transport

import (
	"errors"
	"net/http"
	"strings"

	"dishpatch-be/internal/cart"
	"dishpatch-be/internal/checkout"
	"dishpatch-be/internal/logger"
	"dishpatch-be/internal/order"
	"dishpatch-be/internal/resilience"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrderHandler struct {
	svc checkout.Service
}

func NewOrderHandler(svc checkout.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) Register(r chi.Router) {
	r.Post("/orders", h.PlaceOrder)
	r.Get("/orders", h.ListOrders)
	r.Get("/orders/{id}", h.GetOrder)
	r.Post("/orders/{id}/cancel", h.CancelOrder)
	r.Patch("/orders/{id}/status", h.AdvanceStatus)
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.CustomerID) == "" {
		httpError(w, http.StatusBadRequest, "customer_id is required")
		return
	}
	if strings.TrimSpace(req.PaymentMethodID) == "" {
		httpError(w, http.StatusBadRequest, "payment_method_id is required")
		return
	}

	o, err := h.svc.PlaceOrder(r.Context(), req.toInput())
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		httpError(w, http.StatusBadRequest, "order id is empty")
		return
	}

	o, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var status order.Status
	if q := r.URL.Query().Get("status"); q != "" {
		parsed, err := order.ParseStatus(q)
		if err != nil {
			httpError(w, http.StatusBadRequest, err.Error())
			return
		}
		status = parsed
	}

	orders, err := h.svc.ListOrders(r.Context(), status)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req cancelOrderRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r.Body, &req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
	}

	if err := h.svc.CancelOrder(r.Context(), id, req.Reason); err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"order_id": id,
	})
}

func (h *OrderHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req advanceStatusRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	next, err := order.ParseStatus(req.Status)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.AdvanceStatus(r.Context(), id, next); err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"order_id": id,
	})
}

// respondError maps domain errors onto HTTP statuses. Unknown errors
// stay opaque to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, cart.ErrCartOwnership),
		errors.Is(err, cart.ErrMissingRestaurant),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, checkout.ErrInvalidPricing):
		httpError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, checkout.ErrPaymentDeclined):
		httpError(w, http.StatusPaymentRequired, err.Error())

	case errors.Is(err, order.ErrOrderNotFound):
		httpError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, order.ErrConflict),
		errors.Is(err, order.ErrNotCancellable),
		errors.Is(err, order.ErrInvalidTransition):
		httpError(w, http.StatusConflict, err.Error())

	case errors.Is(err, checkout.ErrPaymentUnavailable),
		errors.Is(err, checkout.ErrRestaurantUnavailable),
		errors.Is(err, resilience.ErrCircuitOpen):
		httpError(w, http.StatusServiceUnavailable, err.Error())

	default:
		logger.FromCtx(r.Context()).Error("unhandled request error", zap.Error(err))
		httpError(w, http.StatusInternalServerError, "internal error")
	}
}
