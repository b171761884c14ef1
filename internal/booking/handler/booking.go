package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"bookable/internal/booking/service"
	httputil "bookable/pkg/http"
	"bookable/pkg/logger"
	"bookable/pkg/model"
)

// BookingHandler exposes the reservation API: admission, lookups and the
// lifecycle transitions (payment, cancel, reschedule, complete, no-show).
type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) badRequest(w http.ResponseWriter, handler, message string) {
	if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: message}); err != nil {
		h.log.Error("failed to write bad request response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *BookingHandler) Admit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "Admit", "Invalid request body")
		return
	}

	result, err := h.service.Admit(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Admit", err)
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Admit", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Get", err)
		return
	}

	if err := httputil.WriteSuccess(w, b); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListByOwner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookings, err := h.service.ListByOwnerAndDate(r.Context(), ps.ByName("ownerId"), r.URL.Query().Get("date"))
	if err != nil {
		h.writeError(w, "ListByOwner", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByOwner", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Cancel(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *BookingHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.service.ConfirmPayment(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "ConfirmPayment", err)
		return
	}

	if err := httputil.WriteSuccess(w, b); err != nil {
		h.log.Error("failed to write success response", "handler", "ConfirmPayment", "operation", "WriteSuccess", "error", err)
	}
}

type rescheduleRequest struct {
	Date string `json:"date"`
	Slot string `json:"slot"`
}

func (h *BookingHandler) Reschedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "Reschedule", "Invalid request body")
		return
	}

	b, err := h.service.Reschedule(r.Context(), ps.ByName("id"), req.Date, req.Slot)
	if err != nil {
		h.writeError(w, "Reschedule", err)
		return
	}

	if err := httputil.WriteSuccess(w, b); err != nil {
		h.log.Error("failed to write success response", "handler", "Reschedule", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Complete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Complete", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *BookingHandler) MarkNoShow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.MarkNoShow(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "MarkNoShow", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Admit)
	router.GET("/api/v1/bookings/:id", h.Get)
	router.POST("/api/v1/bookings/:id/cancel", h.Cancel)
	router.POST("/api/v1/bookings/:id/payment", h.ConfirmPayment)
	router.POST("/api/v1/bookings/:id/reschedule", h.Reschedule)
	router.POST("/api/v1/bookings/:id/complete", h.Complete)
	router.POST("/api/v1/bookings/:id/no-show", h.MarkNoShow)

	router.GET("/api/v1/owners/:ownerId/bookings", h.ListByOwner)
}
