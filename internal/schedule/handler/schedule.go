package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"bookable/internal/schedule/service"
	httputil "bookable/pkg/http"
	"bookable/pkg/logger"
	"bookable/pkg/model"
)

// ScheduleHandler exposes the owner calendar configuration API: week
// template, date overrides, blocked dates and the service catalog.
type ScheduleHandler struct {
	service service.ScheduleService
	log     *logger.Logger
}

func NewScheduleHandler(service service.ScheduleService, log *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		log:     log,
	}
}

func (h *ScheduleHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ScheduleHandler) badRequest(w http.ResponseWriter, handler, message string) {
	if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: message}); err != nil {
		h.log.Error("failed to write bad request response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *ScheduleHandler) UpsertTemplate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerId")

	var t model.WeekTemplate
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		h.badRequest(w, "UpsertTemplate", "Invalid request body")
		return
	}
	t.OwnerID = ownerID

	if err := h.service.UpsertTemplate(r.Context(), &t); err != nil {
		h.writeError(w, "UpsertTemplate", err)
		return
	}

	if err := httputil.WriteSuccess(w, t); err != nil {
		h.log.Error("failed to write success response", "handler", "UpsertTemplate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) GetTemplate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	t, err := h.service.GetTemplate(r.Context(), ps.ByName("ownerId"))
	if err != nil {
		h.writeError(w, "GetTemplate", err)
		return
	}

	if err := httputil.WriteSuccess(w, t); err != nil {
		h.log.Error("failed to write success response", "handler", "GetTemplate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) AddOverride(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var o model.DateOverride
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		h.badRequest(w, "AddOverride", "Invalid request body")
		return
	}
	o.OwnerID = ps.ByName("ownerId")

	if err := h.service.AddOverride(r.Context(), &o); err != nil {
		h.writeError(w, "AddOverride", err)
		return
	}

	if err := httputil.WriteCreated(w, o); err != nil {
		h.log.Error("failed to write created response", "handler", "AddOverride", "operation", "WriteCreated", "error", err)
	}
}

func (h *ScheduleHandler) ListOverrides(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	overrides, err := h.service.ListOverrides(r.Context(), ps.ByName("ownerId"), r.URL.Query().Get("date"))
	if err != nil {
		h.writeError(w, "ListOverrides", err)
		return
	}

	if err := httputil.WriteSuccess(w, overrides); err != nil {
		h.log.Error("failed to write success response", "handler", "ListOverrides", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) RemoveOverride(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.RemoveOverride(r.Context(), ps.ByName("ownerId"), ps.ByName("id")); err != nil {
		h.writeError(w, "RemoveOverride", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *ScheduleHandler) BlockDate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var b model.BlockedDate
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		h.badRequest(w, "BlockDate", "Invalid request body")
		return
	}
	b.OwnerID = ps.ByName("ownerId")

	if err := h.service.BlockDate(r.Context(), &b); err != nil {
		h.writeError(w, "BlockDate", err)
		return
	}

	if err := httputil.WriteCreated(w, b); err != nil {
		h.log.Error("failed to write created response", "handler", "BlockDate", "operation", "WriteCreated", "error", err)
	}
}

func (h *ScheduleHandler) UnblockDate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.UnblockDate(r.Context(), ps.ByName("ownerId"), ps.ByName("date")); err != nil {
		h.writeError(w, "UnblockDate", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *ScheduleHandler) ListBlockedDates(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListBlockedDates", err)
		return
	}

	blocked, err := h.service.ListBlockedDates(r.Context(), ps.ByName("ownerId"), limit, int(offset))
	if err != nil {
		h.writeError(w, "ListBlockedDates", err)
		return
	}

	if err := httputil.WriteSuccess(w, blocked); err != nil {
		h.log.Error("failed to write success response", "handler", "ListBlockedDates", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) CreateService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var svc model.Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		h.badRequest(w, "CreateService", "Invalid request body")
		return
	}
	svc.OwnerID = ps.ByName("ownerId")

	if err := h.service.CreateService(r.Context(), &svc); err != nil {
		h.writeError(w, "CreateService", err)
		return
	}

	if err := httputil.WriteCreated(w, svc); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateService", "operation", "WriteCreated", "error", err)
	}
}

func (h *ScheduleHandler) GetService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	svc, err := h.service.GetService(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetService", err)
		return
	}

	if err := httputil.WriteSuccess(w, svc); err != nil {
		h.log.Error("failed to write success response", "handler", "GetService", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) ListServices(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListServices", err)
		return
	}

	services, err := h.service.ListServices(r.Context(), ps.ByName("ownerId"), limit, int(offset))
	if err != nil {
		h.writeError(w, "ListServices", err)
		return
	}

	if err := httputil.WriteSuccess(w, services); err != nil {
		h.log.Error("failed to write success response", "handler", "ListServices", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) UpdateService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var svc model.Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		h.badRequest(w, "UpdateService", "Invalid request body")
		return
	}
	svc.OwnerID = ps.ByName("ownerId")

	if err := h.service.UpdateService(r.Context(), ps.ByName("id"), &svc); err != nil {
		h.writeError(w, "UpdateService", err)
		return
	}

	if err := httputil.WriteSuccess(w, svc); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateService", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) DeleteService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeleteService(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "DeleteService", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *ScheduleHandler) RegisterRoutes(router *httprouter.Router) {
	router.PUT("/api/v1/owners/:ownerId/template", h.UpsertTemplate)
	router.GET("/api/v1/owners/:ownerId/template", h.GetTemplate)

	router.POST("/api/v1/owners/:ownerId/overrides", h.AddOverride)
	router.GET("/api/v1/owners/:ownerId/overrides", h.ListOverrides)
	router.DELETE("/api/v1/owners/:ownerId/overrides/:id", h.RemoveOverride)

	router.POST("/api/v1/owners/:ownerId/blocked-dates", h.BlockDate)
	router.GET("/api/v1/owners/:ownerId/blocked-dates", h.ListBlockedDates)
	router.DELETE("/api/v1/owners/:ownerId/blocked-dates/:date", h.UnblockDate)

	router.POST("/api/v1/owners/:ownerId/services", h.CreateService)
	router.GET("/api/v1/owners/:ownerId/services", h.ListServices)
	router.GET("/api/v1/owners/:ownerId/services/:id", h.GetService)
	router.PUT("/api/v1/owners/:ownerId/services/:id", h.UpdateService)
	router.DELETE("/api/v1/owners/:ownerId/services/:id", h.DeleteService)
}
