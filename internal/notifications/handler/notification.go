package handler

import (
	"net/http"

	"golfmaster/internal/notifications/service"
	apperrors "golfmaster/pkg/errors"
	httputil "golfmaster/pkg/http"
	"golfmaster/pkg/logger"
	"golfmaster/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const basePath = "/api/v1/notifications"

type NotificationHandler struct {
	service service.NotificationService
	log     *logger.Logger
}

func NewNotificationHandler(service service.NotificationService, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log,
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}
	status := model.NotificationStatus(r.URL.Query().Get("status"))

	notifications, total, err := h.service.ListForRecipient(r.Context(), status, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, notifications, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *NotificationHandler) Respond(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.writeError(w, "Respond", apperrors.InvalidInput("ID parameter is required"))
		return
	}

	var req model.RespondRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Respond", err)
		return
	}

	notification, err := h.service.Respond(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, "Respond", err)
		return
	}

	if err := httputil.WriteSuccess(w, notification); err != nil {
		h.log.Error("failed to write success response", "handler", "Respond", "operation", "WriteSuccess", "error", err)
	}
}

func (h *NotificationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET(basePath, h.List)
	router.POST(basePath+"/id/:id/respond", h.Respond)
}
