package handler

import (
	"net/http"

	"golfmaster/internal/players/service"
	apperrors "golfmaster/pkg/errors"
	httputil "golfmaster/pkg/http"
	"golfmaster/pkg/logger"
	"golfmaster/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const basePath = "/api/v1/players"

type PlayerHandler struct {
	service service.PlayerService
	log     *logger.Logger
}

func NewPlayerHandler(service service.PlayerService, log *logger.Logger) *PlayerHandler {
	return &PlayerHandler{
		service: service,
		log:     log,
	}
}

func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var player model.Player
	if err := httputil.DecodeJSON(r, &player); err != nil {
		h.writeError(w, "Register", err)
		return
	}

	if err := h.service.Register(r.Context(), &player); err != nil {
		h.writeError(w, "Register", err)
		return
	}

	if err := httputil.WriteCreated(w, player); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteCreated", "error", err)
	}
}

func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	player, err := h.service.GetMe(r.Context())
	if err != nil {
		h.writeError(w, "GetMe", err)
		return
	}

	if err := httputil.WriteSuccess(w, player); err != nil {
		h.log.Error("failed to write success response", "handler", "GetMe", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PlayerHandler) UpdateMe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var update model.PlayerUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "UpdateMe", err)
		return
	}

	player, err := h.service.UpdateMe(r.Context(), &update)
	if err != nil {
		h.writeError(w, "UpdateMe", err)
		return
	}

	if err := httputil.WriteSuccess(w, player); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateMe", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PlayerHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.writeError(w, "GetByID", apperrors.InvalidInput("ID parameter is required"))
		return
	}

	player, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, player); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// Candidates lists the players the caller can invite to a reservation.
func (h *PlayerHandler) Candidates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	players, err := h.service.ListInviteCandidates(r.Context())
	if err != nil {
		h.writeError(w, "Candidates", err)
		return
	}

	if err := httputil.WriteSuccess(w, players); err != nil {
		h.log.Error("failed to write success response", "handler", "Candidates", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PlayerHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *PlayerHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST(basePath, h.Register)
	router.GET(basePath+"/me", h.GetMe)
	router.PATCH(basePath+"/me", h.UpdateMe)
	router.GET(basePath+"/candidates", h.Candidates)
	router.GET(basePath+"/id/:id", h.GetByID)
}
