package handler

import (
	"context"
	"net/http"
	"time"

	"golfmaster/internal/reservations/service"
	"golfmaster/internal/reservations/viewmodel"
	apperrors "golfmaster/pkg/errors"
	httputil "golfmaster/pkg/http"
	"golfmaster/pkg/logger"
	"golfmaster/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	basePath   = "/api/v1/reservations"
	stateEvent = "state"
)

// Feed is the live reservation list behind one streaming connection.
type Feed interface {
	Start(ctx context.Context) error
	Watch() (<-chan viewmodel.ListState, func())
	Close()
}

type FeedFactory func() Feed

type ReservationHandler struct {
	service   service.ReservationService
	newFeed   FeedFactory
	heartbeat time.Duration
	log       *logger.Logger
}

func NewReservationHandler(service service.ReservationService, newFeed FeedFactory, heartbeat time.Duration, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service:   service,
		newFeed:   newFeed,
		heartbeat: heartbeat,
		log:       log,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CreateReservationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	reservations, err := h.service.ListMine(r.Context())
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservations); err != nil {
		h.log.Error("failed to write success response", "handler", "ListMine", "operation", "WriteSuccess", "error", err)
	}
}

// Feed streams the caller's merged reservation list as Server-Sent Events.
// The live subscriptions last exactly as long as the connection.
func (h *ReservationHandler) Feed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rc := http.NewResponseController(w)

	feed := h.newFeed()
	defer feed.Close()

	if err := feed.Start(r.Context()); err != nil {
		h.writeError(w, "Feed", err)
		return
	}

	states, cancel := feed.Watch()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.log.Error("streaming not supported", "handler", "Feed", "operation", "Flush", "error", err)
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case state, ok := <-states:
			if !ok {
				return
			}
			if err := httputil.WriteEvent(w, stateEvent, state); err != nil {
				h.log.Warn("failed to write feed event", "handler", "Feed", "operation", "WriteEvent", "error", err)
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}

		case <-ticker.C:
			if err := httputil.WriteComment(w, "ping"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.writeError(w, "GetByID", apperrors.InvalidInput("ID parameter is required"))
		return
	}

	reservation, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.writeError(w, "Update", apperrors.InvalidInput("ID parameter is required"))
		return
	}

	var update model.ReservationUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	reservation, err := h.service.Update(r.Context(), id, &update)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.writeError(w, "Delete", apperrors.InvalidInput("ID parameter is required"))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST(basePath, h.Create)
	router.GET(basePath+"/mine", h.ListMine)
	router.GET(basePath+"/feed", h.Feed)
	router.GET(basePath+"/id/:id", h.GetByID)
	router.PATCH(basePath+"/id/:id", h.Update)
	router.DELETE(basePath+"/id/:id", h.Delete)
}
