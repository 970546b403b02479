package handler

import (
	"net/http"

	"github.com/bolivianotech/consulta-aulas-backend/internal/middleware"
	"github.com/bolivianotech/consulta-aulas-backend/internal/response"
	"github.com/bolivianotech/consulta-aulas-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the admin presence monitor.
type SessionHandler struct {
	monitor *service.SessionMonitor
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(monitor *service.SessionMonitor) *SessionHandler {
	return &SessionHandler{monitor: monitor}
}

// Heartbeat godoc
// POST /api/admin/session/heartbeat
// Records activity for the calling admin panel. X-Client-Id is mandatory;
// the response carries the refreshed snapshot so panels can update their
// presence display without a second call.
func (h *SessionHandler) Heartbeat(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if actor.ClientID == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrClientIDRequired)
		return
	}

	h.monitor.Heartbeat(actor.ClientID, actor.UserAgent)

	response.Success(c, http.StatusOK, h.monitor.Snapshot())
}

// Active godoc
// GET /api/admin/session/active
// Returns the sessions seen within the activity window, newest first.
func (h *SessionHandler) Active(c *gin.Context) {
	response.Success(c, http.StatusOK, h.monitor.Snapshot())
}
