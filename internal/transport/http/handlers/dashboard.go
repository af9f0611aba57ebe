package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Gourab-ghosh21/digital-spark/internal/dashboard"
	"github.com/Gourab-ghosh21/digital-spark/internal/transport/http/response"
)

// DashboardHandler serves the static dashboard feed. Every route sits behind the guard.
type DashboardHandler struct {
	feed *dashboard.Feed
}

func NewDashboardHandler(feed *dashboard.Feed) *DashboardHandler {
	return &DashboardHandler{feed: feed}
}

func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	response.OK(w, r, h.feed.Overview())
}

func (h *DashboardHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	response.OK(w, r, h.feed.Sessions())
}

// Intel handles GET /api/v1/dashboard/intel?session_id=
func (h *DashboardHandler) Intel(w http.ResponseWriter, r *http.Request) {
	response.OK(w, r, h.feed.Intel(r.URL.Query().Get("session_id")))
}

func (h *DashboardHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.OK(w, r, h.feed.Status())
}

// Conversation handles GET /api/v1/dashboard/conversation and /conversation/{id}
func (h *DashboardHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	conv, err := h.feed.Conversation(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, r, conv)
}
