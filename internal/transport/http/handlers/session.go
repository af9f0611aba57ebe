package http_handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Gourab-ghosh21/digital-spark/internal/guard"
	"github.com/Gourab-ghosh21/digital-spark/internal/logger"
	"github.com/Gourab-ghosh21/digital-spark/internal/session"
	"github.com/Gourab-ghosh21/digital-spark/internal/transport/http/dto"
	"github.com/Gourab-ghosh21/digital-spark/internal/transport/http/response"
)

// StoreLookup finds the live store for a client session and marks it as used.
type StoreLookup interface {
	Get(id string) (*session.Store, bool)
}

type SessionHandler struct {
	stores    StoreLookup
	heartbeat time.Duration
}

// NewSessionHandler streams phases with a heartbeat every heartbeat interval.
// When stores is set, every heartbeat keeps the client's store alive and the
// stream ends once that store has been evicted or replaced.
func NewSessionHandler(stores StoreLookup, heartbeat time.Duration) *SessionHandler {
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	return &SessionHandler{stores: stores, heartbeat: heartbeat}
}

// Current handles GET /api/v1/session. It is never guarded: a loading or
// signed-out client gets its state, not an error.
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	_, store, err := clientStore(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	response.OK(w, r, dto.NewSessionView(store.State()))
}

// Events handles GET /api/v1/session/events, a server-sent event stream of
// guard phases. The current phase is sent first, then every transition.
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	clientID, store, err := clientStore(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	phases := make(chan guard.Phase, 8)
	m := guard.NewMachine(store, func(tr guard.Transition) {
		select {
		case phases <- tr.To:
		default:
		}
	})
	defer m.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	send := func(p guard.Phase) bool {
		if _, err := fmt.Fprintf(w, "event: phase\ndata: %s\n\n", p); err != nil {
			return false
		}
		return rc.Flush() == nil
	}

	if !send(m.Phase()) {
		logger.Ctx(r.Context()).Debug().Msg("session events: streaming unsupported")
		return
	}

	tick := time.NewTicker(h.heartbeat)
	defer tick.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case p := <-phases:
			if !send(p) {
				return
			}
		case <-tick.C:
			if !h.alive(clientID, store) {
				logger.Ctx(r.Context()).Debug().Msg("session events: store evicted, closing stream")
				return
			}
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil || rc.Flush() != nil {
				return
			}
		}
	}
}

func (h *SessionHandler) alive(clientID string, store *session.Store) bool {
	if h.stores == nil {
		return true
	}
	cur, ok := h.stores.Get(clientID)
	return ok && cur == store
}
