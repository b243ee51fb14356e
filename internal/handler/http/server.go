// Package http is the dispatch core's control-plane surface (§4.8): plain
// JSON-in/JSON-out handlers over go-chi, driving the dispatcher rather than
// listening to it (the reference service's long-polling shape doesn't apply
// here since HTTP is always the caller, never the callee).
package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/webitel/dispatch-core/internal/adapter/cache"
	"github.com/webitel/dispatch-core/internal/dispatch"
	"github.com/webitel/dispatch-core/internal/transport/wire"
)

// Handler bundles the dependencies every route needs.
type Handler struct {
	dispatcher *dispatch.Dispatcher
	names      *cache.NameCache
}

// NewHandler constructs a Handler.
func NewHandler(d *dispatch.Dispatcher, names *cache.NameCache) *Handler {
	return &Handler{dispatcher: d, names: names}
}

// Routes mounts the control surface on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/events", h.notify)
	r.Post("/events:deliver", h.deliver)
	r.Post("/tick", h.tick)
	r.Get("/events", h.hasEvents)
	r.Get("/registry", h.registry)
	r.Get("/healthz", h.healthz)
}

func (h *Handler) notify(w http.ResponseWriter, r *http.Request) {
	var env wire.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ev, err := env.ToEvent(nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.names.RememberEventType(ev.EventType())

	if _, err := dispatch.Sync(h.dispatcher.Notify(ev)); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) deliver(w http.ResponseWriter, r *http.Request) {
	var env wire.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ev, err := env.ToEvent(nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.names.RememberEventType(ev.EventType())

	handled, err := dispatch.Sync(h.dispatcher.Deliver(ev))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"handled": handled})
}

func (h *Handler) tick(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Timestamp uint64 `json:"timestamp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ok, err := dispatch.Sync(h.dispatcher.Tick(body.Timestamp))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		writeError(w, http.StatusConflict, dispatch.ErrTimeRegression)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) hasEvents(w http.ResponseWriter, r *http.Request) {
	has, err := dispatch.Sync(h.dispatcher.HasEvents())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	ts, err := dispatch.Sync(h.dispatcher.CurrentTimestep())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"has_events": has, "current_timestep": ts})
}

func (h *Handler) registry(w http.ResponseWriter, r *http.Request) {
	types, err := dispatch.Sync(h.dispatcher.GetRegisteredEvents())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	names := make([]string, 0, len(types))
	for _, t := range types {
		if name, ok := h.names.Lookup(t.Ident()); ok {
			names = append(names, name)
			continue
		}
		names = append(names, t.String())
	}
	writeJSON(w, http.StatusOK, map[string]any{"event_types": names})
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
