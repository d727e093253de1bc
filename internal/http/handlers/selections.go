package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"banner-editor/internal/domain"
	"banner-editor/internal/geom"
)

type dragRequest struct {
	Context string     `json:"context,omitempty"`
	Phase   string     `json:"phase"`
	Point   geom.Point `json:"point"`
}

// SelectionDrag drives the draft-rect lifecycle from device-space
// pointer events. The move phase mutates the draft synchronously, so
// the end phase always commits the last frame it saw.
func (a *App) SelectionDrag(w http.ResponseWriter, r *http.Request) {
	e, ok := a.entry(chi.URLParam(r, "id"))
	if !ok {
		a.fail(w, domain.ErrNotFound)
		return
	}
	var req dragRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	ctx, ok := parseContext(req.Context)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown context")
		return
	}

	switch req.Phase {
	case "begin":
		if err := e.session.BeginSelection(ctx, req.Point); err != nil {
			a.fail(w, err)
			return
		}
		a.json(w, http.StatusOK, map[string]any{"phase": "begin"})
	case "move":
		if err := e.session.UpdateSelection(ctx, req.Point); err != nil {
			a.fail(w, err)
			return
		}
		a.json(w, http.StatusOK, map[string]any{"phase": "move"})
	case "end":
		rect, committed, err := e.session.EndSelection(ctx)
		if err != nil {
			a.fail(w, err)
			return
		}
		resp := map[string]any{"phase": "end", "committed": committed}
		if committed {
			resp["rect"] = rect
		}
		a.json(w, http.StatusOK, resp)
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "unknown phase")
	}
}

func (a *App) SelectionRemove(w http.ResponseWriter, r *http.Request) {
	e, ok := a.entry(chi.URLParam(r, "id"))
	if !ok {
		a.fail(w, domain.ErrNotFound)
		return
	}
	ctx, ok := parseContext(r.URL.Query().Get("context"))
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown context")
		return
	}
	if err := e.session.RemoveSelection(ctx, chi.URLParam(r, "rect")); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (a *App) SelectionClear(w http.ResponseWriter, r *http.Request) {
	e, ok := a.entry(chi.URLParam(r, "id"))
	if !ok {
		a.fail(w, domain.ErrNotFound)
		return
	}
	ctx, ok := parseContext(r.URL.Query().Get("context"))
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown context")
		return
	}
	if err := e.session.ClearSelections(ctx); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "cleared"})
}

type zoomRequest struct {
	Context   string `json:"context,omitempty"`
	Direction string `json:"direction"`
}

func (a *App) Zoom(w http.ResponseWriter, r *http.Request) {
	e, ok := a.entry(chi.URLParam(r, "id"))
	if !ok {
		a.fail(w, domain.ErrNotFound)
		return
	}
	var req zoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	ctx, ok := parseContext(req.Context)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown context")
		return
	}
	var in bool
	switch req.Direction {
	case "in":
		in = true
	case "out":
		in = false
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "direction must be in or out")
		return
	}
	vp, err := e.session.Zoom(ctx, in)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"viewport": vp})
}
