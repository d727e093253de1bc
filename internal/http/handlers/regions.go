package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"banner-editor/internal/domain"
	"banner-editor/internal/geom"
	"banner-editor/internal/region"
)

type regionsPutRequest struct {
	Context string          `json:"context,omitempty"`
	Regions []region.Region `json:"regions"`
}

// RegionsPut replaces the clickable-region list of a context. Regions
// arrive in image coordinates and are clamped to the image bounds.
func (a *App) RegionsPut(w http.ResponseWriter, r *http.Request) {
	e, ok := a.entry(chi.URLParam(r, "id"))
	if !ok {
		a.fail(w, domain.ErrNotFound)
		return
	}
	var req regionsPutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	ctx, ok := parseContext(req.Context)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown context")
		return
	}
	if err := e.session.SetRegions(ctx, req.Regions); err != nil {
		a.fail(w, err)
		return
	}
	regions, err := e.session.Regions(ctx)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"regions": regions})
}

type regionHitRequest struct {
	Context string     `json:"context,omitempty"`
	Point   geom.Point `json:"point"`
}

// RegionHit tests a device-space pointer-down against the region list
// and captures the topmost hit for the following drag.
func (a *App) RegionHit(w http.ResponseWriter, r *http.Request) {
	e, ok := a.entry(chi.URLParam(r, "id"))
	if !ok {
		a.fail(w, domain.ErrNotFound)
		return
	}
	var req regionHitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	ctx, ok := parseContext(req.Context)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown context")
		return
	}
	hit, found, err := e.session.HitRegion(ctx, req.Point)
	if err != nil {
		a.fail(w, err)
		return
	}
	resp := map[string]any{"hit": found}
	if found {
		resp["region_id"] = hit.RegionID
		resp["handle"] = hit.Handle
	}
	a.json(w, http.StatusOK, resp)
}

type regionDragRequest struct {
	Context string     `json:"context,omitempty"`
	Phase   string     `json:"phase"`
	Point   geom.Point `json:"point"`
}

// RegionDrag moves or resizes the captured region, one pointer frame
// per call. The end phase releases the capture.
func (a *App) RegionDrag(w http.ResponseWriter, r *http.Request) {
	e, ok := a.entry(chi.URLParam(r, "id"))
	if !ok {
		a.fail(w, domain.ErrNotFound)
		return
	}
	var req regionDragRequest
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
	case "move":
		if err := e.session.DragRegion(ctx, req.Point); err != nil {
			a.fail(w, err)
			return
		}
	case "end":
		if err := e.session.EndRegionDrag(ctx); err != nil {
			a.fail(w, err)
			return
		}
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "phase must be move or end")
		return
	}
	regions, err := e.session.Regions(ctx)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"regions": regions})
}

type regionsSaveRequest struct {
	Context  string `json:"context,omitempty"`
	BannerID string `json:"banner_id,omitempty"`
}

// RegionsSave validates the current region list and persists it.
// Validation stops at the first offending region; nothing is saved in
// that case.
func (a *App) RegionsSave(w http.ResponseWriter, r *http.Request) {
	e, ok := a.entry(chi.URLParam(r, "id"))
	if !ok {
		a.fail(w, domain.ErrNotFound)
		return
	}
	var req regionsSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	ctx, ok := parseContext(req.Context)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown context")
		return
	}
	regions, err := e.session.Regions(ctx)
	if err != nil {
		a.fail(w, err)
		return
	}
	if err := region.Validate(regions); err != nil {
		var ve *region.ValidationError
		if errors.As(err, &ve) {
			a.json(w, http.StatusUnprocessableEntity, map[string]string{
				"error":     "region_invalid",
				"region_id": ve.RegionID,
				"message":   ve.Reason,
			})
			return
		}
		a.fail(w, err)
		return
	}
	if a.Regions == nil {
		a.error(w, http.StatusServiceUnavailable, "persistence_unavailable", "region persistence not configured")
		return
	}
	bannerID := req.BannerID
	if bannerID == "" {
		bannerID = e.bannerID
	}
	payload, err := json.Marshal(regions)
	if err != nil {
		a.fail(w, err)
		return
	}
	setID, err := a.Regions.Save(r.Context(), bannerID, string(ctx), payload)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"region_set_id": setID, "count": len(regions)})
}
