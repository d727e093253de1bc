package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"banner-editor/internal/aiclient"
	"banner-editor/internal/domain"
	"banner-editor/internal/editor"
	"banner-editor/internal/middleware"
)

type editRequest struct {
	Instruction    string                    `json:"instruction,omitempty"`
	Triple         *editor.EditTriple        `json:"triple,omitempty"`
	ReferenceImage string                    `json:"reference_image,omitempty"`
	Design         *aiclient.ReferenceDesign `json:"reference_design,omitempty"`
	OutputSize     aiclient.OutputSize       `json:"output_size,omitempty"`
}

// EditExecute runs one inpaint action over every context that has a
// committed selection. The handler blocks until all dispatched requests
// settle; per-context failures come back in the outcome, not as an HTTP
// error.
func (a *App) EditExecute(w http.ResponseWriter, r *http.Request) {
	e, ok := a.entry(chi.URLParam(r, "id"))
	if !ok {
		a.fail(w, domain.ErrNotFound)
		return
	}
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	outcome, err := e.session.ExecuteEdit(r.Context(), a.AI, editor.EditOptions{
		Instruction:    req.Instruction,
		Triple:         req.Triple,
		Locale:         middleware.LocaleFromContext(r.Context()),
		ReferenceImage: req.ReferenceImage,
		Design:         req.Design,
		OutputSize:     req.OutputSize,
	})
	if err != nil {
		a.fail(w, err)
		return
	}

	if e.bannerID != "" && a.Banners != nil {
		for name, res := range outcome.Outcomes {
			if !res.OK {
				continue
			}
			if err := a.Banners.UpdateImage(r.Context(), e.bannerID, string(name), res.Image.URL, res.Image.AssetID); err != nil {
				a.Logger.Warn().Err(err).Str("banner_id", e.bannerID).Msg("banner image update failed")
			}
		}
	}

	a.json(w, http.StatusOK, outcome)
}

type undoRequest struct {
	Context string `json:"context,omitempty"`
}

func (a *App) Undo(w http.ResponseWriter, r *http.Request) {
	e, ok := a.entry(chi.URLParam(r, "id"))
	if !ok {
		a.fail(w, domain.ErrNotFound)
		return
	}
	var req undoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	ctx, ok := parseContext(req.Context)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown context")
		return
	}
	ref, undone, err := e.session.Undo(ctx)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"undone": undone, "image": ref})
}
