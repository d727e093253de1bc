package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"banner-editor/internal/domain"
	"banner-editor/pkg/zip"
)

// SessionExport bundles the session's current state into a zip: one
// manifest per context with the current image reference, plus the
// region list as JSON. Image bytes stay behind the asset service.
func (a *App) SessionExport(w http.ResponseWriter, r *http.Request) {
	e, ok := a.entry(chi.URLParam(r, "id"))
	if !ok {
		a.fail(w, domain.ErrNotFound)
		return
	}

	var assets []zip.Asset
	for name, view := range e.session.Snapshot() {
		manifest, err := json.MarshalIndent(map[string]any{
			"context":       name,
			"image":         view.Image,
			"image_size":    view.ImageSize,
			"history_depth": view.HistoryDepth,
		}, "", "  ")
		if err != nil {
			a.fail(w, err)
			return
		}
		assets = append(assets, zip.Asset{
			Filename: string(name) + "/manifest.json",
			MIME:     "application/json",
			Data:     manifest,
		})
		if len(view.Regions) > 0 {
			regions, err := json.MarshalIndent(view.Regions, "", "  ")
			if err != nil {
				a.fail(w, err)
				return
			}
			assets = append(assets, zip.Asset{
				Filename: string(name) + "/regions.json",
				MIME:     "application/json",
				Data:     regions,
			})
		}
	}

	archive := zip.ArchiveAssets(assets)
	if archive == nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="session-`+e.session.ID+`.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
