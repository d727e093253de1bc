package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"banner-editor/internal/aiclient"
	"banner-editor/internal/domain"
)

type textFixRequest struct {
	Context       string `json:"context,omitempty"`
	OriginalText  string `json:"original_text,omitempty"`
	CorrectedText string `json:"corrected_text"`
}

// TextFix chains the OCR and text-replace services over the current
// selection of one context. When the caller omits the original text it
// is recognized from the selected crop areas first.
func (a *App) TextFix(w http.ResponseWriter, r *http.Request) {
	e, ok := a.entry(chi.URLParam(r, "id"))
	if !ok {
		a.fail(w, domain.ErrNotFound)
		return
	}
	var req textFixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	ctx, ok := parseContext(req.Context)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown context")
		return
	}
	if strings.TrimSpace(req.CorrectedText) == "" {
		a.fail(w, domain.ErrNoInstruction)
		return
	}

	original := req.OriginalText
	if original == "" {
		masks, image, err := e.session.Masks(ctx)
		if err != nil {
			a.fail(w, err)
			return
		}
		if len(masks) == 0 {
			a.fail(w, domain.ErrNoSelection)
			return
		}
		original, err = a.AI.RecognizeText(r.Context(), aiclient.OCRRequest{
			SourceImage: image.URL,
			CropAreas:   masks,
		})
		if err != nil {
			a.fail(w, err)
			return
		}
	}

	outcome, err := e.session.ExecuteTextFix(r.Context(), a.AI, ctx, original, req.CorrectedText)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"recognized_text": original,
		"outcome":         outcome,
	})
}
