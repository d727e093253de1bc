package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"banner-editor/internal/aiclient"
	"banner-editor/internal/domain"
	"banner-editor/internal/editor"
	"banner-editor/internal/variation"
)

// editGenerator adapts the edit service to the batch generator contract.
type editGenerator struct {
	svc EditService
}

func (g editGenerator) GenerateVariation(ctx context.Context, req variation.Request) (string, string, error) {
	res, err := g.svc.Generate(ctx, aiclient.GenerateRequest{
		Prompt:         req.Prompt,
		ReferenceImage: req.ReferenceImage,
		TargetWidth:    req.TargetWidth,
		TargetHeight:   req.TargetHeight,
		SegmentLabel:   req.SegmentLabel,
	})
	if err != nil {
		return "", "", err
	}
	return res.ImageURL, res.ImageID, nil
}

type variationStartRequest struct {
	Context     string   `json:"context,omitempty"`
	Instruction string   `json:"instruction"`
	Segments    []string `json:"segments"`
}

type variationStatusResponse struct {
	Results   []variation.Result  `json:"results"`
	Completed int                 `json:"completed"`
	Total     int                 `json:"total"`
	Aggregate variation.Aggregate `json:"aggregate"`
}

// VariationStart fans the current image of one context out into one
// generation per audience segment. The batch runs detached from the
// request; progress is polled via VariationStatus. Starting a new batch
// replaces the previous one for the session.
func (a *App) VariationStart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, ok := a.entry(id)
	if !ok {
		a.fail(w, domain.ErrNotFound)
		return
	}
	var req variationStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	vctx, ok := parseContext(req.Context)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown context")
		return
	}
	view, ok := e.session.Snapshot()[vctx]
	if !ok {
		a.fail(w, domain.ErrNotFound)
		return
	}

	batch, err := variation.New(editGenerator{svc: a.AI}, variation.Options{
		BaseImage:   view.Image.URL,
		Prompt:      req.Instruction,
		Segments:    req.Segments,
		Width:       int(view.ImageSize.Width),
		Height:      int(view.ImageSize.Height),
		MinSegments: a.Cfg.MinSegments,
		MaxSegments: a.Cfg.MaxSegments,
	})
	if err != nil {
		a.fail(w, err)
		return
	}

	a.mu.Lock()
	e.batch = batch
	e.batchCtx = vctx
	a.mu.Unlock()

	// Generation outlives the start request.
	go batch.Run(context.Background())

	a.json(w, http.StatusAccepted, variationStatusResponse{
		Results:   batch.Results(),
		Completed: batch.CompletedCount(),
		Total:     batch.Len(),
		Aggregate: batch.Aggregate(),
	})
}

// batchFor reads the session's current batch under the registry lock.
func (a *App) batchFor(id string) (*sessionEntry, *variation.Batch, editor.Context, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	e, ok := a.sessions[id]
	if !ok || e.batch == nil {
		return nil, nil, "", false
	}
	return e, e.batch, e.batchCtx, true
}

func (a *App) VariationStatus(w http.ResponseWriter, r *http.Request) {
	_, batch, _, ok := a.batchFor(chi.URLParam(r, "id"))
	if !ok {
		a.fail(w, domain.ErrNotFound)
		return
	}
	a.json(w, http.StatusOK, variationStatusResponse{
		Results:   batch.Results(),
		Completed: batch.CompletedCount(),
		Total:     batch.Len(),
		Aggregate: batch.Aggregate(),
	})
}

// VariationRetry re-dispatches one settled index and blocks until it
// settles again. Only that index changes.
func (a *App) VariationRetry(w http.ResponseWriter, r *http.Request) {
	_, batch, _, ok := a.batchFor(chi.URLParam(r, "id"))
	if !ok {
		a.fail(w, domain.ErrNotFound)
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "idx"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid index")
		return
	}
	if err := batch.Retry(r.Context(), index); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, variationStatusResponse{
		Results:   batch.Results(),
		Completed: batch.CompletedCount(),
		Total:     batch.Len(),
		Aggregate: batch.Aggregate(),
	})
}

type variationAdoptRequest struct {
	Upscale bool `json:"upscale,omitempty"`
}

// VariationAdopt takes one successful result as the context's current
// image, optionally upscaled first. The replaced image is pushed to
// history so adoption is undoable.
func (a *App) VariationAdopt(w http.ResponseWriter, r *http.Request) {
	e, batch, batchCtx, ok := a.batchFor(chi.URLParam(r, "id"))
	if !ok {
		a.fail(w, domain.ErrNotFound)
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "idx"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid index")
		return
	}
	var req variationAdoptRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	imageURL, imageID, err := batch.Adopt(index)
	if err != nil {
		a.fail(w, err)
		return
	}
	ref := editor.ImageRef{URL: imageURL, AssetID: imageID}
	if req.Upscale {
		res, err := a.AI.Upscale(r.Context(), aiclient.UpscaleRequest{SourceImage: imageURL})
		if err != nil {
			a.fail(w, err)
			return
		}
		ref = editor.ImageRef{URL: res.ImageURL, AssetID: res.ImageID}
	}
	if err := e.session.AdoptImage(batchCtx, ref); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"image": ref, "context": batchCtx})
}
