package handlers

import (
	"net/http"
	"testing"

	"banner-editor/internal/aiclient"
	"banner-editor/internal/domain"
)

func TestSessionOpenAndGet(t *testing.T) {
	app := newTestApp(&fakeEditService{})
	analytics := &fakeAnalytics{}
	app.Analytics = analytics
	h := newTestRouter(app)

	id := openTestSession(t, h)

	rec := doJSON(t, h, http.MethodGet, "/v1/sessions/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get session: status %d", rec.Code)
	}
	var resp struct {
		DualMode bool `json:"dual_mode"`
		Contexts map[string]struct {
			Viewport struct {
				Scale  float64 `json:"scale"`
				Offset struct {
					X float64 `json:"x"`
					Y float64 `json:"y"`
				} `json:"offset"`
			} `json:"viewport"`
		} `json:"contexts"`
	}
	decodeBody(t, rec, &resp)
	if resp.DualMode {
		t.Fatalf("desktop-only session reported dual mode")
	}
	desktop, ok := resp.Contexts["desktop"]
	if !ok {
		t.Fatalf("missing desktop context")
	}
	if desktop.Viewport.Scale != 0.5 {
		t.Fatalf("fit scale = %v, want 0.5", desktop.Viewport.Scale)
	}
	if len(analytics.events) != 1 || analytics.events[0].ImageWidth != 800 {
		t.Fatalf("analytics event not recorded: %+v", analytics.events)
	}
}

func TestSessionOpenRequiresDecodableImage(t *testing.T) {
	app := newTestApp(&fakeEditService{})
	h := newTestRouter(app)

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions", map[string]any{
		"desktop": map[string]any{
			"image_base64": "not base64!!!",
			"container":    map[string]float64{"width": 400, "height": 300},
		},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestSessionOpenZeroBalanceIsAdvisory(t *testing.T) {
	app := newTestApp(&fakeEditService{})
	app.Billing = &fakeBalance{balance: 0}
	h := newTestRouter(app)

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions", map[string]any{
		"desktop": map[string]any{
			"image_url":  "http://assets.local/base.png",
			"image_size": map[string]float64{"width": 800, "height": 600},
			"container":  map[string]float64{"width": 400, "height": 300},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: an empty balance must not block the open", rec.Code)
	}
	var resp struct {
		SessionID string   `json:"session_id"`
		Balance   *float64 `json:"balance"`
	}
	decodeBody(t, rec, &resp)
	if resp.SessionID == "" {
		t.Fatalf("missing session id")
	}
	if resp.Balance == nil || *resp.Balance != 0 {
		t.Fatalf("balance = %v, want reported 0 for the client to gate execution", resp.Balance)
	}

	id := resp.SessionID
	dragSelect(t, h, id, 10, 10, 110, 110)
	rec = doJSON(t, h, http.MethodGet, "/v1/sessions/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("session unusable after zero-balance open: status %d", rec.Code)
	}
}

func TestSessionOpenUnknownBanner(t *testing.T) {
	app := newTestApp(&fakeEditService{})
	app.Banners = &fakeBannerStore{}
	h := newTestRouter(app)

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions", map[string]any{
		"banner_id": "missing",
		"desktop": map[string]any{
			"image_url":  "http://assets.local/base.png",
			"image_size": map[string]float64{"width": 800, "height": 600},
			"container":  map[string]float64{"width": 400, "height": 300},
		},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestEditPersistsBannerImage(t *testing.T) {
	svc := &fakeEditService{
		inpaint: func(req aiclient.InpaintRequest) (aiclient.EditResult, error) {
			return aiclient.EditResult{ImageURL: "http://assets.local/v2.png", ImageID: "v2"}, nil
		},
	}
	app := newTestApp(svc)
	banners := &fakeBannerStore{banners: map[string]*domain.Banner{"banner-1": {ID: "banner-1"}}}
	app.Banners = banners
	h := newTestRouter(app)

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions", map[string]any{
		"banner_id": "banner-1",
		"desktop": map[string]any{
			"image_url":  "http://assets.local/base.png",
			"image_size": map[string]float64{"width": 800, "height": 600},
			"container":  map[string]float64{"width": 400, "height": 300},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("open: status %d", rec.Code)
	}
	var open struct {
		SessionID string `json:"session_id"`
	}
	decodeBody(t, rec, &open)

	dragSelect(t, h, open.SessionID, 10, 10, 110, 110)
	rec = doJSON(t, h, http.MethodPost, "/v1/sessions/"+open.SessionID+"/edits", map[string]any{
		"instruction": "swap the product photo",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("edit: status %d", rec.Code)
	}
	if len(banners.updates) != 1 || banners.updates[0] != "banner-1/desktop/http://assets.local/v2.png" {
		t.Fatalf("banner updates = %v", banners.updates)
	}
}

func TestSessionCloseRemovesSession(t *testing.T) {
	app := newTestApp(&fakeEditService{})
	h := newTestRouter(app)
	id := openTestSession(t, h)

	rec := doJSON(t, h, http.MethodDelete, "/v1/sessions/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("close: status %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/v1/sessions/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after close: status %d, want 404", rec.Code)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	app := newTestApp(&fakeEditService{})
	h := newTestRouter(app)

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions/nope/zoom", map[string]any{"direction": "in"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestZoomSteps(t *testing.T) {
	app := newTestApp(&fakeEditService{})
	h := newTestRouter(app)
	id := openTestSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions/"+id+"/zoom", map[string]any{"direction": "in"})
	if rec.Code != http.StatusOK {
		t.Fatalf("zoom: status %d", rec.Code)
	}
	var resp struct {
		Viewport struct {
			Scale float64 `json:"scale"`
		} `json:"viewport"`
	}
	decodeBody(t, rec, &resp)
	if want := 0.6; resp.Viewport.Scale < want-1e-9 || resp.Viewport.Scale > want+1e-9 {
		t.Fatalf("scale after zoom in = %v, want %v", resp.Viewport.Scale, want)
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/sessions/"+id+"/zoom", map[string]any{"direction": "sideways"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad direction: status %d, want 400", rec.Code)
	}
}

func TestSelectionDragCommitMapsDeviceToImage(t *testing.T) {
	app := newTestApp(&fakeEditService{})
	h := newTestRouter(app)
	id := openTestSession(t, h)

	// Device (10,10)..(110,110) at scale 0.5 is image (20,20)..(220,220).
	dragSelect(t, h, id, 10, 10, 110, 110)

	rec := doJSON(t, h, http.MethodGet, "/v1/sessions/"+id, nil)
	var resp struct {
		Contexts map[string]struct {
			Selections []struct {
				X, Y, Width, Height float64
			} `json:"selections"`
		} `json:"contexts"`
	}
	decodeBody(t, rec, &resp)
	sels := resp.Contexts["desktop"].Selections
	if len(sels) != 1 {
		t.Fatalf("selection count = %d, want 1", len(sels))
	}
	s := sels[0]
	if s.X != 20 || s.Y != 20 || s.Width != 200 || s.Height != 200 {
		t.Fatalf("committed rect = %+v, want {20 20 200 200}", s)
	}
}

func TestSelectionClearAndRemove(t *testing.T) {
	app := newTestApp(&fakeEditService{})
	h := newTestRouter(app)
	id := openTestSession(t, h)

	dragSelect(t, h, id, 10, 10, 110, 110)

	rec := doJSON(t, h, http.MethodDelete, "/v1/sessions/"+id+"/selections/unknown-rect", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("remove unknown: status %d, want 404", rec.Code)
	}
	rec = doJSON(t, h, http.MethodDelete, "/v1/sessions/"+id+"/selections", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear: status %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/sessions/"+id, nil)
	var resp struct {
		Contexts map[string]struct {
			Selections []any `json:"selections"`
		} `json:"contexts"`
	}
	decodeBody(t, rec, &resp)
	if n := len(resp.Contexts["desktop"].Selections); n != 0 {
		t.Fatalf("selections after clear = %d, want 0", n)
	}
}

func TestEditExecuteAndUndo(t *testing.T) {
	var got aiclient.InpaintRequest
	svc := &fakeEditService{
		inpaint: func(req aiclient.InpaintRequest) (aiclient.EditResult, error) {
			got = req
			return aiclient.EditResult{ImageURL: "http://assets.local/v2.png", ImageID: "v2"}, nil
		},
	}
	app := newTestApp(svc)
	h := newTestRouter(app)
	id := openTestSession(t, h)
	dragSelect(t, h, id, 10, 10, 110, 110)

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions/"+id+"/edits", map[string]any{
		"instruction": "make the headline bolder",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("edit: status %d body %s", rec.Code, rec.Body.String())
	}
	if got.SourceImage != "http://assets.local/base.png" {
		t.Fatalf("inpaint source = %q", got.SourceImage)
	}
	if len(got.Masks) != 1 || got.Masks[0].X != 0.025 {
		t.Fatalf("inpaint masks = %+v", got.Masks)
	}
	if got.OriginalWidth != 800 || got.OriginalHeight != 600 {
		t.Fatalf("original dims = %dx%d", got.OriginalWidth, got.OriginalHeight)
	}

	var outcome struct {
		AnySuccess bool `json:"any_success"`
		Outcomes   map[string]struct {
			OK    bool `json:"ok"`
			Image struct {
				URL string `json:"url"`
			} `json:"image"`
		} `json:"outcomes"`
	}
	decodeBody(t, rec, &outcome)
	if !outcome.AnySuccess || !outcome.Outcomes["desktop"].OK {
		t.Fatalf("outcome = %+v", outcome)
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/sessions/"+id+"/undo", map[string]any{})
	if rec.Code != http.StatusOK {
		t.Fatalf("undo: status %d", rec.Code)
	}
	var undo struct {
		Undone bool `json:"undone"`
		Image  struct {
			URL string `json:"url"`
		} `json:"image"`
	}
	decodeBody(t, rec, &undo)
	if !undo.Undone || undo.Image.URL != "http://assets.local/base.png" {
		t.Fatalf("undo = %+v", undo)
	}
}

func TestEditExecuteWithoutSelection(t *testing.T) {
	app := newTestApp(&fakeEditService{})
	h := newTestRouter(app)
	id := openTestSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions/"+id+"/edits", map[string]any{
		"instruction": "anything",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestEditExecuteWithoutInstruction(t *testing.T) {
	app := newTestApp(&fakeEditService{})
	h := newTestRouter(app)
	id := openTestSession(t, h)
	dragSelect(t, h, id, 10, 10, 110, 110)

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions/"+id+"/edits", map[string]any{})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestTextFixRecognizesThenReplaces(t *testing.T) {
	svc := &fakeEditService{
		ocr: func(req aiclient.OCRRequest) (string, error) {
			return "キャンペーン開催中", nil
		},
		replace: func(req aiclient.TextReplaceRequest) (aiclient.EditResult, error) {
			if req.OriginalText != "キャンペーン開催中" {
				return aiclient.EditResult{}, nil
			}
			return aiclient.EditResult{ImageURL: "http://assets.local/fixed.png", ImageID: "fixed"}, nil
		},
	}
	app := newTestApp(svc)
	h := newTestRouter(app)
	id := openTestSession(t, h)
	dragSelect(t, h, id, 10, 10, 110, 110)

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions/"+id+"/text-fix", map[string]any{
		"corrected_text": "キャンペーン開催中！",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("text-fix: status %d body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		RecognizedText string `json:"recognized_text"`
		Outcome        struct {
			OK bool `json:"ok"`
		} `json:"outcome"`
	}
	decodeBody(t, rec, &resp)
	if resp.RecognizedText != "キャンペーン開催中" || !resp.Outcome.OK {
		t.Fatalf("text-fix response = %+v", resp)
	}
}

func TestSessionExportIsZip(t *testing.T) {
	app := newTestApp(&fakeEditService{})
	h := newTestRouter(app)
	id := openTestSession(t, h)

	rec := doJSON(t, h, http.MethodGet, "/v1/sessions/"+id+"/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export: status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("content type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Fatalf("empty archive")
	}
}
