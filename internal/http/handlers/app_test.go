package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"banner-editor/internal/aiclient"
	"banner-editor/internal/domain"
	"banner-editor/internal/infra"
)

type fakeEditService struct {
	inpaint  func(req aiclient.InpaintRequest) (aiclient.EditResult, error)
	generate func(req aiclient.GenerateRequest) (aiclient.EditResult, error)
	replace  func(req aiclient.TextReplaceRequest) (aiclient.EditResult, error)
	upscale  func(req aiclient.UpscaleRequest) (aiclient.EditResult, error)
	ocr      func(req aiclient.OCRRequest) (string, error)
}

func (f *fakeEditService) Inpaint(_ context.Context, req aiclient.InpaintRequest) (aiclient.EditResult, error) {
	if f.inpaint == nil {
		return aiclient.EditResult{}, errors.New("inpaint not scripted")
	}
	return f.inpaint(req)
}

func (f *fakeEditService) Generate(_ context.Context, req aiclient.GenerateRequest) (aiclient.EditResult, error) {
	if f.generate == nil {
		return aiclient.EditResult{}, errors.New("generate not scripted")
	}
	return f.generate(req)
}

func (f *fakeEditService) ReplaceText(_ context.Context, req aiclient.TextReplaceRequest) (aiclient.EditResult, error) {
	if f.replace == nil {
		return aiclient.EditResult{}, errors.New("replace not scripted")
	}
	return f.replace(req)
}

func (f *fakeEditService) Upscale(_ context.Context, req aiclient.UpscaleRequest) (aiclient.EditResult, error) {
	if f.upscale == nil {
		return aiclient.EditResult{}, errors.New("upscale not scripted")
	}
	return f.upscale(req)
}

func (f *fakeEditService) RecognizeText(_ context.Context, req aiclient.OCRRequest) (string, error) {
	if f.ocr == nil {
		return "", errors.New("ocr not scripted")
	}
	return f.ocr(req)
}

type fakeBalance struct {
	balance float64
	err     error
}

func (f *fakeBalance) Balance(context.Context) (float64, error) { return f.balance, f.err }

type fakeRegionSaver struct {
	saved []byte
	id    string
	err   error
}

func (f *fakeRegionSaver) Save(_ context.Context, bannerID, bannerContext string, regionsJSON []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = regionsJSON
	if f.id == "" {
		f.id = "set-1"
	}
	return f.id, nil
}

type fakeBannerStore struct {
	banners map[string]*domain.Banner
	updates []string
}

func (f *fakeBannerStore) GetByID(_ context.Context, id string) (*domain.Banner, error) {
	if b, ok := f.banners[id]; ok {
		return b, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBannerStore) UpdateImage(_ context.Context, id, bannerContext, imageURL, assetID string) error {
	f.updates = append(f.updates, id+"/"+bannerContext+"/"+imageURL)
	return nil
}

type fakeAnalytics struct {
	events []domain.SessionEvent
}

func (f *fakeAnalytics) RecordSessionOpen(_ context.Context, ev domain.SessionEvent) error {
	f.events = append(f.events, ev)
	return nil
}

func testConfig() *infra.Config {
	return &infra.Config{
		AppEnv:         "test",
		StorageBaseURL: "http://localhost:8080/static",
		DefaultLocale:  "ja",
		MinSegments:    2,
		MaxSegments:    6,
	}
}

func newTestApp(svc EditService) *App {
	app := NewApp(zerolog.Nop(), testConfig())
	app.AI = svc
	return app
}

func newTestRouter(app *App) http.Handler {
	r := chi.NewRouter()
	r.Post("/v1/sessions", app.SessionOpen)
	r.Route("/v1/sessions/{id}", func(r chi.Router) {
		r.Get("/", app.SessionGet)
		r.Delete("/", app.SessionClose)
		r.Get("/export", app.SessionExport)
		r.Post("/zoom", app.Zoom)
		r.Post("/drag", app.SelectionDrag)
		r.Delete("/selections", app.SelectionClear)
		r.Delete("/selections/{rect}", app.SelectionRemove)
		r.Post("/edits", app.EditExecute)
		r.Post("/undo", app.Undo)
		r.Post("/text-fix", app.TextFix)
		r.Post("/variations", app.VariationStart)
		r.Get("/variations", app.VariationStatus)
		r.Post("/variations/{idx}/retry", app.VariationRetry)
		r.Post("/variations/{idx}/adopt", app.VariationAdopt)
		r.Put("/regions", app.RegionsPut)
		r.Post("/regions/hit", app.RegionHit)
		r.Post("/regions/drag", app.RegionDrag)
		r.Post("/regions/save", app.RegionsSave)
	})
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// openTestSession opens a desktop-only 800x600 session in a 400x300
// container (fit scale 0.5, no letterbox offset).
func openTestSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/v1/sessions", map[string]any{
		"desktop": map[string]any{
			"image_url":  "http://assets.local/base.png",
			"image_size": map[string]float64{"width": 800, "height": 600},
			"container":  map[string]float64{"width": 400, "height": 300},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("open session: status %d body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		SessionID string `json:"session_id"`
	}
	decodeBody(t, rec, &resp)
	if resp.SessionID == "" {
		t.Fatalf("missing session id")
	}
	return resp.SessionID
}

// dragSelect drives a full begin/move/end drag in device coordinates.
func dragSelect(t *testing.T, h http.Handler, id string, x0, y0, x1, y1 float64) {
	t.Helper()
	base := "/v1/sessions/" + id + "/drag"
	rec := doJSON(t, h, http.MethodPost, base, map[string]any{
		"phase": "begin", "point": map[string]float64{"x": x0, "y": y0},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("drag begin: status %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, base, map[string]any{
		"phase": "move", "point": map[string]float64{"x": x1, "y": y1},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("drag move: status %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, base, map[string]any{
		"phase": "end", "point": map[string]float64{"x": x1, "y": y1},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("drag end: status %d", rec.Code)
	}
}
