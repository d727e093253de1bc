package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"banner-editor/internal/aiclient"
	"banner-editor/internal/domain"
	"banner-editor/internal/editor"
	"banner-editor/internal/infra"
	"banner-editor/internal/storage"
	"banner-editor/internal/variation"
)

// EditService is the surface of the AI edit/generation service the
// handlers call. *aiclient.Client satisfies it.
type EditService interface {
	Inpaint(ctx context.Context, req aiclient.InpaintRequest) (aiclient.EditResult, error)
	Generate(ctx context.Context, req aiclient.GenerateRequest) (aiclient.EditResult, error)
	ReplaceText(ctx context.Context, req aiclient.TextReplaceRequest) (aiclient.EditResult, error)
	Upscale(ctx context.Context, req aiclient.UpscaleRequest) (aiclient.EditResult, error)
	RecognizeText(ctx context.Context, req aiclient.OCRRequest) (string, error)
}

// BalanceService reads the caller's credit balance.
type BalanceService interface {
	Balance(ctx context.Context) (float64, error)
}

// AnalyticsRecorder stores session-open events.
type AnalyticsRecorder interface {
	RecordSessionOpen(ctx context.Context, ev domain.SessionEvent) error
}

// RegionSetSaver persists validated region sets.
type RegionSetSaver interface {
	Save(ctx context.Context, bannerID, bannerContext string, regionsJSON []byte) (string, error)
}

// BannerStore loads and updates persisted banner records.
type BannerStore interface {
	GetByID(ctx context.Context, id string) (*domain.Banner, error)
	UpdateImage(ctx context.Context, id, bannerContext, imageURL, assetID string) error
}

// App is the handler container. Sessions and variation batches live in
// memory; everything else is injected.
type App struct {
	Logger    infra.Logger
	Cfg       *infra.Config
	AI        EditService
	Billing   BalanceService
	Store     *storage.FileStore
	Analytics AnalyticsRecorder
	Regions   RegionSetSaver
	Banners   BannerStore

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	session  *editor.Session
	bannerID string
	batch    *variation.Batch
	batchCtx editor.Context
}

// NewApp constructs the handler container.
func NewApp(logger infra.Logger, cfg *infra.Config) *App {
	return &App{
		Logger:   logger,
		Cfg:      cfg,
		sessions: make(map[string]*sessionEntry),
	}
}

func (a *App) entry(id string) (*sessionEntry, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	e, ok := a.sessions[id]
	return e, ok
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

// fail translates domain sentinels into HTTP status codes. Anything
// unrecognized is an internal error.
func (a *App) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrSessionClosed):
		a.error(w, http.StatusGone, "session_closed", err.Error())
	case errors.Is(err, domain.ErrEditInFlight):
		a.error(w, http.StatusConflict, "edit_in_flight", err.Error())
	case errors.Is(err, domain.ErrNoSelection):
		a.error(w, http.StatusUnprocessableEntity, "no_selection", err.Error())
	case errors.Is(err, domain.ErrNoInstruction):
		a.error(w, http.StatusUnprocessableEntity, "no_instruction", err.Error())
	case errors.Is(err, domain.ErrBatchTooSmall):
		a.error(w, http.StatusUnprocessableEntity, "batch_too_small", err.Error())
	case errors.Is(err, domain.ErrBatchTooLarge):
		a.error(w, http.StatusUnprocessableEntity, "batch_too_large", err.Error())
	case errors.Is(err, domain.ErrRetryInFlight):
		a.error(w, http.StatusConflict, "retry_in_flight", err.Error())
	case errors.Is(err, domain.ErrNotAdoptable):
		a.error(w, http.StatusUnprocessableEntity, "not_adoptable", err.Error())
	case errors.Is(err, domain.ErrImageDecode):
		a.error(w, http.StatusUnprocessableEntity, "image_decode", err.Error())
	case errors.Is(err, domain.ErrInsufficientBalance):
		a.error(w, http.StatusPaymentRequired, "insufficient_balance", err.Error())
	case errors.Is(err, domain.ErrSubscriptionNeeded):
		a.error(w, http.StatusPaymentRequired, "subscription_required", err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		a.error(w, http.StatusTooManyRequests, "rate_limited", err.Error())
	case errors.Is(err, domain.ErrProviderFailure):
		a.error(w, http.StatusBadGateway, "provider_failure", err.Error())
	default:
		a.error(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

// parseContext maps the wire context name, defaulting to desktop.
func parseContext(raw string) (editor.Context, bool) {
	switch raw {
	case "", string(editor.ContextDesktop):
		return editor.ContextDesktop, true
	case string(editor.ContextMobile):
		return editor.ContextMobile, true
	default:
		return "", false
	}
}
