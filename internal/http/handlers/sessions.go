package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"banner-editor/internal/domain"
	"banner-editor/internal/editor"
	"banner-editor/internal/geom"
	"banner-editor/internal/middleware"
	"banner-editor/internal/storage"
)

type openContextRequest struct {
	ImageURL    string    `json:"image_url,omitempty"`
	AssetID     string    `json:"asset_id,omitempty"`
	ImageBase64 string    `json:"image_base64,omitempty"`
	ImageSize   geom.Size `json:"image_size,omitempty"`
	Container   geom.Size `json:"container"`
}

type openSessionRequest struct {
	BannerID string              `json:"banner_id,omitempty"`
	Desktop  openContextRequest  `json:"desktop"`
	Mobile   *openContextRequest `json:"mobile,omitempty"`
}

type sessionResponse struct {
	SessionID string                                `json:"session_id"`
	DualMode  bool                                  `json:"dual_mode"`
	Balance   *float64                              `json:"balance,omitempty"`
	Contexts  map[editor.Context]editor.ContextView `json:"contexts"`
}

// SessionOpen uploads (or references) the banner raster, decodes its
// dimensions, fits the viewport and registers the in-memory session. A
// raster that cannot be decoded fails the open; there is nothing to
// edit without pixel dimensions.
func (a *App) SessionOpen(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	if req.BannerID != "" && a.Banners != nil {
		if _, err := a.Banners.GetByID(r.Context(), req.BannerID); err != nil {
			a.fail(w, err)
			return
		}
	}

	desktopRef, desktopSize, err := a.resolveImage(r, req.Desktop)
	if err != nil {
		a.fail(w, err)
		return
	}

	// The balance is advisory and only gates the execute action on the
	// client; an empty balance never blocks opening, drawing or region
	// work. Races surface as request-time errors from the edit service.
	var balance *float64
	if a.Billing != nil {
		bal, err := a.Billing.Balance(r.Context())
		if err != nil {
			a.Logger.Warn().Err(err).Msg("balance check failed, continuing")
		} else {
			balance = &bal
		}
	}

	sess := editor.NewSession(desktopRef, desktopSize, req.Desktop.Container, a.Cfg.MaxSelections)
	if req.Mobile != nil {
		mobileRef, mobileSize, err := a.resolveImage(r, *req.Mobile)
		if err != nil {
			a.fail(w, err)
			return
		}
		sess.EnableMobile(mobileRef, mobileSize, req.Mobile.Container)
	}

	a.mu.Lock()
	a.sessions[sess.ID] = &sessionEntry{session: sess, bannerID: req.BannerID}
	a.mu.Unlock()

	if a.Analytics != nil {
		ev := domain.SessionEvent{
			SessionID:   sess.ID,
			Country:     middleware.CountryFromContext(r.Context()),
			Locale:      middleware.LocaleFromContext(r.Context()),
			ImageWidth:  int(desktopSize.Width),
			ImageHeight: int(desktopSize.Height),
			DualMode:    sess.DualMode(),
		}
		if err := a.Analytics.RecordSessionOpen(r.Context(), ev); err != nil {
			a.Logger.Warn().Err(err).Str("session_id", sess.ID).Msg("session analytics write failed")
		}
	}

	a.json(w, http.StatusCreated, sessionResponse{
		SessionID: sess.ID,
		DualMode:  sess.DualMode(),
		Balance:   balance,
		Contexts:  sess.Snapshot(),
	})
}

// resolveImage turns one open-context payload into an image reference
// with known pixel dimensions, storing uploaded bytes first.
func (a *App) resolveImage(r *http.Request, in openContextRequest) (editor.ImageRef, geom.Size, error) {
	if in.Container.Width <= 0 || in.Container.Height <= 0 {
		return editor.ImageRef{}, geom.Size{}, fmt.Errorf("%w: container size required", domain.ErrImageDecode)
	}
	if in.ImageBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(in.ImageBase64)
		if err != nil {
			return editor.ImageRef{}, geom.Size{}, fmt.Errorf("%w: base64: %v", domain.ErrImageDecode, err)
		}
		width, height, err := storage.DecodeDimensions(data)
		if err != nil {
			return editor.ImageRef{}, geom.Size{}, err
		}
		assetID := uuid.NewString()
		key, err := a.Store.Write(r.Context(), "uploads/"+assetID+storage.DetectExt(data), data)
		if err != nil {
			return editor.ImageRef{}, geom.Size{}, err
		}
		url := strings.TrimRight(a.Cfg.StorageBaseURL, "/") + "/" + key
		return editor.ImageRef{URL: url, AssetID: assetID}, geom.Size{Width: float64(width), Height: float64(height)}, nil
	}
	if in.ImageURL == "" || in.ImageSize.Width <= 0 || in.ImageSize.Height <= 0 {
		return editor.ImageRef{}, geom.Size{}, fmt.Errorf("%w: image_url with image_size or image_base64 required", domain.ErrImageDecode)
	}
	return editor.ImageRef{URL: in.ImageURL, AssetID: in.AssetID}, in.ImageSize, nil
}

func (a *App) SessionGet(w http.ResponseWriter, r *http.Request) {
	e, ok := a.entry(chi.URLParam(r, "id"))
	if !ok {
		a.fail(w, domain.ErrNotFound)
		return
	}
	a.json(w, http.StatusOK, sessionResponse{
		SessionID: e.session.ID,
		DualMode:  e.session.DualMode(),
		Contexts:  e.session.Snapshot(),
	})
}

// SessionClose closes and unregisters the session. In-flight edit
// results arriving afterwards are discarded by the session itself.
func (a *App) SessionClose(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a.mu.Lock()
	e, ok := a.sessions[id]
	if ok {
		delete(a.sessions, id)
	}
	a.mu.Unlock()
	if !ok {
		a.fail(w, domain.ErrNotFound)
		return
	}
	e.session.Close()
	a.json(w, http.StatusOK, map[string]string{"status": "closed"})
}
