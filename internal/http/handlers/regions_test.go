package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
)

func putTestRegions(t *testing.T, h http.Handler, id string, regions []map[string]any) []map[string]any {
	t.Helper()
	rec := doJSON(t, h, http.MethodPut, "/v1/sessions/"+id+"/regions", map[string]any{
		"regions": regions,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put regions: status %d body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Regions []map[string]any `json:"regions"`
	}
	decodeBody(t, rec, &resp)
	return resp.Regions
}

func TestRegionsPutAssignsIDsAndClamps(t *testing.T) {
	app := newTestApp(&fakeEditService{})
	h := newTestRouter(app)
	id := openTestSession(t, h)

	regions := putTestRegions(t, h, id, []map[string]any{
		{"x": -50, "y": 100, "width": 200, "height": 100, "action_type": "url", "action_value": "https://example.com"},
	})
	if len(regions) != 1 {
		t.Fatalf("region count = %d", len(regions))
	}
	r := regions[0]
	if r["id"] == "" || r["id"] == nil {
		t.Fatalf("region id not assigned: %+v", r)
	}
	if r["x"].(float64) != 0 || r["width"].(float64) != 150 {
		t.Fatalf("region not clamped: %+v", r)
	}
}

func TestRegionHitAndDrag(t *testing.T) {
	app := newTestApp(&fakeEditService{})
	h := newTestRouter(app)
	id := openTestSession(t, h)

	putTestRegions(t, h, id, []map[string]any{
		{"x": 100, "y": 100, "width": 200, "height": 100, "action_type": "url", "action_value": "/signup"},
	})

	// Device (100,75) at scale 0.5 is image (200,150), inside the body.
	rec := doJSON(t, h, http.MethodPost, "/v1/sessions/"+id+"/regions/hit", map[string]any{
		"point": map[string]float64{"x": 100, "y": 75},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("hit: status %d", rec.Code)
	}
	var hit struct {
		Hit    bool   `json:"hit"`
		Handle string `json:"handle"`
	}
	decodeBody(t, rec, &hit)
	if !hit.Hit || hit.Handle != "move" {
		t.Fatalf("hit = %+v, want move", hit)
	}

	// Move by device (+25,+25) = image (+50,+50).
	rec = doJSON(t, h, http.MethodPost, "/v1/sessions/"+id+"/regions/drag", map[string]any{
		"phase": "move", "point": map[string]float64{"x": 125, "y": 100},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("drag: status %d", rec.Code)
	}
	var dragged struct {
		Regions []struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"regions"`
	}
	decodeBody(t, rec, &dragged)
	if dragged.Regions[0].X != 150 || dragged.Regions[0].Y != 150 {
		t.Fatalf("region after drag = %+v, want (150,150)", dragged.Regions[0])
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/sessions/"+id+"/regions/drag", map[string]any{
		"phase": "end", "point": map[string]float64{"x": 125, "y": 100},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("drag end: status %d", rec.Code)
	}
}

func TestRegionsSavePersistsValidatedSet(t *testing.T) {
	app := newTestApp(&fakeEditService{})
	saver := &fakeRegionSaver{}
	app.Regions = saver
	h := newTestRouter(app)
	id := openTestSession(t, h)

	putTestRegions(t, h, id, []map[string]any{
		{"x": 10, "y": 10, "width": 100, "height": 50, "action_type": "email", "action_value": "sales@example.com"},
	})

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions/"+id+"/regions/save", map[string]any{
		"banner_id": "banner-1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save: status %d body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		RegionSetID string `json:"region_set_id"`
		Count       int    `json:"count"`
	}
	decodeBody(t, rec, &resp)
	if resp.RegionSetID == "" || resp.Count != 1 {
		t.Fatalf("save response = %+v", resp)
	}
	var saved []map[string]any
	if err := json.Unmarshal(saver.saved, &saved); err != nil || len(saved) != 1 {
		t.Fatalf("persisted payload = %s err %v", saver.saved, err)
	}
}

func TestRegionsSaveRejectsFirstInvalidRegion(t *testing.T) {
	app := newTestApp(&fakeEditService{})
	app.Regions = &fakeRegionSaver{}
	h := newTestRouter(app)
	id := openTestSession(t, h)

	regions := putTestRegions(t, h, id, []map[string]any{
		{"x": 10, "y": 10, "width": 100, "height": 50, "action_type": "url", "action_value": "https://example.com"},
		{"x": 10, "y": 80, "width": 100, "height": 50, "action_type": "url", "action_value": "javascript:alert(1)"},
	})

	rec := doJSON(t, h, http.MethodPost, "/v1/sessions/"+id+"/regions/save", map[string]any{})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("save: status %d, want 422", rec.Code)
	}
	var resp struct {
		Error    string `json:"error"`
		RegionID string `json:"region_id"`
	}
	decodeBody(t, rec, &resp)
	if resp.Error != "region_invalid" {
		t.Fatalf("error code = %q", resp.Error)
	}
	if resp.RegionID != regions[1]["id"].(string) {
		t.Fatalf("offending region = %q, want %q", resp.RegionID, regions[1]["id"])
	}
}
