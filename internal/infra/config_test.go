package infra

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_BASE_URL", "")
	t.Setenv("EDITOR_MAX_SEGMENTS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StorageBaseURL != "http://localhost:8080/static" {
		t.Fatalf("StorageBaseURL mismatch: %q", cfg.StorageBaseURL)
	}
	if cfg.DefaultLocale != "ja" {
		t.Fatalf("DefaultLocale mismatch: %q", cfg.DefaultLocale)
	}
	if cfg.MinSegments != 2 || cfg.MaxSegments != 6 {
		t.Fatalf("segment limits mismatch: %d..%d", cfg.MinSegments, cfg.MaxSegments)
	}
	if cfg.MaxSelections != 0 {
		t.Fatalf("MaxSelections default must be unlimited, got %d", cfg.MaxSelections)
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is missing")
	}
}

func TestLoadConfigEditorLimits(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("EDITOR_MAX_SELECTIONS", "8")
	t.Setenv("EDITOR_MIN_SEGMENTS", "3")
	t.Setenv("EDITOR_MAX_SEGMENTS", "4")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.MaxSelections != 8 || cfg.MinSegments != 3 || cfg.MaxSegments != 4 {
		t.Fatalf("editor limits not honored: %+v", cfg)
	}
}

func TestLoadConfigSplitsAllowedOrigins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	want := []string{"https://app.example.com", "https://staging.example.com"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins mismatch: %#v", cfg.AllowedOrigins)
	}
	for i, origin := range want {
		if cfg.AllowedOrigins[i] != origin {
			t.Fatalf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], origin)
		}
	}
}
