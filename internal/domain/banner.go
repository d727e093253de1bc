package domain

import "time"

// Banner is a persisted banner/landing-page record with its current
// image references per context.
type Banner struct {
	ID              string
	OwnerID         string
	Title           string
	DesktopImageURL string
	DesktopAssetID  string
	MobileImageURL  string
	MobileAssetID   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RegionSet is a validated clickable-region set persisted for a banner.
// Regions are stored as JSON in insertion order.
type RegionSet struct {
	ID          string
	BannerID    string
	Context     string
	RegionsJSON []byte
	CreatedAt   time.Time
}

// SessionEvent records a session-open for analytics.
type SessionEvent struct {
	SessionID   string
	Country     string
	Locale      string
	ImageWidth  int
	ImageHeight int
	DualMode    bool
	CreatedAt   time.Time
}
