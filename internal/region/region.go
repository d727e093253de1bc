package region

import (
	"banner-editor/internal/geom"
)

// ActionType enumerates what a clickable region does when tapped on the
// published banner.
type ActionType string

const (
	ActionURL       ActionType = "url"
	ActionEmail     ActionType = "email"
	ActionPhone     ActionType = "phone"
	ActionScroll    ActionType = "scroll"
	ActionFormInput ActionType = "form-input"
)

// FieldType enumerates the input kinds an embedded form may carry.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldTextarea FieldType = "textarea"
)

// FormField is one entry of an embedded lead form.
type FormField struct {
	ID       string    `json:"id"`
	Name     string    `json:"field_name"`
	Label    string    `json:"field_label"`
	Type     FieldType `json:"field_type"`
	Required bool      `json:"required"`
}

// Region is a committed rectangle augmented with clickable-action
// metadata. FormTitle and FormFields are only meaningful when the
// action type is form-input.
type Region struct {
	geom.Rect
	ActionType  ActionType  `json:"action_type"`
	ActionValue string      `json:"action_value"`
	Label       string      `json:"label,omitempty"`
	FormTitle   string      `json:"form_title,omitempty"`
	FormFields  []FormField `json:"form_fields,omitempty"`
}

// MinRegionSize is the smallest width/height a region may be resized to.
const MinRegionSize = 20

const (
	baseHandleSize  = 8.0
	minHandleSizePx = 15.0
)

// handleSize returns the corner-handle hit square side in image-pixel
// space, floored so the on-screen target never shrinks below a usable
// size regardless of zoom.
func handleSize(scale float64) float64 {
	if scale <= 0 {
		return minHandleSizePx
	}
	s := baseHandleSize / scale
	if s < minHandleSizePx {
		return minHandleSizePx
	}
	return s
}
