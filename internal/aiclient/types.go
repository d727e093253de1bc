package aiclient

import "banner-editor/internal/geom"

// OutputSize selects the resolution tier requested from the edit
// service.
type OutputSize string

const (
	OutputLow    OutputSize = "low"
	OutputMedium OutputSize = "medium"
	OutputHigh   OutputSize = "high"
)

// ReferenceDesign carries an optional style descriptor forwarded to the
// edit service untouched.
type ReferenceDesign struct {
	Palette    string `json:"palette,omitempty"`
	Typography string `json:"typography,omitempty"`
	Mood       string `json:"mood,omitempty"`
}

// InpaintRequest asks the service to regenerate the masked regions of
// the source image according to the prompt. Masks are normalized to the
// original dimensions and listed in selection order.
type InpaintRequest struct {
	SourceImage    string                `json:"source_image"`
	Masks          []geom.NormalizedRect `json:"masks"`
	Prompt         string                `json:"prompt"`
	OriginalWidth  int                   `json:"original_width"`
	OriginalHeight int                   `json:"original_height"`
	ReferenceImage string                `json:"reference_image,omitempty"`
	Design         *ReferenceDesign      `json:"reference_design,omitempty"`
	OutputSize     OutputSize            `json:"output_size,omitempty"`
}

// GenerateRequest asks the service for a fresh image, optionally angled
// at one audience segment for variation batches.
type GenerateRequest struct {
	Prompt         string `json:"prompt"`
	ReferenceImage string `json:"reference_image,omitempty"`
	TargetWidth    int    `json:"target_width"`
	TargetHeight   int    `json:"target_height"`
	SegmentLabel   string `json:"segment_label,omitempty"`
}

// OCRRequest extracts text from the cropped areas of the source image.
type OCRRequest struct {
	SourceImage string                `json:"source_image"`
	CropAreas   []geom.NormalizedRect `json:"crop_areas"`
}

// TextReplaceRequest redraws the masked regions with corrected text.
type TextReplaceRequest struct {
	SourceImage   string                `json:"source_image"`
	Masks         []geom.NormalizedRect `json:"masks"`
	OriginalText  string                `json:"original_text"`
	CorrectedText string                `json:"corrected_text"`
}

// UpscaleRequest raises the source image resolution by a factor.
type UpscaleRequest struct {
	SourceImage string `json:"source_image"`
	Factor      int    `json:"factor"`
}

// EditResult is the shared success shape of every image-producing call.
type EditResult struct {
	ImageURL     string  `json:"image_url"`
	ImageID      string  `json:"image_id"`
	CostEstimate float64 `json:"cost_estimate,omitempty"`
	DurationMS   int64   `json:"duration_ms,omitempty"`
}
