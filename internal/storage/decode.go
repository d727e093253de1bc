package storage

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"banner-editor/internal/domain"
)

// DecodeDimensions reads the pixel dimensions of an uploaded raster.
// Without dimensions no coordinate transform is possible, so a decode
// failure disables the editing surface for that image.
func DecodeDimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", domain.ErrImageDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, domain.ErrImageDecode
	}
	return cfg.Width, cfg.Height, nil
}
