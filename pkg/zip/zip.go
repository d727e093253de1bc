// Package zip bundles session-export entries into a single archive.
package zip

import (
	"archive/zip"
	"bytes"
	"strings"
)

// Asset is one file of a session export: a context manifest, a region
// list, or raw image bytes.
type Asset struct {
	Filename string
	MIME     string
	Data     []byte
}

// ArchiveAssets writes the assets into an in-memory zip. Image payloads
// are stored uncompressed since the encoded rasters do not deflate;
// everything else (JSON manifests, region lists) is compressed. Entries
// without a filename are skipped.
func ArchiveAssets(assets []Asset) []byte {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, asset := range assets {
		if asset.Filename == "" {
			continue
		}
		hdr := &zip.FileHeader{Name: asset.Filename, Method: zip.Deflate}
		if strings.HasPrefix(asset.MIME, "image/") {
			hdr.Method = zip.Store
		}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			continue
		}
		if _, err := w.Write(asset.Data); err != nil {
			return nil
		}
	}
	_ = zw.Close()
	return buf.Bytes()
}
