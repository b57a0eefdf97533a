package pdf

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

// imageTypes maps supported media types to fpdf image type names.
var imageTypes = map[string]string{
	"image/png":  "PNG",
	"image/jpeg": "JPG",
	"image/gif":  "GIF",
}

// DecodeImage reads the pixel dimensions of an illustration. The media type
// is sniffed from the bytes, so a wrong declared type is corrected.
func DecodeImage(data []byte, declaredType string) (*models.RasterImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("image is empty")
	}

	mimeType := mimetype.Detect(data).String()
	if _, ok := imageTypes[mimeType]; !ok {
		return nil, fmt.Errorf("unsupported image type %s (declared %s)", mimeType, declaredType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return &models.RasterImage{
		Data:     data,
		MIMEType: mimeType,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}
