package interfaces

import (
	"context"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

// TextMeasurer returns the rendered width of a string, in points,
// for a font family and size.
type TextMeasurer interface {
	Width(text string, family string, size float64) float64
}

// DocumentRenderer turns a composed layout into PDF bytes.
type DocumentRenderer interface {
	Render(ctx context.Context, layout *models.PageLayout) ([]byte, error)
}
