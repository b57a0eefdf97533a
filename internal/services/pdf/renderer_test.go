package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

func a4Options() models.LayoutOptions {
	return models.LayoutOptions{
		PageWidth:  595.28,
		PageHeight: 841.89,
		Margin:     50,
		FontFamily: "Helvetica",
		FontSize:   12,
		LineHeight: 14.4,
		ImageScale: 0.5,
		ImageGap:   20,
	}
}

func TestRenderer_Render(t *testing.T) {
	renderer := NewRenderer(arbor.NewLogger(), "Merged Class Notes")
	pngData := testPNG(t, 64, 32)

	tests := []struct {
		name   string
		layout *models.PageLayout
	}{
		{
			name: "text only",
			layout: &models.PageLayout{
				Options: a4Options(),
				Pages: []models.Page{{Lines: []models.LinePlacement{
					{Text: "Photosynthesis notes", X: 50, Y: 791.89},
					{Text: "", X: 50, Y: 777.49},
					{Text: "Résumé of chapter 3", X: 50, Y: 763.09},
				}}},
			},
		},
		{
			name: "image on first page",
			layout: &models.PageLayout{
				Options: a4Options(),
				Image:   &models.RasterImage{Data: pngData, MIMEType: "image/png", Width: 64, Height: 32},
				Pages: []models.Page{
					{
						Image: &models.ImagePlacement{X: 281.64, Y: 775.89, Width: 32, Height: 16},
						Lines: []models.LinePlacement{{Text: "AB", X: 50, Y: 755.89}},
					},
					{Lines: []models.LinePlacement{{Text: "second page", X: 50, Y: 791.89}}},
				},
			},
		},
		{
			name:   "no pages",
			layout: &models.PageLayout{Options: a4Options()},
		},
		{
			name: "unknown font family",
			layout: func() *models.PageLayout {
				opts := a4Options()
				opts.FontFamily = "Verdana"
				return &models.PageLayout{
					Options: opts,
					Pages: []models.Page{{Lines: []models.LinePlacement{
						{Text: "Cell division", X: 50, Y: 791.89},
					}}},
				}
			}(),
		},
		{
			name: "per-line fonts",
			layout: &models.PageLayout{
				Options: a4Options(),
				Pages: []models.Page{{Lines: []models.LinePlacement{
					{Text: "Heading", X: 50, Y: 791.89, Font: "Times", Size: 16},
					{Text: "Body text", X: 50, Y: 771.89, Font: "Verdana", Size: 12},
					{Text: "Inherited style", X: 50, Y: 757.49},
				}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdfBytes, err := renderer.Render(context.Background(), tt.layout)
			require.NoError(t, err)
			require.Greater(t, len(pdfBytes), 4)
			assert.Equal(t, "%PDF", string(pdfBytes[:4]))
		})
	}
}

func TestRenderer_UnsupportedImage(t *testing.T) {
	renderer := NewRenderer(arbor.NewLogger(), "")

	_, err := renderer.Render(context.Background(), &models.PageLayout{
		Options: a4Options(),
		Image:   &models.RasterImage{Data: []byte("RIFF0000WEBP"), MIMEType: "image/webp", Width: 1, Height: 1},
		Pages:   []models.Page{{}},
	})
	assert.Error(t, err)
}

func TestRenderer_CancelledContext(t *testing.T) {
	renderer := NewRenderer(arbor.NewLogger(), "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := renderer.Render(ctx, &models.PageLayout{Options: a4Options(), Pages: []models.Page{{}}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLineFont(t *testing.T) {
	opts := a4Options()

	tests := []struct {
		name       string
		line       models.LinePlacement
		wantFamily string
		wantSize   float64
	}{
		{"inherits layout style", models.LinePlacement{Text: "a"}, "Helvetica", 12},
		{"own style", models.LinePlacement{Text: "a", Font: "courier", Size: 9}, "Courier", 9},
		{"unknown family", models.LinePlacement{Text: "a", Font: "Verdana", Size: 10}, "Helvetica", 10},
		{"zero size", models.LinePlacement{Text: "a", Font: "Times"}, "Times", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			family, size := lineFont(tt.line, opts)
			assert.Equal(t, tt.wantFamily, family)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}
