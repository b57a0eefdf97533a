package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

const illustrationName = "illustration"

// Renderer implements interfaces.DocumentRenderer with fpdf.
type Renderer struct {
	logger arbor.ILogger
	title  string
}

// Compile-time assertion
var _ interfaces.DocumentRenderer = (*Renderer)(nil)

// NewRenderer creates a renderer; title is written to the PDF metadata.
func NewRenderer(logger arbor.ILogger, title string) *Renderer {
	return &Renderer{
		logger: logger,
		title:  title,
	}
}

// Render draws layout exactly as placed. Layout coordinates have a bottom-left
// origin and are flipped to fpdf's top-left origin here.
func (r *Renderer) Render(ctx context.Context, layout *models.PageLayout) ([]byte, error) {
	opts := layout.Options
	pageHeight := opts.PageHeight

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: opts.PageWidth, Ht: pageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("ClassSync", true)
	if r.title != "" {
		pdf.SetTitle(r.title, true)
	}
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	imageType := ""
	if img := layout.Image; img != nil && len(img.Data) > 0 {
		var ok bool
		imageType, ok = imageTypes[img.MIMEType]
		if !ok {
			return nil, fmt.Errorf("unsupported image type %s", img.MIMEType)
		}
		pdf.RegisterImageOptionsReader(illustrationName, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(img.Data))
		if pdf.Err() {
			return nil, fmt.Errorf("failed to register image: %w", pdf.Error())
		}
	}

	pages := layout.Pages
	if len(pages) == 0 {
		pages = []models.Page{{}}
	}

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pdf.AddPage()
		family, _ := CoreFamily(opts.FontFamily)
		size := opts.FontSize
		pdf.SetFont(family, "", size)

		if page.Image != nil && imageType != "" {
			img := page.Image
			pdf.ImageOptions(illustrationName, img.X, pageHeight-(img.Y+img.Height), img.Width, img.Height,
				false, fpdf.ImageOptions{ImageType: imageType}, 0, "")
		}

		for _, line := range page.Lines {
			if strings.TrimSpace(line.Text) == "" {
				continue
			}
			lineFamily, lineSize := lineFont(line, opts)
			if lineFamily != family || lineSize != size {
				family, size = lineFamily, lineSize
				pdf.SetFont(family, "", size)
			}
			pdf.Text(line.X, pageHeight-line.Y, translate(line.Text))
		}
	}

	if pdf.Err() {
		return nil, fmt.Errorf("failed to render PDF: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}

	r.logger.Debug().
		Int("pages", len(pages)).
		Int("pdf_size", buf.Len()).
		Bool("image", imageType != "").
		Msg("PDF rendered")

	return buf.Bytes(), nil
}

// lineFont returns the core font and size for a line, falling back to the
// layout-wide style for placements that do not carry their own.
func lineFont(line models.LinePlacement, opts models.LayoutOptions) (string, float64) {
	family := line.Font
	if family == "" {
		family = opts.FontFamily
	}
	size := line.Size
	if size <= 0 {
		size = opts.FontSize
	}
	core, _ := CoreFamily(family)
	return core, size
}
