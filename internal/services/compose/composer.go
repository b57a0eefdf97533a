// Package compose lays merged text and an optional illustration out onto
// fixed-size pages.
//
// The layout is pure: the same text, image dimensions, measurer and options
// always produce the same pages. Rendering to PDF bytes is a separate step.
package compose

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

// ErrInvalidOptions is returned when the page geometry leaves no room for text.
var ErrInvalidOptions = errors.New("invalid layout options")

// Composer turns text into a PageLayout using a TextMeasurer for widths.
type Composer struct {
	measurer interfaces.TextMeasurer
	options  models.LayoutOptions
}

// NewComposer validates options and returns a Composer.
func NewComposer(measurer interfaces.TextMeasurer, options models.LayoutOptions) (*Composer, error) {
	if measurer == nil {
		return nil, fmt.Errorf("%w: measurer is required", ErrInvalidOptions)
	}
	if err := validateOptions(options); err != nil {
		return nil, err
	}
	return &Composer{measurer: measurer, options: options}, nil
}

// Options returns the geometry the composer lays out against.
func (c *Composer) Options() models.LayoutOptions {
	return c.options
}

func validateOptions(o models.LayoutOptions) error {
	switch {
	case o.PageWidth <= 0 || o.PageHeight <= 0:
		return fmt.Errorf("%w: page size %.2fx%.2f", ErrInvalidOptions, o.PageWidth, o.PageHeight)
	case o.Margin < 0:
		return fmt.Errorf("%w: negative margin", ErrInvalidOptions)
	case o.ContentWidth() <= 0:
		return fmt.Errorf("%w: margins leave no horizontal space", ErrInvalidOptions)
	case o.PageHeight-2*o.Margin < o.LineHeight:
		return fmt.Errorf("%w: margins leave no room for a line", ErrInvalidOptions)
	case o.FontSize <= 0 || o.LineHeight <= 0:
		return fmt.Errorf("%w: font size and line height must be positive", ErrInvalidOptions)
	case o.ImageScale <= 0:
		return fmt.Errorf("%w: image scale must be positive", ErrInvalidOptions)
	}
	return nil
}

// cursor tracks the page under construction and the baseline of the next line.
type cursor struct {
	opts  models.LayoutOptions
	pages []models.Page
	y     float64
}

func (c *cursor) top() float64 {
	return c.opts.PageHeight - c.opts.Margin
}

func (c *cursor) newPage() {
	c.pages = append(c.pages, models.Page{Lines: []models.LinePlacement{}})
	c.y = c.top()
}

func (c *cursor) current() *models.Page {
	return &c.pages[len(c.pages)-1]
}

// emit places a line at the cursor and moves down one line height. A cursor
// below the bottom margin starts a new page first, so a document never ends
// with an empty page.
func (c *cursor) emit(text string) {
	if c.y < c.opts.Margin {
		c.newPage()
	}
	page := c.current()
	page.Lines = append(page.Lines, models.LinePlacement{
		Text: text,
		X:    c.opts.Margin,
		Y:    c.y,
		Font: c.opts.FontFamily,
		Size: c.opts.FontSize,
	})
	c.y -= c.opts.LineHeight
}

// Compose lays out text, and image when non-nil, onto pages.
//
// Text is split into paragraphs on "\n". Each paragraph is word-wrapped so a
// line's measured width stays strictly below the content width; a single word
// wider than that is placed alone on its own line. The image is drawn only on
// the first page, centered horizontally, above the text.
func (c *Composer) Compose(text string, image *models.RasterImage) *models.PageLayout {
	opts := c.options
	cur := &cursor{opts: opts}
	cur.newPage()

	if image != nil && image.Width > 0 && image.Height > 0 {
		placement := c.placeImage(image)
		cur.current().Image = placement
		cur.y = placement.Y - opts.ImageGap
	}

	limit := opts.ContentWidth()
	for _, paragraph := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(paragraph) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if c.measure(candidate) < limit {
				line = candidate
				continue
			}
			if line != "" {
				cur.emit(line)
			}
			line = word
		}
		cur.emit(line)
	}

	return &models.PageLayout{
		Options: opts,
		Image:   image,
		Pages:   cur.pages,
	}
}

func (c *Composer) measure(s string) float64 {
	return c.measurer.Width(s, c.options.FontFamily, c.options.FontSize)
}

// placeImage scales the image by the configured factor, shrinking further
// when needed so it fits within the content area.
func (c *Composer) placeImage(image *models.RasterImage) *models.ImagePlacement {
	opts := c.options
	w := float64(image.Width) * opts.ImageScale
	h := float64(image.Height) * opts.ImageScale

	if maxW := opts.ContentWidth(); w > maxW {
		h = h * maxW / w
		w = maxW
	}
	// Keep at least one line of text on the first page
	if maxH := opts.PageHeight - 2*opts.Margin - opts.ImageGap - opts.LineHeight; maxH > 0 && h > maxH {
		w = w * maxH / h
		h = maxH
	}

	top := opts.PageHeight - opts.Margin
	return &models.ImagePlacement{
		X:      (opts.PageWidth - w) / 2,
		Y:      top - h,
		Width:  w,
		Height: h,
	}
}
