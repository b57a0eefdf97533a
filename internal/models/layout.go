package models

// Layout coordinates are in points with the origin at the bottom-left
// corner of the page. Y is the text baseline for lines and the bottom
// edge for images.

// RasterImage is a decoded illustration ready for placement.
type RasterImage struct {
	Data     []byte `json:"-"`
	MIMEType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// LayoutOptions describes page geometry and text style.
type LayoutOptions struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
	FontFamily string
	FontSize   float64
	LineHeight float64
	ImageScale float64
	ImageGap   float64
}

// ContentWidth is the horizontal space available for a line.
func (o LayoutOptions) ContentWidth() float64 {
	return o.PageWidth - 2*o.Margin
}

// LinePlacement positions one line of text on a page. Font and Size are
// the style the line was measured with; renderers fall back to the layout
// options when they are empty.
type LinePlacement struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Font string  `json:"font,omitempty"`
	Size float64 `json:"size,omitempty"`
}

// ImagePlacement positions the illustration on the first page.
type ImagePlacement struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Page is one page of a composed document.
type Page struct {
	Image *ImagePlacement `json:"image,omitempty"`
	Lines []LinePlacement `json:"lines"`
}

// PageLayout is the full, renderer-independent document layout.
type PageLayout struct {
	Options LayoutOptions `json:"-"`
	Image   *RasterImage  `json:"image,omitempty"`
	Pages   []Page        `json:"pages"`
}

// LineCount returns the number of placed lines across all pages.
func (l *PageLayout) LineCount() int {
	n := 0
	for _, p := range l.Pages {
		n += len(p.Lines)
	}
	return n
}
