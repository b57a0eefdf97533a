package pdf

import (
	"sync"

	"github.com/go-pdf/fpdf"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
)

// Measurer implements interfaces.TextMeasurer with fpdf core font metrics,
// so widths match what Renderer draws.
type Measurer struct {
	mu        sync.Mutex
	pdf       *fpdf.Fpdf
	translate func(string) string
}

// Compile-time interface assertion
var _ interfaces.TextMeasurer = (*Measurer)(nil)

// NewMeasurer creates a measurer working in points.
func NewMeasurer() *Measurer {
	pdf := fpdf.New("P", "pt", "A4", "")
	return &Measurer{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// Width returns the width of text in points.
func (m *Measurer) Width(text string, family string, size float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	family, _ = CoreFamily(family)
	m.pdf.SetFont(family, "", size)
	return m.pdf.GetStringWidth(m.translate(text))
}
