// -----------------------------------------------------------------------
// Local PDF text extraction
// Uses pdfcpu to decode page content streams, then reads text-showing
// operators from them
// -----------------------------------------------------------------------

package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
)

var contentPagePattern = regexp.MustCompile(`Content_page_(\d+)`)

// ErrNoText is returned when a PDF has no extractable text layer, e.g. a scan.
var ErrNoText = errors.New("no text layer found in PDF")

// Extractor implements interfaces.PDFTextExtractor without an external service.
type Extractor struct {
	logger  arbor.ILogger
	tempDir string
}

// Compile-time interface assertion
var _ interfaces.PDFTextExtractor = (*Extractor)(nil)

// NewExtractor creates a local PDF text extractor. Scratch files are written
// under the system temp directory and removed after each call.
func NewExtractor(logger arbor.ILogger) *Extractor {
	return &Extractor{
		logger:  logger,
		tempDir: os.TempDir(),
	}
}

// ExtractPDFText returns the text of every page, pages separated by a blank line.
func (e *Extractor) ExtractPDFText(ctx context.Context, pdf []byte) (string, error) {
	pages, err := e.ExtractPages(ctx, pdf)
	if err != nil {
		return "", wrapLocal(err)
	}

	nonEmpty := make([]string, 0, len(pages))
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) == 0 {
		return "", wrapLocal(ErrNoText)
	}

	return strings.Join(nonEmpty, "\n\n"), nil
}

// ExtractPages returns the text of each page in page order.
func (e *Extractor) ExtractPages(ctx context.Context, pdf []byte) ([]string, error) {
	workDir, err := os.MkdirTemp(e.tempDir, "classsync-pdf-")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	inFile := filepath.Join(workDir, "input.pdf")
	if err := os.WriteFile(inFile, pdf, 0644); err != nil {
		return nil, fmt.Errorf("failed to write temp PDF file: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pdfCtx, err := api.ReadContextFile(inFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	pageCount := pdfCtx.PageCount

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outDir := filepath.Join(workDir, "content")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create content directory: %w", err)
	}
	if err := api.ExtractContentFile(inFile, outDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract PDF content: %w", err)
	}

	files, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read extracted content: %w", err)
	}

	pageTexts := make(map[int]string, len(files))
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		m := contentPagePattern.FindStringSubmatch(file.Name())
		if m == nil {
			continue
		}
		pageNum, _ := strconv.Atoi(m[1])
		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			e.logger.Warn().Err(err).Int("page", pageNum).Msg("Failed to read page content")
			continue
		}
		pageTexts[pageNum] = TextFromContentStream(content)
	}

	pages := make([]string, 0, pageCount)
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		pages = append(pages, pageTexts[pageNum])
	}

	e.logger.Debug().
		Int("pages", pageCount).
		Int("pdf_size", len(pdf)).
		Msg("Extracted PDF text locally")

	return pages, nil
}

func wrapLocal(err error) error {
	kind := interfaces.ErrorKindUnknown
	if errors.Is(err, ErrNoText) {
		kind = interfaces.ErrorKindEmptyResponse
	}
	return &interfaces.CapabilityError{
		Capability: interfaces.CapabilityPDFText,
		Kind:       kind,
		Err:        err,
	}
}
