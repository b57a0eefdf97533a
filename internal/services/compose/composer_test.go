package compose

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

// fixedMeasurer reports every rune as 6 points wide.
type fixedMeasurer struct{}

func (fixedMeasurer) Width(text, family string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * 6
}

// testOptions gives a 100pt content width (16 runes fit, 17 do not) and
// room for 10 lines per page.
func testOptions() models.LayoutOptions {
	return models.LayoutOptions{
		PageWidth:  200,
		PageHeight: 200,
		Margin:     50,
		FontFamily: "Helvetica",
		FontSize:   10,
		LineHeight: 10,
		ImageScale: 0.5,
		ImageGap:   10,
	}
}

func newTestComposer(t *testing.T) *Composer {
	t.Helper()
	c, err := NewComposer(fixedMeasurer{}, testOptions())
	require.NoError(t, err)
	return c
}

func allLines(layout *models.PageLayout) []string {
	var out []string
	for _, p := range layout.Pages {
		for _, l := range p.Lines {
			out = append(out, l.Text)
		}
	}
	return out
}

func TestCompose_ShortTextWithImage(t *testing.T) {
	c := newTestComposer(t)
	image := &models.RasterImage{Width: 100, Height: 40}

	layout := c.Compose("AB", image)

	require.Len(t, layout.Pages, 1)
	page := layout.Pages[0]
	require.NotNil(t, page.Image)
	assert.Equal(t, 50.0, page.Image.Width)
	assert.Equal(t, 20.0, page.Image.Height)
	assert.Equal(t, 75.0, page.Image.X) // centered: (200-50)/2
	assert.Equal(t, 130.0, page.Image.Y)

	require.Len(t, page.Lines, 1)
	assert.Equal(t, "AB", page.Lines[0].Text)
	assert.Equal(t, 50.0, page.Lines[0].X)
	assert.Equal(t, 120.0, page.Lines[0].Y) // image bottom minus gap
}

func TestCompose_NoImage(t *testing.T) {
	c := newTestComposer(t)

	layout := c.Compose("hello", nil)

	require.Len(t, layout.Pages, 1)
	assert.Nil(t, layout.Pages[0].Image)
	assert.Equal(t, 150.0, layout.Pages[0].Lines[0].Y)
}

func TestCompose_WrapsBelowLimit(t *testing.T) {
	c := newTestComposer(t)

	// "aaaa bbbb cccc" is 14 runes (84pt); adding " dddd" makes 19 (114pt)
	layout := c.Compose("aaaa bbbb cccc dddd eeee", nil)

	assert.Equal(t, []string{"aaaa bbbb cccc", "dddd eeee"}, allLines(layout))
	for _, l := range allLines(layout) {
		assert.Less(t, fixedMeasurer{}.Width(l, "", 0), 100.0)
	}
}

func TestCompose_ExactFitIsDeferred(t *testing.T) {
	c := newTestComposer(t)

	// "aaaaaaaa bbbbbbb" is 16 runes (96pt) and fits, the next word does not
	layout := c.Compose("aaaaaaaa bbbbbbb c", nil)
	assert.Equal(t, []string{"aaaaaaaa bbbbbbb", "c"}, allLines(layout))

	// Width exactly equal to the limit is not accepted
	exact, err := NewComposer(fixedMeasurer{}, models.LayoutOptions{
		PageWidth: 196, PageHeight: 200, Margin: 50,
		FontSize: 10, LineHeight: 10, ImageScale: 1,
	})
	require.NoError(t, err)
	// content width 96pt: "aaaaaaa bbbbbbbb" is 16 runes = 96pt, must wrap
	layout = exact.Compose("aaaaaaa bbbbbbbb", nil)
	assert.Equal(t, []string{"aaaaaaa", "bbbbbbbb"}, allLines(layout))
}

func TestCompose_LongWordOnItsOwnLine(t *testing.T) {
	c := newTestComposer(t)
	long := strings.Repeat("x", 40)

	layout := c.Compose("hi "+long+" there", nil)

	assert.Equal(t, []string{"hi", long, "there"}, allLines(layout))
}

func TestCompose_SingleOversizedWord(t *testing.T) {
	c := newTestComposer(t)
	long := strings.Repeat("w", 100)

	layout := c.Compose(long, nil)

	require.Len(t, layout.Pages, 1)
	assert.Equal(t, []string{long}, allLines(layout))
}

func TestCompose_ParagraphsAreHardBreaks(t *testing.T) {
	c := newTestComposer(t)

	layout := c.Compose("one\ntwo\n\nthree", nil)

	assert.Equal(t, []string{"one", "two", "", "three"}, allLines(layout))
	lines := layout.Pages[0].Lines
	for i := 1; i < len(lines); i++ {
		assert.Equal(t, lines[i-1].Y-10, lines[i].Y)
	}
}

func TestCompose_PageBreaks(t *testing.T) {
	c := newTestComposer(t)

	words := make([]string, 25)
	for i := range words {
		words[i] = "w"
	}
	layout := c.Compose(strings.Join(words, "\n"), nil)

	// Baselines 150..60 fit (10 lines), 50 is at the margin and still allowed,
	// so each page holds 11 lines
	require.Len(t, layout.Pages, 3)
	assert.Len(t, layout.Pages[0].Lines, 11)
	assert.Len(t, layout.Pages[1].Lines, 11)
	assert.Len(t, layout.Pages[2].Lines, 3)
	assert.Equal(t, 25, layout.LineCount())

	for _, p := range layout.Pages {
		assert.Equal(t, 150.0, p.Lines[0].Y)
		for _, l := range p.Lines {
			assert.GreaterOrEqual(t, l.Y, 50.0)
		}
	}
}

func TestCompose_NoTrailingEmptyPage(t *testing.T) {
	c := newTestComposer(t)

	layout := c.Compose(strings.Repeat("w\n", 10)+"w", nil)

	require.Len(t, layout.Pages, 1)
	assert.Len(t, layout.Pages[0].Lines, 11)
}

func TestCompose_ImageOnlyOnFirstPage(t *testing.T) {
	c := newTestComposer(t)
	image := &models.RasterImage{Width: 100, Height: 40}

	layout := c.Compose(strings.Repeat("line\n", 30), image)

	require.Greater(t, len(layout.Pages), 1)
	assert.NotNil(t, layout.Pages[0].Image)
	for _, p := range layout.Pages[1:] {
		assert.Nil(t, p.Image)
	}
}

func TestCompose_LargeImageFitsContentArea(t *testing.T) {
	c := newTestComposer(t)
	image := &models.RasterImage{Width: 1000, Height: 500}

	layout := c.Compose("text", image)

	img := layout.Pages[0].Image
	require.NotNil(t, img)
	assert.LessOrEqual(t, img.Width, 100.0)
	assert.GreaterOrEqual(t, img.X, 50.0)
	assert.InDelta(t, 2.0, img.Width/img.Height, 0.0001)
	assert.GreaterOrEqual(t, layout.Pages[0].Lines[0].Y, 50.0)
}

func TestCompose_Deterministic(t *testing.T) {
	c := newTestComposer(t)
	image := &models.RasterImage{Width: 64, Height: 64}
	input := "The mitochondria is the powerhouse of the cell.\nPhotosynthesis converts light energy into chemical energy stored in glucose."

	first := c.Compose(input, image)
	second := c.Compose(input, image)

	assert.Equal(t, first, second)
}

func TestCompose_LinesCarryStyle(t *testing.T) {
	c := newTestComposer(t)

	layout := c.Compose("aaaa bbbb cccc dddd\nsecond", nil)

	require.NotEmpty(t, allLines(layout))
	for _, p := range layout.Pages {
		for _, l := range p.Lines {
			assert.Equal(t, "Helvetica", l.Font)
			assert.Equal(t, 10.0, l.Size)
		}
	}
}

// randomNotes builds paragraphs of words between 1 and 25 runes long, so
// some words fit several to a line and some overflow on their own.
func randomNotes(rng *rand.Rand) string {
	const letters = "abcdefghijklmnopqrstuvwxyzéß"
	runes := []rune(letters)

	paragraphs := make([]string, 1+rng.Intn(5))
	for i := range paragraphs {
		words := make([]string, rng.Intn(30))
		for j := range words {
			word := make([]rune, 1+rng.Intn(25))
			for k := range word {
				word[k] = runes[rng.Intn(len(runes))]
			}
			words[j] = string(word)
		}
		sep := " "
		if rng.Intn(4) == 0 {
			sep = "  \t"
		}
		paragraphs[i] = strings.Join(words, sep)
	}
	return strings.Join(paragraphs, "\n")
}

func TestCompose_RandomTextWrapsWithinWidth(t *testing.T) {
	c := newTestComposer(t)
	limit := testOptions().ContentWidth()
	rng := rand.New(rand.NewSource(20240917))

	for i := 0; i < 500; i++ {
		input := randomNotes(rng)

		first := c.Compose(input, nil)
		lines := allLines(first)

		for _, line := range lines {
			fits := fixedMeasurer{}.Width(line, "", 0) < limit
			assert.True(t, fits || !strings.Contains(line, " "),
				"line %q overflows the content width", line)
		}
		assert.Equal(t, strings.Fields(input), strings.Fields(strings.Join(lines, " ")),
			"words lost or reordered for input %q", input)
		assert.GreaterOrEqual(t, first.LineCount(), strings.Count(input, "\n")+1)

		second := c.Compose(input, nil)
		assert.Equal(t, first, second)
	}
}

func TestCompose_EmptyText(t *testing.T) {
	c := newTestComposer(t)

	layout := c.Compose("", nil)

	require.Len(t, layout.Pages, 1)
	assert.Equal(t, []string{""}, allLines(layout))
}

func TestNewComposer_InvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		modify func(o *models.LayoutOptions)
	}{
		{"zero width", func(o *models.LayoutOptions) { o.PageWidth = 0 }},
		{"margins too wide", func(o *models.LayoutOptions) { o.Margin = 100 }},
		{"negative margin", func(o *models.LayoutOptions) { o.Margin = -1 }},
		{"zero line height", func(o *models.LayoutOptions) { o.LineHeight = 0 }},
		{"zero image scale", func(o *models.LayoutOptions) { o.ImageScale = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.modify(&opts)
			_, err := NewComposer(fixedMeasurer{}, opts)
			assert.ErrorIs(t, err, ErrInvalidOptions)
		})
	}

	_, err := NewComposer(nil, testOptions())
	assert.ErrorIs(t, err, ErrInvalidOptions)
}
