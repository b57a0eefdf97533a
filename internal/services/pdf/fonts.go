package pdf

import "strings"

// fallbackFamily is used when a requested font is not a PDF core font.
const fallbackFamily = "Helvetica"

// coreFamilies are the standard PDF fonts fpdf can use without embedding.
var coreFamilies = map[string]string{
	"helvetica":    "Helvetica",
	"arial":        "Helvetica",
	"times":        "Times",
	"courier":      "Courier",
	"symbol":       "Symbol",
	"zapfdingbats": "ZapfDingbats",
}

// CoreFamily returns the core font for family. Unknown or empty families
// resolve to Helvetica with ok set to false. The measurer and the renderer
// both resolve through here so measured widths match drawn text.
func CoreFamily(family string) (string, bool) {
	if core, ok := coreFamilies[strings.ToLower(strings.TrimSpace(family))]; ok {
		return core, true
	}
	return fallbackFamily, false
}
