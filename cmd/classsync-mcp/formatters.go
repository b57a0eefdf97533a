package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

// formatMergedDocument formats a merge outcome as markdown
func formatMergedDocument(doc *models.MergedDocument, outputPath string) string {
	var sb strings.Builder
	sb.WriteString("## Notes merged successfully!\n\n")
	sb.WriteString(fmt.Sprintf("**Document:** %s\n", doc.ID))
	sb.WriteString(fmt.Sprintf("**Notes:** %d", doc.NoteCount))
	if doc.PlaceholderCount > 0 {
		sb.WriteString(fmt.Sprintf(" (%d unreadable)", doc.PlaceholderCount))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("**Pages:** %d\n", doc.PageCount))
	if outputPath != "" {
		sb.WriteString(fmt.Sprintf("**PDF:** %s\n", outputPath))
	}
	sb.WriteString(fmt.Sprintf("**Created:** %s\n\n", doc.CreatedAt.Format(time.RFC3339)))

	sb.WriteString("### Merged text\n\n")
	sb.WriteString(doc.Text)
	sb.WriteString("\n")
	return sb.String()
}

// formatExtraction formats one extraction result as markdown
func formatExtraction(note models.Note, result models.ExtractionResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s (%s)\n\n", note.Name, note.Kind))
	if result.Placeholder {
		sb.WriteString("_Text could not be extracted._\n\n")
	}
	sb.WriteString(result.Text)
	sb.WriteString("\n")
	return sb.String()
}
