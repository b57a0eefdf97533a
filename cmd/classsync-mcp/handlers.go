package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/services/notes"
)

// batchRunner runs a full merge and returns the stored document
type batchRunner interface {
	Run(ctx context.Context, batch *models.Batch) (*models.MergedDocument, error)
}

// noteExtractor extracts the text of one note
type noteExtractor interface {
	Extract(ctx context.Context, note models.Note) models.ExtractionResult
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// handleMergeNotes implements the merge_notes tool
func handleMergeNotes(runner batchRunner, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		texts := request.GetStringSlice("texts", nil)
		files := request.GetStringSlice("files", nil)
		outputPath := request.GetString("output_path", "")

		batchNotes, err := notes.Assemble(texts, files)
		if err != nil {
			return textResult(fmt.Sprintf("Error: %v", err)), nil
		}

		doc, err := runner.Run(ctx, models.NewBatch(common.NewBatchID(), batchNotes))
		if err != nil {
			logger.Warn().Err(err).Int("notes", len(batchNotes)).Msg("merge_notes failed")
			return textResult(err.Error()), nil
		}

		if outputPath != "" {
			if err := os.WriteFile(outputPath, doc.PDF, 0644); err != nil {
				logger.Error().Err(err).Str("path", outputPath).Msg("Failed to write merged PDF")
				return textResult(fmt.Sprintf("Merged, but failed to write %s: %v", outputPath, err)), nil
			}
		}

		return textResult(formatMergedDocument(doc, outputPath)), nil
	}
}

// handleExtractNote implements the extract_note tool
func handleExtractNote(extractor noteExtractor, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil || path == "" {
			return textResult("Error: path parameter is required"), nil
		}

		note, err := notes.FromFile(path)
		if err != nil {
			return textResult(fmt.Sprintf("Error: %v", err)), nil
		}

		result := extractor.Extract(ctx, note)
		logger.Debug().
			Str("path", path).
			Str("kind", string(note.Kind)).
			Bool("placeholder", result.Placeholder).
			Msg("extract_note complete")

		return textResult(formatExtraction(note, result)), nil
	}
}
