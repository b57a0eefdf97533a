package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createMergeNotesTool returns the merge_notes tool definition
func createMergeNotesTool() mcp.Tool {
	return mcp.NewTool("merge_notes",
		mcp.WithDescription("Merge class notes from several students into one illustrated PDF. At least two notes are required."),
		mcp.WithArray("texts",
			mcp.WithStringItems(),
			mcp.Description("Typed notes, one entry per note"),
		),
		mcp.WithArray("files",
			mcp.WithStringItems(),
			mcp.Description("Local file paths: images are read as handwriting, PDFs are extracted, .txt/.md are typed notes"),
		),
		mcp.WithString("output_path",
			mcp.Description("Where to write the merged PDF (optional)"),
		),
	)
}

// createExtractNoteTool returns the extract_note tool definition
func createExtractNoteTool() mcp.Tool {
	return mcp.NewTool("extract_note",
		mcp.WithDescription("Extract the text of a single note image or PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Local file path of the note"),
		),
	)
}
