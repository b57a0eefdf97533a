package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/app"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/storage"
)

func main() {
	configPath := os.Getenv("CLASSSYNC_CONFIG")
	if configPath == "" {
		if _, err := os.Stat("classsync.toml"); err == nil {
			configPath = "classsync.toml"
		}
	}

	config, err := common.LoadFromFile(nil, configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal logging to avoid cluttering MCP stdio
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn")

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer storageManager.Close()

	common.ApplyKeyReferences(context.Background(), config, storageManager.KeyValueStorage())

	engine, err := app.NewEngine(config, storageManager.KeyValueStorage(), storageManager.DocumentStorage(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize merge engine")
	}

	mcpServer := server.NewMCPServer(
		"classsync",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createMergeNotesTool(), handleMergeNotes(engine.Pipeline, logger))
	mcpServer.AddTool(createExtractNoteTool(), handleExtractNote(engine.Extractor, logger))

	// Blocks on stdio
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
