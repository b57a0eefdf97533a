package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/app"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/services/notes"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/storage"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [flags] FILE...",
	Short: "Merge local note files into one PDF",
	Long: `Runs the merge pipeline once. Images become handwritten notes, PDFs are
extracted, and .txt/.md files and --text values are used as typed notes.`,
	RunE: runMerge,
}

var (
	mergeOut   string
	mergeTexts []string
	mergeStore bool
)

func init() {
	mergeCmd.Flags().StringVarP(&mergeOut, "out", "o", models.DownloadName, "Output PDF path")
	mergeCmd.Flags().StringArrayVarP(&mergeTexts, "text", "t", nil, "Typed note text (repeatable)")
	mergeCmd.Flags().BoolVar(&mergeStore, "store", true, "Use stored API keys and save the merged document")
}

func runMerge(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	batchNotes, err := notes.Assemble(mergeTexts, args)
	if err != nil {
		return err
	}

	var kvStorage interfaces.KeyValueStorage
	var documents interfaces.DocumentStorage
	if mergeStore {
		// Another process (e.g. classsync serve) may hold the database lock
		manager, err := storage.NewStorageManager(logger, config)
		if err != nil {
			logger.Warn().Err(err).Msg("Storage unavailable, using environment and config keys only")
		} else {
			defer manager.Close()
			kvStorage = manager.KeyValueStorage()
			documents = manager.DocumentStorage()
			common.ApplyKeyReferences(ctx, config, kvStorage)
		}
	}

	engine, err := app.NewEngine(config, kvStorage, documents, logger)
	if err != nil {
		return err
	}

	doc, err := engine.Pipeline.Run(ctx, models.NewBatch(common.NewBatchID(), batchNotes))
	if err != nil {
		return err
	}

	if err := os.WriteFile(mergeOut, doc.PDF, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", mergeOut, err)
	}

	fmt.Printf("Notes merged successfully! %d pages written to %s", doc.PageCount, mergeOut)
	if doc.PlaceholderCount > 0 {
		fmt.Printf(" (%d notes could not be read)", doc.PlaceholderCount)
	}
	fmt.Println()
	return nil
}
