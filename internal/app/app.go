package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/handlers"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/services/kv"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/services/notes"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/services/retention"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Services
	KVService        *kv.Service
	NoteService      *notes.Service
	Engine           *Engine
	RetentionService *retention.Service

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	NoteHandler     *handlers.NoteHandler
	MergeHandler    *handlers.MergeHandler
	DocumentHandler *handlers.DocumentHandler
	KVHandler       *handlers.KVHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		app.StorageManager.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Bool("ai_configured", app.Engine.Capabilities.Configured()).
		Bool("retention_enabled", cfg.Retention.Enabled).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase opens storage and resolves {key-name} references in the
// configuration from the KV store
func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}
	a.StorageManager = storageManager

	// Must happen before the AI capabilities read their configuration
	common.ApplyKeyReferences(context.Background(), a.Config, storageManager.KeyValueStorage())

	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")
	return nil
}

// initServices initializes business services in dependency order
func (a *App) initServices() error {
	a.KVService = kv.NewService(a.StorageManager.KeyValueStorage(), a.Logger)
	a.NoteService = notes.NewService(a.StorageManager.NoteStorage(), a.Logger)

	engine, err := NewEngine(a.Config, a.StorageManager.KeyValueStorage(), a.StorageManager.DocumentStorage(), a.Logger)
	if err != nil {
		return err
	}
	a.Engine = engine

	if a.Config.Retention.Enabled {
		a.RetentionService, err = retention.NewService(a.StorageManager.DocumentStorage(), a.Config.Retention, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to create retention service: %w", err)
		}
		if err := a.RetentionService.Start(a.Config.Retention.Schedule); err != nil {
			return fmt.Errorf("failed to start retention service: %w", err)
		}
	}

	return nil
}

func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Engine.Capabilities, a.Logger)
	a.NoteHandler = handlers.NewNoteHandler(a.NoteService, a.Config.Server.MaxUploadSize, a.Logger)
	a.MergeHandler = handlers.NewMergeHandler(a.Engine.Pipeline, a.NoteService, a.Config.Server.MaxUploadSize, a.Logger)
	a.DocumentHandler = handlers.NewDocumentHandler(a.StorageManager.DocumentStorage(), a.Logger)
	a.KVHandler = handlers.NewKVHandler(a.KVService, a.Logger)
}

// Close closes all application resources
func (a *App) Close() error {
	if a.RetentionService != nil {
		a.RetentionService.Stop()
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
