package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/detego/internal/common"
	"github.com/ternarybob/detego/internal/handlers"
	"github.com/ternarybob/detego/internal/interfaces"
	"github.com/ternarybob/detego/internal/services/classifier"
	"github.com/ternarybob/detego/internal/services/detector"
	"github.com/ternarybob/detego/internal/services/pdf"
	"github.com/ternarybob/detego/internal/services/report"
	"github.com/ternarybob/detego/internal/services/status"
	"github.com/ternarybob/detego/internal/services/transform"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Classification backend
	ClassifierService interfaces.ClassifierService

	// Analysis pipeline services
	DetectorService  *detector.Service
	TransformService *transform.Service
	ReportService    *report.Service
	PDFService       *pdf.Service
	StatusService    *status.Service

	// HTTP handlers
	APIHandler     *handlers.APIHandler
	PageHandler    *handlers.PageHandler
	AnalyzeHandler *handlers.AnalyzeHandler
	ReportHandler  *handlers.ReportHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	// Background health probes keep /api/status fresh without warming the
	// classifier on the request path
	if err := app.StatusService.Start(); err != nil {
		return nil, fmt.Errorf("failed to start status service: %w", err)
	}

	logger.Info().
		Str("classifier_mode", string(app.ClassifierService.GetMode())).
		Str("environment", cfg.Environment).
		Msg("Application initialization complete")

	return app, nil
}

// initServices wires the classifier backend and the analysis pipeline.
func (a *App) initServices() error {
	classifierService, err := classifier.NewService(a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create classifier service: %w", err)
	}
	a.ClassifierService = classifierService

	a.TransformService = transform.NewService(a.Logger)
	a.DetectorService = detector.NewService(a.Config, a.ClassifierService, a.TransformService, a.Logger)
	a.ReportService = report.NewService(a.Logger)
	a.PDFService = pdf.NewService(a.Logger)
	a.StatusService = status.NewService(a.Config, a.ClassifierService, a.Logger)

	a.Logger.Debug().Msg("All services initialized")
	return nil
}

// initHandlers wires the HTTP handlers over the services.
func (a *App) initHandlers() error {
	a.PageHandler = handlers.NewPageHandler(a.Config, a.Logger)
	a.APIHandler = handlers.NewAPIHandler(a.ClassifierService, a.StatusService, a.Logger)
	a.AnalyzeHandler = handlers.NewAnalyzeHandler(a.DetectorService, a.Logger)
	a.ReportHandler = handlers.NewReportHandler(a.DetectorService, a.ReportService, a.PDFService, a.Logger)

	a.Logger.Debug().Msg("All handlers initialized")
	return nil
}

// Close releases application resources in reverse initialization order.
func (a *App) Close() error {
	a.Logger.Info().Msg("Shutting down application")

	if a.StatusService != nil {
		a.StatusService.Stop()
	}

	if a.ClassifierService != nil {
		if err := a.ClassifierService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close classifier service")
		}
	}

	a.Logger.Info().Msg("Application shutdown complete")
	return nil
}
