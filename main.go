package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gorcr/internal"
	"gorcr/internal/config"
	"gorcr/internal/container"
	"gorcr/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()
	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if err := appContainer.Connect(ctx); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	server := ui.NewServer(ui.ServerOptions{
		GinMode: appConfig.Server.GinMode,
		RunRepo: appContainer.RunRepo,
		Metrics: appContainer.Metrics,
		Logger:  logger,
	})

	if appConfig.Paths.ExpressionFile != "" && appConfig.Paths.PathwayFile != "" {
		inputs, err := appContainer.Inputs()
		if err != nil {
			log.Fatalf("Failed to load inputs: %v", err)
		}
		analysis, err := appContainer.Analysis.Run(ctx, inputs)
		if err != nil {
			log.Fatalf("Analysis failed: %v", err)
		}
		server.SetAnalysis(analysis)
	} else {
		logger.Warn("[Main] RCR_EXPRESSION_FILE and RCR_PATHWAY_FILE not set, serving stored runs only")
	}

	logger.Info("[Main] starting server on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
