package main

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gapdash/adapters/api"
	"gapdash/internal/config"
	"gapdash/internal/container"
	"gapdash/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

//go:embed ui/templates/*.html ui/templates/fragments/*.html
var embeddedFiles embed.FS

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	ctx := context.Background()
	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	if err := appContainer.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	templates, err := fs.Sub(embeddedFiles, "ui/templates")
	if err != nil {
		log.Fatalf("Failed to open embedded templates: %v", err)
	}

	apiHandler := api.NewHandler(appContainer.Dashboard, appContainer.Summaries, appContainer.UsageService)
	server, err := ui.NewServer(templates, ui.Config{
		Dashboard: appContainer.Dashboard,
		Summaries: appContainer.Summaries,
		API:       apiHandler.Routes(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Starting gapdash server on port %s", appConfig.Server.Port)
		errCh <- server.Start(":" + appConfig.Server.Port)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Printf("Server stopped: %v", err)
		}
	case sig := <-stop:
		log.Printf("Received %s, shutting down", sig)
		// in-flight summaries may run up to AI_TIMEOUT
		shutdownCtx, cancel := context.WithTimeout(ctx, appConfig.AI.Timeout+5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}

	if err := appContainer.Shutdown(ctx); err != nil {
		log.Printf("Container shutdown error: %v", err)
	}
}
